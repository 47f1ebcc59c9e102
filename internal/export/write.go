package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"critable/internal/textutil"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", value)
	}
}

// FileName derives an output file name from base and the format extension.
// Unsafe characters are replaced; an empty base becomes "criteria".
func FileName(base string, format Format) string {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = textutil.SanitizeFileName(base)
	if base == "" {
		base = "criteria"
	}
	return base + "." + string(format)
}

// Write encodes the report to w. CSV carries only the Criteria sheet.
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, r.Criteria)
	case FormatXLSX:
		return WriteXLSX(w, r.Criteria, r.Stats)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile writes the report to path, creating parent directories.
func (r *Report) WriteFile(path string, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := r.Write(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the sheet header and rows as CSV.
func WriteCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(sheet.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes each sheet to its own worksheet, in order. The header
// row is bold and frozen.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write xlsx: no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = "Sheet" + strconv.Itoa(i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, sheet); err != nil {
			return err
		}
		if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
			return fmt.Errorf("style sheet %s: %w", name, err)
		}
		if err := f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet) error {
	rows := make([][]string, 0, len(sheet.Rows)+1)
	rows = append(rows, sheet.Header)
	rows = append(rows, sheet.Rows...)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cellName, &values); err != nil {
			return fmt.Errorf("write sheet %s row %d: %w", name, i+1, err)
		}
	}
	return nil
}
