package export

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"critable/internal/store"
)

// Sheet is a named grid of string cells with a header row.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Report is everything one export writes.
type Report struct {
	Criteria Sheet
	Stats    Sheet
}

const (
	SheetCriteria = "Criteria"
	SheetStats    = "Stats"
)

// DocumentSource is the store surface an export reads from.
type DocumentSource interface {
	List(ctx context.Context, statuses ...store.Status) ([]*store.Document, error)
	AllClassifiedRows(ctx context.Context) ([]store.ClassifiedTable, error)
}

// Collect builds a report from every document in src.
func Collect(ctx context.Context, src DocumentSource) (*Report, error) {
	classified, err := src.AllClassifiedRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classified rows: %w", err)
	}
	docs, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return &Report{Criteria: Criteria(classified), Stats: Stats(docs)}, nil
}

// Criteria stacks the classified tables into one sheet, aligning columns by
// canonical name.
func Criteria(classified []store.ClassifiedTable) Sheet {
	indexes := make([]map[string]int, len(classified))
	union := map[string]struct{}{}
	for i, table := range classified {
		indexes[i] = canonicalIndex(valueHeader(table.Header))
		for name := range indexes[i] {
			union[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(union))
	for name := range union {
		columns = append(columns, name)
	}
	slices.Sort(columns)

	header := make([]string, 0, len(columns)+3)
	header = append(header, ColumnTopLevel, ColumnSubLevel)
	header = append(header, columns...)
	header = append(header, ColumnFileName)

	sheet := Sheet{Name: SheetCriteria, Header: header}
	for i, table := range classified {
		for _, row := range table.Rows {
			out := make([]string, len(header))
			out[0], out[1] = cell(row, 0), cell(row, 1)
			for j, name := range columns {
				if idx, ok := indexes[i][name]; ok {
					out[j+2] = cell(row, idx+2)
				}
			}
			out[len(out)-1] = table.Document
			sheet.Rows = append(sheet.Rows, out)
		}
	}
	return sheet
}

// valueHeader drops the TopLevel and SubLevel columns.
func valueHeader(header []string) []string {
	if len(header) <= 2 {
		return nil
	}
	return header[2:]
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

var statsHeader = []string{
	ColumnFileName,
	"Status",
	"PageCount",
	"PublishMonth",
	"Candidates",
	"Kept",
	"SelectedPages",
	"MergedTables",
	"MergedRows",
	"StartPage",
	"EndPage",
	"ProcessedAt",
	"Error",
}

// Stats lists processing metadata, one row per document.
func Stats(docs []*store.Document) Sheet {
	sheet := Sheet{Name: SheetStats, Header: slices.Clone(statsHeader)}
	for _, doc := range docs {
		processed := ""
		if doc.ProcessedAt != nil {
			processed = doc.ProcessedAt.UTC().Format(time.RFC3339)
		}
		sheet.Rows = append(sheet.Rows, []string{
			doc.Name,
			string(doc.Status),
			strconv.Itoa(doc.PageCount),
			doc.PublishMonth,
			strconv.Itoa(doc.CandidateCount),
			strconv.Itoa(doc.KeptCount),
			joinPages(doc.SelectedPages),
			strconv.Itoa(doc.MergedTables),
			strconv.Itoa(doc.MergedRows),
			strconv.Itoa(doc.StartPage),
			strconv.Itoa(doc.EndPage),
			processed,
			doc.ErrorMessage,
		})
	}
	return sheet
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
