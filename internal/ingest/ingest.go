package ingest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"critable/internal/tables"
)

//go:embed detector.schema.json
var detectorSchema []byte

const schemaResource = "detector.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(detectorSchema)); err != nil {
		return nil, fmt.Errorf("load detector schema: %w", err)
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compile detector schema: %w", err)
	}
	return schema, nil
})

// ErrInvalidInput marks detector output that fails schema validation or
// decoding.
var ErrInvalidInput = errors.New("invalid detector output")

// Document is an ingested document ready for the pipeline.
type Document struct {
	Name         string
	SourcePath   string
	PageCount    int
	PublishMonth string
	Candidates   []tables.Candidate
}

// ReadFile ingests the detector JSON at path. A relative source_path is
// resolved against the file's directory.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read detector output: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if doc.SourcePath != "" && !filepath.IsAbs(doc.SourcePath) {
		doc.SourcePath = filepath.Join(filepath.Dir(path), doc.SourcePath)
	}
	if doc.PageCount == 0 {
		doc.PageCount = PDFPageCount(doc.SourcePath)
	}
	return doc, nil
}

// Decode ingests detector JSON from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read detector output: %w", err)
	}
	return Parse(data)
}

// Parse validates and converts detector JSON. It does not touch the
// filesystem; PageCount is whatever the file states.
func Parse(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var file File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &Document{
		Name:         strings.TrimSpace(file.Document),
		SourcePath:   strings.TrimSpace(file.SourcePath),
		PageCount:    file.PageCount,
		PublishMonth: PublishMonth(file.FirstPageText),
		Candidates:   Candidates(file),
	}, nil
}

// Validate checks data against the detector schema.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Candidates converts every detected table to a candidate in page and
// detection order. Each candidate gets a fresh ID.
func Candidates(file File) []tables.Candidate {
	var out []tables.Candidate
	for _, page := range file.Pages {
		for _, raw := range page.Tables {
			rows := raw.Cells
			if !raw.HeaderExternal && len(rows) > 0 {
				rows = rows[1:]
			}
			out = append(out, tables.Candidate{
				ID:     uuid.NewString(),
				Page:   page.Page,
				Header: raw.HeaderNames(),
				Rows:   cloneRows(rows),
				BBox:   append([]float64(nil), raw.BBox...),
			})
		}
	}
	return out
}

func cloneRows(rows [][]any) [][]any {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// PDFPageCount returns the page count of the PDF at path, or 0 when path is
// empty, unreadable, or not a PDF.
func PDFPageCount(path string) int {
	if path == "" || !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 0
	}
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0
	}
	return count
}
