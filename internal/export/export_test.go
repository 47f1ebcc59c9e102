package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"critable/internal/export"
	"critable/internal/pipeline"
	"critable/internal/store"
	"critable/internal/tables"
	"critable/internal/testsupport"
)

func TestCanonicalColumn(t *testing.T) {
	tests := map[string]string{
		"Rating":                "Rating",
		"ratings (1-6)":         "Rating",
		"Summary assessment":    "SummaryAssessment",
		"Summary\nAssessment":   "SummaryAssessment",
		"SummaryAssessment":     "SummaryAssessment",
		"criterion":             "Criterion",
		"Criteria":              "Criterion",
		"Summary":               "Summary",
		"  Evaluator   remarks": "Evaluator remarks",
	}
	for in, want := range tests {
		if got := export.CanonicalColumn(in); got != want {
			t.Fatalf("CanonicalColumn(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCriteriaAlignsColumns(t *testing.T) {
	classified := []store.ClassifiedTable{
		{
			Document: "a.pdf",
			Header:   []string{"TopLevel", "SubLevel", "Summary assessment", "Rating"},
			Rows: [][]string{
				{"Effectiveness", "", "Delivered", "S"},
				{"Effectiveness", "Outputs", "Most", "MS"},
			},
		},
		{
			Document: "b.pdf",
			Header:   []string{"TopLevel", "SubLevel", "Rating (1-6)", "Ratings", "Notes"},
			Rows: [][]string{
				{"Efficiency", "", "4", "5", "late"},
			},
		},
	}

	sheet := export.Criteria(classified)
	if sheet.Name != export.SheetCriteria {
		t.Fatalf("sheet name = %q", sheet.Name)
	}
	wantHeader := []string{"TopLevel", "SubLevel", "Notes", "Rating", "SummaryAssessment", "FileName"}
	if !slices.Equal(sheet.Header, wantHeader) {
		t.Fatalf("header = %v, want %v", sheet.Header, wantHeader)
	}
	want := [][]string{
		{"Effectiveness", "", "", "S", "Delivered", "a.pdf"},
		{"Effectiveness", "Outputs", "", "MS", "Most", "a.pdf"},
		{"Efficiency", "", "late", "4", "", "b.pdf"},
	}
	if len(sheet.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(sheet.Rows), len(want))
	}
	for i := range want {
		if !slices.Equal(sheet.Rows[i], want[i]) {
			t.Fatalf("row %d = %v, want %v", i, sheet.Rows[i], want[i])
		}
	}
}

func TestCriteriaEmpty(t *testing.T) {
	sheet := export.Criteria(nil)
	if !slices.Equal(sheet.Header, []string{"TopLevel", "SubLevel", "FileName"}) || len(sheet.Rows) != 0 {
		t.Fatalf("unexpected empty sheet: %+v", sheet)
	}
}

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	header := []string{"Criterion", "Summary assessment", "Rating"}
	cs := []tables.Candidate{
		{ID: "p5", Page: 5, Header: header, Rows: [][]any{{"Effectiveness", "Delivered", "S"}}},
		{ID: "p6", Page: 6, Header: header, Rows: [][]any{{"Sustainability", "Likely", "L"}}},
	}
	result, err := pipeline.New(pipeline.DefaultOptions()).Run(ctx, "report.pdf", cs)
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}
	doc := testsupport.NewDocument(t, st, "report.pdf")
	if _, err := st.SaveResult(ctx, doc.ID, result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	testsupport.NewDocument(t, st, "pending.pdf")
	return st
}

func TestCollectAndWriteCSV(t *testing.T) {
	st := seedStore(t)

	report, err := export.Collect(context.Background(), st)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(report.Stats.Rows) != 2 {
		t.Fatalf("stats rows = %d, want 2", len(report.Stats.Rows))
	}
	stats := report.Stats.Rows[1]
	if stats[0] != "report.pdf" || stats[1] != "completed" || stats[6] != "5,6" || stats[8] != "2" {
		t.Fatalf("unexpected stats row: %v", stats)
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, export.FormatCSV); err != nil {
		t.Fatalf("Write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"TopLevel", "SubLevel", "Rating", "SummaryAssessment", "FileName"},
		{"Effectiveness", "", "S", "Delivered", "report.pdf"},
		{"Sustainability", "", "L", "Likely", "report.pdf"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %v", len(records), len(want), records)
	}
	for i := range want {
		if !slices.Equal(records[i], want[i]) {
			t.Fatalf("record %d = %v, want %v", i, records[i], want[i])
		}
	}
}

func TestWriteFileXLSX(t *testing.T) {
	st := seedStore(t)
	report, err := export.Collect(context.Background(), st)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", export.FileName("report.pdf", export.FormatXLSX))
	if filepath.Base(path) != "report.xlsx" {
		t.Fatalf("file name = %q", filepath.Base(path))
	}
	if err := report.WriteFile(path, export.FormatXLSX); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); !slices.Equal(sheets, []string{"Criteria", "Stats"}) {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("Criteria")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "Effectiveness" || rows[2][4] != "report.pdf" {
		t.Fatalf("criteria rows = %v", rows)
	}
	statsRows, err := f.GetRows("Stats")
	if err != nil {
		t.Fatalf("GetRows stats: %v", err)
	}
	if len(statsRows) != 3 || statsRows[0][0] != "FileName" {
		t.Fatalf("stats rows = %v", statsRows)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]export.Format{"csv": export.FormatCSV, " XLSX ": export.FormatXLSX} {
		got, err := export.ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := export.ParseFormat("json"); err == nil {
		t.Fatal("expected error for json")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		base   string
		format export.Format
		want   string
	}{
		{"report.pdf", export.FormatCSV, "report.csv"},
		{"Q1: review/final.pdf", export.FormatXLSX, "Q1- review-final.xlsx"},
		{"", export.FormatCSV, "criteria.csv"},
	}
	for _, tc := range tests {
		if got := export.FileName(tc.base, tc.format); got != tc.want {
			t.Fatalf("FileName(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}
