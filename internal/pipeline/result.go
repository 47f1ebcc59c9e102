package pipeline

import (
	"critable/internal/classify"
	"critable/internal/tables"
)

// Result is the outcome of one document's pipeline run.
type Result struct {
	Document       string
	CandidateCount int
	KeptCount      int
	// KeptIDs and SelectedIDs list candidate IDs that passed the filter and
	// that formed the selected run.
	KeptIDs       []string
	SelectedIDs   []string
	SelectedPages []int
	MergedTables  int
	MergedRows    int
	Assembled     tables.Assembled
	// Header names the classified columns: TopLevel, SubLevel, then the
	// assembled columns after the label column.
	Header []string
	Rows   []classify.Row
}

// Empty reports whether no criterion table was found.
func (r *Result) Empty() bool {
	return r == nil || r.Assembled.Empty()
}

// StartPage returns the first page of the selected run, or 0.
func (r *Result) StartPage() int {
	return r.Assembled.StartPage()
}

// EndPage returns the last page of the selected run, or 0.
func (r *Result) EndPage() int {
	return r.Assembled.EndPage()
}

// MatchedRows counts rows with a top-level category.
func (r *Result) MatchedRows() int {
	n := 0
	for _, row := range r.Rows {
		if row.TopLevel != "" {
			n++
		}
	}
	return n
}

// Records returns the classified rows as string records, header first.
func (r *Result) Records() [][]string {
	if r.Empty() {
		return nil
	}
	out := make([][]string, 0, len(r.Rows)+1)
	out = append(out, append([]string(nil), r.Header...))
	for _, row := range r.Rows {
		out = append(out, row.Record())
	}
	return out
}
