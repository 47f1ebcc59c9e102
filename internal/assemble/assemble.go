// Package assemble concatenates the reconciled pages of a run into the single
// table a document's evaluation criteria are read from.
package assemble

import (
	"fmt"
	"slices"

	"critable/internal/tables"
)

// HeaderMismatchError reports a page whose reconciled header differs from the
// first page of the run. Assembly never unions or truncates columns.
type HeaderMismatchError struct {
	ExpectedPage   int
	ExpectedHeader []string
	Page           int
	Header         []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header on page %d %q does not match page %d %q",
		e.Page, e.Header, e.ExpectedPage, e.ExpectedHeader)
}

// ErrorKind classifies the failure as needing manual review.
func (e *HeaderMismatchError) ErrorKind() string {
	return "validation"
}

// Assemble joins run in order. Rows keep their order within each page. An
// empty run yields an empty result and no error.
func Assemble(run []tables.Table) (tables.Assembled, error) {
	if len(run) == 0 {
		return tables.Assembled{}, nil
	}

	first := run[0]
	out := tables.Assembled{
		Table: tables.Table{Page: first.Page, Header: slices.Clone(first.Header)},
		Pages: make([]int, 0, len(run)),
	}
	for _, page := range run {
		if !slices.Equal(page.Header, first.Header) {
			return tables.Assembled{}, &HeaderMismatchError{
				ExpectedPage:   first.Page,
				ExpectedHeader: slices.Clone(first.Header),
				Page:           page.Page,
				Header:         slices.Clone(page.Header),
			}
		}
		out.Pages = append(out.Pages, page.Page)
		for _, row := range page.Rows {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}
	return out, nil
}
