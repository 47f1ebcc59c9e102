package tables

import (
	"slices"
	"strings"
)

// Candidate is a table fragment detected on a single page.
type Candidate struct {
	ID     string
	Page   int
	Header []string
	Rows   [][]any
	BBox   []float64
}

// HeaderKey returns the trimmed, lowercased header names with empty names
// removed, the form used for marker-term checks.
func (c Candidate) HeaderKey() []string {
	keys := make([]string, 0, len(c.Header))
	for _, name := range c.Header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

// Table is a rectangular string table with a single header row.
type Table struct {
	Page   int
	Header []string
	Rows   [][]string
}

// Width returns the number of header columns.
func (t Table) Width() int {
	return len(t.Header)
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Page: t.Page, Header: slices.Clone(t.Header)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = slices.Clone(row)
		}
	}
	return out
}

// Grid returns the header followed by the rows, the layout persisted by the
// store and printed by the CLI.
func (t Table) Grid() [][]string {
	grid := make([][]string, 0, len(t.Rows)+1)
	grid = append(grid, slices.Clone(t.Header))
	for _, row := range t.Rows {
		grid = append(grid, slices.Clone(row))
	}
	return grid
}

// FromGrid builds a table from a header-first grid.
func FromGrid(grid [][]string) Table {
	if len(grid) == 0 {
		return Table{}
	}
	t := Table{Header: slices.Clone(grid[0])}
	for _, row := range grid[1:] {
		t.Rows = append(t.Rows, slices.Clone(row))
	}
	return t
}

// Assembled is the single table formed from a run of reconciled pages.
type Assembled struct {
	Table
	Pages []int
}

// StartPage returns the first page of the run, or 0 when empty.
func (a Assembled) StartPage() int {
	if len(a.Pages) == 0 {
		return 0
	}
	return a.Pages[0]
}

// EndPage returns the last page of the run, or 0 when empty.
func (a Assembled) EndPage() int {
	if len(a.Pages) == 0 {
		return 0
	}
	return a.Pages[len(a.Pages)-1]
}

// Empty reports whether no page was assembled.
func (a Assembled) Empty() bool {
	return len(a.Pages) == 0
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RowBlank reports whether every cell in row is blank.
func RowBlank(row []string) bool {
	for _, cell := range row {
		if !IsBlank(cell) {
			return false
		}
	}
	return true
}

// CollapseSpace trims s and joins its whitespace-separated fields with a
// single space, folding detector line breaks inside header names.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
