package reconcile

import (
	"fmt"
	"strings"
)

// Conflict records one row where an auxiliary cell and a merge target cell
// both hold different non-blank values.
type Conflict struct {
	Row         int
	Direction   Direction
	Target      string
	Value       string
	TargetValue string
}

// MergeAmbiguityError reports an auxiliary column that cannot be merged in
// any direction without losing data.
type MergeAmbiguityError struct {
	Page      int
	Column    string
	Index     int
	Reason    string
	Conflicts []Conflict
	// Rows holds the full conflicting rows, keyed by row index, in the
	// column layout at the time of the failure.
	Header []string
	Rows   map[int][]string
}

func (e *MergeAmbiguityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "page %d: cannot merge column %q (index %d)", e.Page, e.Column, e.Index)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "; %s %q row %d: %q vs %q", c.Direction, c.Target, c.Row, c.Value, c.TargetValue)
	}
	return b.String()
}

// ErrorKind classifies the failure as needing manual review.
func (e *MergeAmbiguityError) ErrorKind() string {
	return "validation"
}
