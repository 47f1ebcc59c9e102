package export

import (
	"strings"

	"critable/internal/tables"
	"critable/internal/textutil"
)

const (
	ColumnTopLevel          = "TopLevel"
	ColumnSubLevel          = "SubLevel"
	ColumnFileName          = "FileName"
	ColumnRating            = "Rating"
	ColumnSummaryAssessment = "SummaryAssessment"
	ColumnCriterion         = "Criterion"
)

// canonicalMinScore is exclusive.
const canonicalMinScore = 80

// CanonicalColumn maps a classified column name to its export name. Names
// starting with "rating" become Rating; names scoring above 80 against
// SummaryAssessment or Criterion take that name. Anything else is returned
// with whitespace collapsed.
func CanonicalColumn(name string) string {
	name = tables.CollapseSpace(name)
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "rating") {
		return ColumnRating
	}
	for _, canonical := range []string{ColumnSummaryAssessment, ColumnCriterion} {
		if textutil.Ratio(lower, strings.ToLower(canonical)) > canonicalMinScore {
			return canonical
		}
	}
	return name
}

// canonicalIndex maps each canonical value column to its first position in
// header. Reserved names and blanks are skipped.
func canonicalIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, name := range header {
		canonical := CanonicalColumn(name)
		switch canonical {
		case "", ColumnTopLevel, ColumnSubLevel, ColumnFileName:
			continue
		}
		if _, dup := out[canonical]; !dup {
			out[canonical] = i
		}
	}
	return out
}
