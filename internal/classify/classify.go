package classify

import (
	"regexp"
	"slices"
	"strings"

	"critable/internal/tables"
	"critable/internal/textutil"
)

// Header names of the two classification columns.
const (
	TopLevelColumn = "TopLevel"
	SubLevelColumn = "SubLevel"
)

var outlinePrefix = regexp.MustCompile(`^\s*\d+(?:\.\d+)*[.)]?\s*`)

// Row is one classified table row. Values holds the table's remaining
// columns, in order, after the label column.
type Row struct {
	TopLevel string
	SubLevel string
	Values   []string
}

// Record returns the row as TopLevel, SubLevel, Values...
func (r Row) Record() []string {
	out := make([]string, 0, len(r.Values)+2)
	out = append(out, r.TopLevel, r.SubLevel)
	return append(out, r.Values...)
}

// Match is the best taxonomy entry found for a label.
type Match struct {
	Entry string
	Score int
}

// CleanLabel strips a leading outline number such as "1." or "2.1" and
// collapses internal whitespace.
func CleanLabel(label string) string {
	return tables.CollapseSpace(outlinePrefix.ReplaceAllString(label, ""))
}

// Classifier matches labels against a Taxonomy. It is immutable and safe for
// concurrent use.
type Classifier struct {
	taxonomy Taxonomy
}

// New returns a Classifier over taxonomy.
func New(taxonomy Taxonomy) *Classifier {
	return &Classifier{taxonomy: taxonomy}
}

// Match returns the best-scoring taxonomy entry for label and whether it
// reaches the threshold. Ties go to the earlier entry.
func (c *Classifier) Match(label string) (Match, bool) {
	cleaned := CleanLabel(label)
	if cleaned == "" {
		return Match{}, false
	}
	var best Match
	for _, entry := range c.taxonomy.entries {
		if score := textutil.Similarity(cleaned, entry); score > best.Score {
			best = Match{Entry: entry, Score: score}
		}
	}
	if best.Entry == "" || best.Score < c.taxonomy.threshold {
		return best, false
	}
	return best, true
}

// Header returns the column names of classified rows for a table header.
func Header(tableHeader []string) []string {
	out := []string{TopLevelColumn, SubLevelColumn}
	if len(tableHeader) > 1 {
		out = append(out, tableHeader[1:]...)
	}
	return out
}

// Classify labels every row of table from its first column. A row that
// matches no entry carries the previous row's top level forward; rows before
// the first match have an empty top level. SubLevel is empty when the label
// itself is the matched category name, otherwise it is the original label.
func (c *Classifier) Classify(table tables.Table) []Row {
	rows := make([]Row, 0, len(table.Rows))
	carried := ""
	for _, cells := range table.Rows {
		var label string
		var values []string
		if len(cells) > 0 {
			label = cells[0]
			values = slices.Clone(cells[1:])
		}

		row := Row{TopLevel: carried, SubLevel: label, Values: values}
		if m, ok := c.Match(label); ok {
			row.TopLevel = m.Entry
			carried = m.Entry
			if strings.EqualFold(tables.CollapseSpace(label), m.Entry) {
				row.SubLevel = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
