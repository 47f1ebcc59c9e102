package classify

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultThreshold is the minimum similarity score (0-100) for a label to
// match a taxonomy entry.
const DefaultThreshold = 80

// DefaultEntries is the evaluation-criterion taxonomy used when none is
// configured.
var DefaultEntries = []string{
	"Strategic Relevance",
	"Quality of Project Design",
	"Nature of External Context",
	"Effectiveness",
	"Financial Management",
	"Efficiency",
	"Monitoring and Reporting",
	"Sustainability",
	"Factors Affecting Performance",
	"Overall Project Performance Rating",
}

// Taxonomy is the ordered set of top-level categories and the score a label
// must reach to match one. Entries earlier in the list win ties.
type Taxonomy struct {
	entries   []string
	threshold int
}

// NewTaxonomy validates and copies entries.
func NewTaxonomy(entries []string, threshold int) (Taxonomy, error) {
	if len(entries) == 0 {
		return Taxonomy{}, errors.New("taxonomy: no entries")
	}
	if threshold < 0 || threshold > 100 {
		return Taxonomy{}, fmt.Errorf("taxonomy: threshold %d outside 0-100", threshold)
	}
	seen := make(map[string]struct{}, len(entries))
	cleaned := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return Taxonomy{}, errors.New("taxonomy: empty entry")
		}
		key := strings.ToLower(entry)
		if _, ok := seen[key]; ok {
			return Taxonomy{}, fmt.Errorf("taxonomy: duplicate entry %q", entry)
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, entry)
	}
	return Taxonomy{entries: cleaned, threshold: threshold}, nil
}

// DefaultTaxonomy returns DefaultEntries at DefaultThreshold.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{entries: slices.Clone(DefaultEntries), threshold: DefaultThreshold}
}

// Entries returns a copy of the categories.
func (t Taxonomy) Entries() []string {
	return slices.Clone(t.entries)
}

// Threshold returns the minimum accepted score.
func (t Taxonomy) Threshold() int {
	return t.threshold
}
