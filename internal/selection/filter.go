package selection

import (
	"strings"

	"critable/internal/tables"
)

// DefaultMarkerTerms are the header names that identify a criterion table.
var DefaultMarkerTerms = []string{"criterion"}

// Filter returns the candidates whose normalized header contains at least one
// of the marker terms. Input order is preserved.
func Filter(candidates []tables.Candidate, markers []string) []tables.Candidate {
	wanted := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			wanted[m] = struct{}{}
		}
	}
	var kept []tables.Candidate
	for _, c := range candidates {
		if hasMarker(c, wanted) {
			kept = append(kept, c)
		}
	}
	return kept
}

func hasMarker(c tables.Candidate, wanted map[string]struct{}) bool {
	for _, key := range c.HeaderKey() {
		if _, ok := wanted[key]; ok {
			return true
		}
	}
	return false
}
