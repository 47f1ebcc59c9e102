package textutil

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio scores how similar a and b are as whole strings, from 0 (nothing in
// common or either string empty) to 100 (identical). The score is
// 2*M/(len(a)+len(b)) where M counts the characters in matching blocks,
// rounded half to even.
func Ratio(a, b string) int {
	ra, rb := runes(a), runes(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return score(difflib.NewMatcher(ra, rb).Ratio())
}

// PartialRatio scores the shorter string against windows of the longer one
// and returns the best score. Windows are anchored where each matching block
// between the two strings would place the shorter string.
func PartialRatio(a, b string) int {
	short, long := runes(a), runes(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0.0
	for _, block := range difflib.NewMatcher(short, long).GetMatchingBlocks() {
		start := max(block.B-block.A, 0)
		end := min(start+len(short), len(long))
		r := difflib.NewMatcher(short, long[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		best = max(best, r)
	}
	return score(best)
}

// Similarity returns the larger of Ratio and PartialRatio for the normalized
// forms of a and b.
func Similarity(a, b string) int {
	a, b = Normalize(a), Normalize(b)
	return max(Ratio(a, b), PartialRatio(a, b))
}

func score(ratio float64) int {
	return int(math.RoundToEven(100 * ratio))
}

// runes splits s into one-character elements for the matcher.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
