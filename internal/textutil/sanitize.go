package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes a document name usable as an export file name.
// Path separators, colons, and asterisks become dashes; quotes, wildcards,
// redirections, and control characters are dropped; whitespace runs collapse
// to one space.
func SanitizeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return strings.Join(strings.Fields(mapped), " ")
}
