package ingest

import (
	"regexp"
	"strings"
)

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	fullMonthPattern  = regexp.MustCompile(`\b(` + strings.Join(months, "|") + `),?\s+(\d{4})\b`)
	abbrMonthPattern  = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?,?\s+(\d{4})\b`)
	abbreviatedMonths = func() map[string]string {
		m := make(map[string]string, len(months)+1)
		for _, name := range months {
			m[name[:3]] = name
		}
		m["Sept"] = "September"
		return m
	}()
)

// PublishMonth finds the first "Month YYYY" or "Month, YYYY" in text and
// returns it as "Month YYYY". Abbreviated names such as "Dec. 2024" are
// tried only when no full name is present and are expanded. It returns ""
// when nothing matches.
func PublishMonth(text string) string {
	if m := fullMonthPattern.FindStringSubmatch(text); m != nil {
		return m[1] + " " + m[2]
	}
	if m := abbrMonthPattern.FindStringSubmatch(text); m != nil {
		return abbreviatedMonths[m[1]] + " " + m[2]
	}
	return ""
}
