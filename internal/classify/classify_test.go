package classify_test

import (
	"slices"
	"testing"

	"critable/internal/classify"
	"critable/internal/tables"
)

func table(labels ...string) tables.Table {
	t := tables.Table{Header: []string{"Criterion", "Rating"}}
	for i, label := range labels {
		t.Rows = append(t.Rows, []string{label, string(rune('A' + i))})
	}
	return t
}

func TestClassifyTwoLevelHierarchy(t *testing.T) {
	c := classify.New(classify.DefaultTaxonomy())
	in := table(
		"Strategic Relevance",
		"1. Alignment to UNEP MTS, POW and strategic priorities",
		"2. Alignment to Donor/GEF/Partner strategic priorities",
		"Effectiveness",
		"1. Availability of outputs",
		"3. Likelihood of impact",
		"Sustainability",
		"2. Financial sustainability",
		"Factors Affecting Performance",
		"2.1 UNEP/Implementing Agency:",
		"Overall Project Performance Rating",
	)

	want := []struct{ top, sub string }{
		{"Strategic Relevance", ""},
		{"Strategic Relevance", "1. Alignment to UNEP MTS, POW and strategic priorities"},
		{"Strategic Relevance", "2. Alignment to Donor/GEF/Partner strategic priorities"},
		{"Effectiveness", ""},
		{"Effectiveness", "1. Availability of outputs"},
		{"Effectiveness", "3. Likelihood of impact"},
		{"Sustainability", ""},
		{"Sustainability", "2. Financial sustainability"},
		{"Factors Affecting Performance", ""},
		{"Factors Affecting Performance", "2.1 UNEP/Implementing Agency:"},
		{"Overall Project Performance Rating", ""},
	}

	got := c.Classify(in)
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].TopLevel != w.top || got[i].SubLevel != w.sub {
			t.Fatalf("row %d = (%q, %q), want (%q, %q)", i, got[i].TopLevel, got[i].SubLevel, w.top, w.sub)
		}
		if !slices.Equal(got[i].Values, in.Rows[i][1:]) {
			t.Fatalf("row %d values = %q, want %q", i, got[i].Values, in.Rows[i][1:])
		}
	}
}

func TestClassifyForwardFillConsistency(t *testing.T) {
	c := classify.New(classify.DefaultTaxonomy())
	in := table(
		"Preamble without a category",
		"Efficiency",
		"Timeliness",
		"",
		"Monitoring and Reporting",
		"1. Monitoring design and budgeting",
		"3. Project reporting",
	)

	got := c.Classify(in)
	if got[0].TopLevel != "" {
		t.Fatalf("leading unmatched row should have empty top level, got %q", got[0].TopLevel)
	}
	for i := 1; i < len(got); i++ {
		if _, ok := c.Match(in.Rows[i][0]); ok {
			continue
		}
		if got[i].TopLevel != got[i-1].TopLevel {
			t.Fatalf("row %d top level %q, want carried %q", i, got[i].TopLevel, got[i-1].TopLevel)
		}
	}
	if got[3].TopLevel != "Efficiency" || got[3].SubLevel != "" {
		t.Fatalf("blank label row = %+v", got[3])
	}
	if got[6].TopLevel != "Monitoring and Reporting" {
		t.Fatalf("reporting row = %+v", got[6])
	}
}

func TestClassifySubLevelKeepsNumberedCategoryLabel(t *testing.T) {
	c := classify.New(classify.DefaultTaxonomy())
	got := c.Classify(table("strategic  relevance", "1. Efficiency"))
	if got[0].TopLevel != "Strategic Relevance" || got[0].SubLevel != "" {
		t.Fatalf("case-insensitive category label row = %+v", got[0])
	}
	if got[1].TopLevel != "Efficiency" || got[1].SubLevel != "1. Efficiency" {
		t.Fatalf("numbered category label row = %+v", got[1])
	}
}

func TestMatchThreshold(t *testing.T) {
	label := "2. Quality of project management and supervision"

	m, ok := classify.New(classify.DefaultTaxonomy()).Match(label)
	if !ok || m.Entry != "Quality of Project Design" || m.Score != 80 {
		t.Fatalf("Match at default threshold = %+v, %v", m, ok)
	}

	strict, err := classify.NewTaxonomy(classify.DefaultEntries, 90)
	if err != nil {
		t.Fatalf("NewTaxonomy: %v", err)
	}
	if m, ok := classify.New(strict).Match(label); ok {
		t.Fatalf("expected no match at threshold 90, got %+v", m)
	}
}

func TestMatchAcceptsInsertedWords(t *testing.T) {
	c := classify.New(classify.DefaultTaxonomy())

	m, ok := c.Match("Factors affecting project performance")
	if !ok || m.Entry != "Factors Affecting Performance" || m.Score != 88 {
		t.Fatalf("Match = %+v, %v", m, ok)
	}

	m, ok = c.Match("Overall project rating")
	if ok || m.Entry != "Overall Project Performance Rating" || m.Score != 79 {
		t.Fatalf("Match below threshold = %+v, %v", m, ok)
	}

	got := c.Classify(table("Effectiveness", "Factors affecting project performance", "2.1 Preparation and readiness"))
	if got[1].TopLevel != "Factors Affecting Performance" || got[2].TopLevel != "Factors Affecting Performance" {
		t.Fatalf("rows after reworded category = %+v", got)
	}
}

func TestMatchTiesPreferEarlierEntry(t *testing.T) {
	tax, err := classify.NewTaxonomy([]string{"Rating", "rating scale"}, 80)
	if err != nil {
		t.Fatalf("NewTaxonomy: %v", err)
	}
	m, ok := classify.New(tax).Match("Rating")
	if !ok || m.Entry != "Rating" {
		t.Fatalf("Match = %+v, %v", m, ok)
	}
}

func TestCleanLabel(t *testing.T) {
	tests := map[string]string{
		"1. Alignment to priorities": "Alignment to priorities",
		"2.1 UNEP/Implementing":      "UNEP/Implementing",
		"3) Project   reporting":     "Project reporting",
		"10.2.3. Deep\nnesting":      "Deep nesting",
		"Sustainability":             "Sustainability",
		"2020 targets were not met":  "targets were not met",
		"":                           "",
	}
	for in, want := range tests {
		if got := classify.CleanLabel(in); got != want {
			t.Fatalf("CleanLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewTaxonomyValidation(t *testing.T) {
	cases := []struct {
		name      string
		entries   []string
		threshold int
	}{
		{"empty", nil, 80},
		{"blank entry", []string{"Efficiency", " "}, 80},
		{"duplicate", []string{"Efficiency", "efficiency"}, 80},
		{"threshold high", []string{"Efficiency"}, 101},
		{"threshold low", []string{"Efficiency"}, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := classify.NewTaxonomy(tc.entries, tc.threshold); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHeaderAndRecord(t *testing.T) {
	h := classify.Header([]string{"Criterion", "Summary", "Rating"})
	if !slices.Equal(h, []string{"TopLevel", "SubLevel", "Summary", "Rating"}) {
		t.Fatalf("Header = %v", h)
	}
	r := classify.Row{TopLevel: "Efficiency", SubLevel: "x", Values: []string{"s", "HS"}}
	if !slices.Equal(r.Record(), []string{"Efficiency", "x", "s", "HS"}) {
		t.Fatalf("Record = %v", r.Record())
	}
}
