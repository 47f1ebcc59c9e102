package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"critable/internal/ingest"
)

// Names converts header names to detector header entries. An empty name
// becomes a null entry.
func Names(names ...string) []*string {
	out := make([]*string, len(names))
	for i, name := range names {
		if name != "" {
			name := name
			out[i] = &name
		}
	}
	return out
}

// Table builds a detector table whose header is supplied externally, so every
// row in rows is data.
func Table(header []string, rows ...[]any) ingest.RawTable {
	return ingest.RawTable{
		Header:         Names(header...),
		HeaderExternal: true,
		Cells:          rows,
	}
}

// CriterionFile returns detector output for a document whose criterion
// table spans pages 5 and 6, preceded by an unrelated table on page 2.
func CriterionFile(name string) ingest.File {
	header := []string{"Criterion", "Summary assessment", "Rating"}
	return ingest.File{
		Document:      name,
		FirstPageText: "Terminal Evaluation\nNovember 2023",
		Pages: []ingest.Page{
			{Page: 2, Tables: []ingest.RawTable{
				Table([]string{"Component", "Budget"}, []any{"Outreach", 12000}),
			}},
			{Page: 5, Tables: []ingest.RawTable{
				Table(header,
					[]any{"Strategic Relevance", "Aligned with the programme", "HS"},
					[]any{"Effectiveness", "Most outputs delivered", "S"},
				),
			}},
			{Page: 6, Tables: []ingest.RawTable{
				Table(header,
					[]any{"Sustainability", "Depends on follow-up funding", "ML"},
				),
			}},
		},
	}
}

// WriteDetectorFile writes file as detector JSON under dir and returns the
// path.
func WriteDetectorFile(t testing.TB, dir, fileName string, file ingest.File) string {
	t.Helper()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", fileName, err)
	}
	return WriteFile(t, filepath.Join(dir, fileName), data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
