package ingest

// File is the detector's JSON output for one document.
type File struct {
	Document      string `json:"document"`
	SourcePath    string `json:"source_path,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`
	FirstPageText string `json:"first_page_text,omitempty"`
	Pages         []Page `json:"pages"`
}

// Page lists the tables detected on one page.
type Page struct {
	Page   int        `json:"page"`
	Tables []RawTable `json:"tables,omitempty"`
}

// RawTable is one detected table. Cells is the full grid; unless
// HeaderExternal is set its first row is the header row.
type RawTable struct {
	Header         []*string `json:"header"`
	HeaderExternal bool      `json:"header_external,omitempty"`
	BBox           []float64 `json:"bbox,omitempty"`
	Cells          [][]any   `json:"cells,omitempty"`
}

// HeaderNames returns the header with null names as empty strings.
func (t RawTable) HeaderNames() []string {
	out := make([]string, len(t.Header))
	for i, name := range t.Header {
		if name != nil {
			out[i] = *name
		}
	}
	return out
}
