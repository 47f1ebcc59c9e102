// Package ingest reads page-table detector output into pipeline candidates.
//
// Detector files are JSON, one per document, validated against an embedded
// JSON Schema before decoding. Cell values keep their detector types (numbers
// stay json.Number) until the reconciler stringifies them. When a table's
// header row is part of its cell grid, that row is dropped from the
// candidate's rows.
//
// The source PDF's page count is read with pdfcpu when the file records a
// reachable source path and no explicit count.
package ingest
