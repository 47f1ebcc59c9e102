// Package export flattens classified criterion tables into spreadsheet
// form.
//
// Every completed document contributes its classified rows to a single
// Criteria sheet. Column names are canonicalized first (rating columns
// become "Rating", near matches of "SummaryAssessment" and "Criterion" take
// those names) so tables whose headers differ only cosmetically line up.
// The sheet's columns are TopLevel, SubLevel, the sorted union of the
// canonical columns, then FileName; cells a document does not have stay
// empty. A Stats sheet carries one row of processing metadata per document.
//
// Reports are written as CSV (Criteria only) or as an XLSX workbook with
// both sheets.
package export
