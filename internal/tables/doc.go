// Package tables defines the table values that flow through the criterion
// pipeline.
//
// A Candidate is one table fragment reported by the page-level detector. Its
// header may contain placeholder or empty names that mark auxiliary columns,
// and its cells keep whatever shape the detector emitted (strings, numbers,
// nulls, nested arrays). Text converts such a value into the single string
// form every later stage compares on.
//
// A Table is the rectangular, string-only form produced by reconciliation and
// assembly. Values are never shared between stages: Clone returns deep copies
// so each stage owns its output.
package tables
