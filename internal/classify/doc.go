// Package classify turns the leading label column of an assembled criterion
// table into a two-level (top level, sub level) classification.
//
// Each label is cleaned of outline numbering ("1.", "2.1") and matched
// against a fixed, caller-supplied taxonomy of top-level categories using the
// best of a whole-string and a partial similarity score. Labels that match
// nothing inherit the previous row's top level, so sub-criteria listed under a
// category heading are filed beneath it.
package classify
