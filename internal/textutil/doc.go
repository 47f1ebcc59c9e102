// Package textutil provides text normalization and fuzzy string similarity.
//
// The primary use cases are:
//   - Normalizing labels (NFKC, case folding, whitespace collapsing) before comparison
//   - Scoring whole-string and best-substring similarity on a 0-100 scale
//   - Sanitizing export filenames for safe filesystem use
//
// Similarity is based on matching blocks, the same measure as Python's
// difflib.SequenceMatcher: Ratio compares two strings end to end, while
// PartialRatio compares the shorter string with the window of the longer one
// each matching block points at, so a short category name still scores highly
// against a longer label that contains it.
package textutil
