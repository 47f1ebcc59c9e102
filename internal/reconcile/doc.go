// Package reconcile removes the auxiliary columns a page-level table detector
// introduces when it splits one semantic column into several.
//
// A column is auxiliary when its header name is empty or matches the
// placeholder pattern (for example "Col3"). Blank auxiliary columns are
// dropped. Auxiliary columns with content are merged into a neighbouring real
// column, but only in a direction where no row holds two different non-blank
// values; when both directions conflict the reconciler returns a
// *MergeAmbiguityError instead of guessing.
//
// The direction tried first between two usable real neighbours is a Policy
// setting. The default prefers the right neighbour, matching layouts where
// the split-off column trails the column it belongs to.
package reconcile
