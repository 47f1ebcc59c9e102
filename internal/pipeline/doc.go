// Package pipeline turns one document's table candidates into a single
// classified criterion table.
//
// Stages run strictly in order: filter candidates by marker header terms,
// select the longest run of consecutive pages, reconcile each page's
// auxiliary columns, assemble the run, and classify row labels against the
// taxonomy. A Pipeline holds only immutable settings, so one instance can
// serve many documents concurrently.
//
// Failures are tagged with the markers in errors.go so callers can map them
// to a review or failed status without inspecting messages.
package pipeline
