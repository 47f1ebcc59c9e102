// Package logging assembles structured slog loggers and formatting helpers used
// across critable.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so pipeline and workflow code can tag
// log lines with the batch run ID and document name. A no-op logger is
// provided for tests and library callers.
package logging
