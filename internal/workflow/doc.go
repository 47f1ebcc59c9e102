// Package workflow processes batches of detector output files.
//
// The Manager ingests each file, records the document and its candidates in
// the store, runs the table pipeline, and persists the classified result or
// the failure. Documents are independent, so a batch fans out over a bounded
// worker pool; one failing document never stops the others. Only context
// cancellation ends a batch early, leaving unfinished documents pending.
//
// A file lock under the data directory keeps a second critable process from
// writing to the same database concurrently. Watch holds that lock for its
// whole lifetime and processes detector files as they settle in the inbox
// directory.
package workflow
