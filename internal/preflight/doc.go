// Package preflight provides readiness checks for the filesystem paths and
// database critable depends on.
//
// The CLI "critable check" command runs RunAll and prints each Result.
// Directory checks use access(2) so permission problems surface before a
// batch starts writing; the database check opens the store and confirms the
// schema version without creating a database that does not exist yet.
package preflight
