package preflight

import (
	"context"

	"critable/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.InboxDir != "" {
		results = append(results, CheckOptionalDirectory("Inbox directory", cfg.Paths.InboxDir))
	}
	if cfg.Paths.ExportDir != "" {
		results = append(results, CheckOptionalDirectory("Export directory", cfg.Paths.ExportDir))
	}
	results = append(results,
		CheckDatabase(ctx, cfg.DatabasePath()),
		CheckLock(cfg.LockPath()),
	)
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
