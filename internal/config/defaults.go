package config

import (
	"slices"

	"critable/internal/classify"
	"critable/internal/reconcile"
	"critable/internal/selection"
)

const (
	defaultDataDir         = "~/.local/share/critable"
	defaultLogDir          = "~/.local/share/critable/logs"
	defaultInboxDir        = "~/.local/share/critable/inbox"
	defaultExportDir       = "~/critable"
	defaultMergePreference = "right"
	defaultWorkers         = 4
	defaultWatchSettleMS   = 500
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			InboxDir:  defaultInboxDir,
			ExportDir: defaultExportDir,
		},
		Filter: Filter{
			MarkerTerms: slices.Clone(selection.DefaultMarkerTerms),
		},
		Reconcile: Reconcile{
			PlaceholderPattern: reconcile.DefaultPlaceholderPattern,
			MergePreference:    defaultMergePreference,
		},
		Classifier: Classifier{
			Taxonomy:  slices.Clone(classify.DefaultEntries),
			Threshold: classify.DefaultThreshold,
		},
		Workflow: Workflow{
			Workers:       defaultWorkers,
			WatchSettleMS: defaultWatchSettleMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
