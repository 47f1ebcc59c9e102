package testsupport

import (
	"path/filepath"
	"testing"

	"critable/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.InboxDir = filepath.Join(base, "inbox")
	cfgVal.Paths.ExportDir = filepath.Join(base, "export")
	cfgVal.Workflow.WatchSettleMS = 20

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers sets the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Workers = n
	}
}

// WithThreshold sets the classifier similarity threshold.
func WithThreshold(threshold int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.Threshold = threshold
	}
}

// WithMergePreference sets the auxiliary column merge preference.
func WithMergePreference(preference string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reconcile.MergePreference = preference
	}
}

// WithConfigure runs fn against the config after defaults are applied.
func WithConfigure(fn func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		fn(b.cfg)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
