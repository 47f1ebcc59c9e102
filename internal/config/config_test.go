package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"critable/internal/config"
	"critable/internal/reconcile"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CRITABLE_DATA_DIR", "")
	t.Setenv("CRITABLE_LOG_LEVEL", "")
	return home
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(home, ".config", "critable", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(home, ".local", "share", "critable"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if want := filepath.Join(home, ".local", "share", "critable", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "critable.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if !slices.Equal(cfg.Filter.MarkerTerms, []string{"criterion"}) {
		t.Fatalf("unexpected marker terms: %v", cfg.Filter.MarkerTerms)
	}
	if cfg.Reconcile.MergePreference != "right" {
		t.Fatalf("unexpected merge preference: %q", cfg.Reconcile.MergePreference)
	}
	if len(cfg.Classifier.Taxonomy) != 10 || cfg.Classifier.Threshold != 80 {
		t.Fatalf("unexpected classifier defaults: %+v", cfg.Classifier)
	}
	if cfg.Workflow.Workers != 4 || cfg.Workflow.WatchSettleMS != 500 {
		t.Fatalf("unexpected workflow defaults: %+v", cfg.Workflow)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "critable.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Filter struct {
			MarkerTerms []string `toml:"marker_terms"`
		} `toml:"filter"`
		Reconcile struct {
			MergePreference string `toml:"merge_preference"`
		} `toml:"reconcile"`
		Classifier struct {
			Taxonomy  []string `toml:"taxonomy"`
			Threshold int      `toml:"threshold"`
		} `toml:"classifier"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Filter.MarkerTerms = []string{" Criterion ", "criterion", "Evaluation Criteria", ""}
	custom.Reconcile.MergePreference = " LEFT "
	custom.Classifier.Taxonomy = []string{"Relevance", " Efficiency "}
	custom.Classifier.Threshold = 70
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if !slices.Equal(cfg.Filter.MarkerTerms, []string{"criterion", "evaluation criteria"}) {
		t.Fatalf("unexpected marker terms: %v", cfg.Filter.MarkerTerms)
	}
	if cfg.Reconcile.MergePreference != "left" {
		t.Fatalf("unexpected merge preference: %q", cfg.Reconcile.MergePreference)
	}
	if !slices.Equal(cfg.Classifier.Taxonomy, []string{"Relevance", "Efficiency"}) {
		t.Fatalf("unexpected taxonomy: %v", cfg.Classifier.Taxonomy)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}

	policy, err := cfg.ReconcilePolicy()
	if err != nil {
		t.Fatalf("ReconcilePolicy: %v", err)
	}
	if !slices.Equal(policy.Preference, []reconcile.Direction{reconcile.Left, reconcile.Right}) {
		t.Fatalf("unexpected preference order: %v", policy.Preference)
	}
	taxonomy, err := cfg.Taxonomy()
	if err != nil {
		t.Fatalf("Taxonomy: %v", err)
	}
	if taxonomy.Threshold() != 70 {
		t.Fatalf("unexpected threshold: %d", taxonomy.Threshold())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "critable.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	isolateEnv(t)
	dataDir := filepath.Join(t.TempDir(), "env-data")
	t.Setenv("CRITABLE_DATA_DIR", dataDir)
	t.Setenv("CRITABLE_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestExplicitDataDirWinsOverEnvironment(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	t.Setenv("CRITABLE_DATA_DIR", filepath.Join(tempDir, "env"))
	configPath := filepath.Join(tempDir, "critable.toml")
	body := "[paths]\ndata_dir = \"" + filepath.Join(tempDir, "file") + "\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "file") {
		t.Fatalf("expected data dir from file, got %q", cfg.Paths.DataDir)
	}
}

func TestCreateSample(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "marker_terms") {
		t.Fatalf("sample config missing marker terms: %s", contents)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	defaults := config.Default()
	if !slices.Equal(cfg.Classifier.Taxonomy, defaults.Classifier.Taxonomy) {
		t.Fatalf("sample taxonomy %v differs from defaults", cfg.Classifier.Taxonomy)
	}
	if cfg.Reconcile.PlaceholderPattern != defaults.Reconcile.PlaceholderPattern {
		t.Fatalf("sample placeholder %q differs from default", cfg.Reconcile.PlaceholderPattern)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "[classifier]") {
		t.Fatalf("encoded config missing classifier section:\n%s", data)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no marker terms", func(c *config.Config) { c.Filter.MarkerTerms = nil }},
		{"bad placeholder", func(c *config.Config) { c.Reconcile.PlaceholderPattern = "(" }},
		{"bad preference", func(c *config.Config) { c.Reconcile.MergePreference = "up" }},
		{"empty taxonomy", func(c *config.Config) { c.Classifier.Taxonomy = nil }},
		{"duplicate taxonomy", func(c *config.Config) {
			c.Classifier.Taxonomy = []string{"Efficiency", "EFFICIENCY"}
		}},
		{"threshold above range", func(c *config.Config) { c.Classifier.Threshold = 101 }},
		{"threshold below range", func(c *config.Config) { c.Classifier.Threshold = -5 }},
		{"no workers", func(c *config.Config) { c.Workflow.Workers = 0 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
