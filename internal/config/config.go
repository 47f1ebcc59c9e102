package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	InboxDir  string `toml:"inbox_dir"`
	ExportDir string `toml:"export_dir"`
}

// Filter controls which table candidates are kept.
type Filter struct {
	MarkerTerms []string `toml:"marker_terms"`
}

// Reconcile controls auxiliary column detection and merging.
type Reconcile struct {
	PlaceholderPattern string `toml:"placeholder_pattern"`
	// MergePreference is the neighbour tried first: "right" or "left".
	MergePreference string `toml:"merge_preference"`
}

// Classifier contains the criterion taxonomy and match threshold.
type Classifier struct {
	Taxonomy  []string `toml:"taxonomy"`
	Threshold int      `toml:"threshold"`
}

// Workflow contains batch and watch settings.
type Workflow struct {
	Workers       int `toml:"workers"`
	WatchSettleMS int `toml:"watch_settle_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for critable.
//
// Configuration sections by subsystem:
//   - Paths: database, log, inbox, and export directories
//   - Filter: marker terms that identify criterion tables
//   - Reconcile: placeholder header pattern and merge preference
//   - Classifier: top-level taxonomy and similarity threshold
//   - Workflow: worker count and inbox settle delay
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Filter     Filter     `toml:"filter"`
	Reconcile  Reconcile  `toml:"reconcile"`
	Classifier Classifier `toml:"classifier"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
}

const (
	defaultConfigPath = "~/.config/critable/config.toml"
	projectConfigName = "critable.toml"
	databaseFileName  = "critable.db"
	lockFileName      = "critable.lock"
	logFileName       = "critable.log"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath returns the explicit path when given. Otherwise it
// returns the first existing candidate of the user config and the
// working-directory critable.toml, or the user config path when neither
// exists.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := regularFileExists(expanded)
		if err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, exists, nil
	}

	userPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := regularFileExists(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the data and log directories. The inbox and
// export directories are created on demand by the commands that use them.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, databaseFileName)
}

// LockPath returns the single-instance lock file location inside DataDir.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, lockFileName)
}

// LogPath returns the log file location inside LogDir.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, logFileName)
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// ExpandPath resolves a leading "~" to the home directory and returns the
// cleaned absolute path. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
