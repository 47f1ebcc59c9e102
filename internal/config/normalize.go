package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFilter()
	c.normalizeReconcile()
	c.normalizeClassifier()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" || c.Paths.DataDir == defaultDataDir {
		if value, ok := os.LookupEnv("CRITABLE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.DataDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		c.Paths.InboxDir = defaultInboxDir
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}

	var err error
	if c.Paths.DataDir, err = ExpandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.InboxDir, err = ExpandPath(strings.TrimSpace(c.Paths.InboxDir)); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	if c.Paths.ExportDir, err = ExpandPath(strings.TrimSpace(c.Paths.ExportDir)); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFilter() {
	terms := make([]string, 0, len(c.Filter.MarkerTerms))
	seen := make(map[string]struct{}, len(c.Filter.MarkerTerms))
	for _, term := range c.Filter.MarkerTerms {
		normalized := strings.ToLower(strings.TrimSpace(term))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		terms = append(terms, normalized)
	}
	c.Filter.MarkerTerms = terms
}

func (c *Config) normalizeReconcile() {
	c.Reconcile.PlaceholderPattern = strings.TrimSpace(c.Reconcile.PlaceholderPattern)
	c.Reconcile.MergePreference = strings.ToLower(strings.TrimSpace(c.Reconcile.MergePreference))
	if c.Reconcile.MergePreference == "" {
		c.Reconcile.MergePreference = defaultMergePreference
	}
}

func (c *Config) normalizeClassifier() {
	entries := make([]string, 0, len(c.Classifier.Taxonomy))
	for _, entry := range c.Classifier.Taxonomy {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}
	c.Classifier.Taxonomy = entries
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.WatchSettleMS < 0 {
		c.Workflow.WatchSettleMS = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if value, ok := os.LookupEnv("CRITABLE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
