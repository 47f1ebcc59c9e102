package config

import (
	"errors"
	"fmt"

	"critable/internal/classify"
	"critable/internal/reconcile"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if len(c.Filter.MarkerTerms) == 0 {
		return errors.New("filter.marker_terms must include at least one term")
	}
	if _, err := c.ReconcilePolicy(); err != nil {
		return err
	}
	if _, err := c.Taxonomy(); err != nil {
		return err
	}
	if c.Workflow.Workers < 1 {
		return errors.New("workflow.workers must be at least 1")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ReconcilePolicy builds the column reconciliation policy from the
// [reconcile] section.
func (c *Config) ReconcilePolicy() (reconcile.Policy, error) {
	policy, err := reconcile.NewPolicy(c.Reconcile.PlaceholderPattern, c.Reconcile.MergePreference)
	if err != nil {
		return reconcile.Policy{}, fmt.Errorf("reconcile: %w", err)
	}
	return policy, nil
}

// Taxonomy builds the classifier taxonomy from the [classifier] section.
func (c *Config) Taxonomy() (classify.Taxonomy, error) {
	taxonomy, err := classify.NewTaxonomy(c.Classifier.Taxonomy, c.Classifier.Threshold)
	if err != nil {
		return classify.Taxonomy{}, fmt.Errorf("classifier: %w", err)
	}
	return taxonomy, nil
}
