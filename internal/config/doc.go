// Package config loads, normalizes, and validates critable configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as CRITABLE_DATA_DIR.
// The Config type centralizes every knob the pipeline, store, and CLI need so
// filter markers, reconcile policy, and the classifier taxonomy are resolved
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
