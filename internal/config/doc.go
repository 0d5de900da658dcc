// Package config loads, normalizes, and validates Fixify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FIXIFY_ANALYSIS_URL. The Config type centralizes every knob the daemon and
// CLI need: spool/log directories, the analysis service endpoint, and camera
// capture preferences.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical capture parameters, and clear validation errors.
package config
