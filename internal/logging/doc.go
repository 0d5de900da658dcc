// Package logging assembles structured slog loggers and formatting helpers
// used across Fixify services.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so components tag log lines with the
// same keys everywhere. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
