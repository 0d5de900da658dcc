// Package services defines shared utilities consumed by the capture,
// analysis, and daemon components.
//
// Key responsibilities:
//   - Context helpers that stamp report IDs, operation names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (permission, validation, timeout, network, service) and translate them
//     into report statuses and user-facing messages.
//
// Use these helpers when wiring new daemon logic so operational behaviour
// stays uniform across components.
package services
