// Package daemon wires the session together: it owns the capture
// controller, the in-memory report store, the analysis client, and the
// identity provider, and exposes the operations the IPC layer serves. A
// file lock keeps the daemon single-instance per machine.
package daemon
