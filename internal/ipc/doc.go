// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management, request/response DTOs, and conversions
// between session models and lightweight wire representations. The server
// embeds the daemon; the client gives each CLI command a typed method per
// RPC endpoint.
package ipc
