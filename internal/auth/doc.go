// Package auth defines the identity provider contract and a stub
// implementation that accepts any well-formed credentials after a fixed
// delay. Sessions live in memory and end with the daemon.
package auth
