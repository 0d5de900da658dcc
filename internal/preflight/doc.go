// Package preflight runs startup checks: directory access and free space,
// analysis service reachability, and external tool availability.
package preflight
