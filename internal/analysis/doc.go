// Package analysis implements the HTTP client for the remote video analysis
// service.
//
// The client uploads recorded videos as multipart form data, bounds every
// request with a deadline, and classifies failures with the shared error
// markers so the daemon can map them onto report statuses. It also exposes
// the connectivity probes used by status commands.
package analysis
