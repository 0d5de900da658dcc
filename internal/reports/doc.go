// Package reports defines the report lifecycle model and the session store
// that tracks submissions.
//
// A report is created pending when a submission starts, moves to completed
// when the analysis service accepts the upload, and falls back to reviewing
// when anything along the way fails. The store keeps reports in an in-memory
// SQLite database scoped to the daemon process, so the list resets with every
// session and never touches disk.
package reports
