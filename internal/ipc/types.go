package ipc

import (
	"time"

	"fixify/internal/capture"
	"fixify/internal/deps"
	"fixify/internal/reports"
)

// Report is the wire representation of a session report.
type Report struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	SubmittedAt  string  `json:"submitted_at"`
	VideoSizeMB  float64 `json:"video_size_mb"`
	Analysis     string  `json:"analysis"`
	AnalysisDate string  `json:"analysis_date"`
	StatusDetail string  `json:"status_detail"`
}

// FromReport converts a store report into its wire form.
func FromReport(report *reports.Report) Report {
	if report == nil {
		return Report{}
	}
	return Report{
		ID:           report.ID,
		Description:  report.Description,
		Status:       string(report.Status),
		SubmittedAt:  report.SubmittedAt.Format(time.RFC3339),
		VideoSizeMB:  report.VideoSizeMB,
		Analysis:     report.Analysis,
		AnalysisDate: report.AnalysisDate,
		StatusDetail: report.StatusDetail,
	}
}

// CaptureSnapshot is the wire representation of the capture controller state.
type CaptureSnapshot struct {
	State       string  `json:"state"`
	Device      string  `json:"device"`
	DeviceName  string  `json:"device_name"`
	ClipPath    string  `json:"clip_path"`
	ClipSizeMB  float64 `json:"clip_size_mb"`
	ContentType string  `json:"content_type"`
}

// FromSnapshot converts a controller snapshot into its wire form.
func FromSnapshot(snapshot capture.Snapshot) CaptureSnapshot {
	return CaptureSnapshot{
		State:       string(snapshot.State),
		Device:      snapshot.Device,
		DeviceName:  snapshot.DeviceName,
		ClipPath:    snapshot.ClipPath,
		ClipSizeMB:  snapshot.ClipSizeMB,
		ContentType: snapshot.ContentType,
	}
}

// DependencyStatus describes availability of an external tool.
type DependencyStatus = deps.Status

// SignInRequest authenticates a user.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse reports the created session.
type SignInResponse struct {
	Email    string `json:"email"`
	SignedIn string `json:"signed_in"`
}

// SignOutRequest ends the current session.
type SignOutRequest struct{}

// SignOutResponse indicates sign-out completed.
type SignOutResponse struct {
	SignedOut bool `json:"signed_out"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon status information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	LockPath     string             `json:"lock_path"`
	SessionEmail string             `json:"session_email"`
	Capture      CaptureSnapshot    `json:"capture"`
	ReportStats  map[string]int     `json:"report_stats"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// CaptureRequest drives a capture transition (acquire, start, stop, reset).
type CaptureRequest struct{}

// CaptureResponse returns the resulting capture state.
type CaptureResponse struct {
	Capture CaptureSnapshot `json:"capture"`
}

// SubmitRequest sends the waiting clip for analysis.
type SubmitRequest struct {
	Description string `json:"description"`
}

// SubmitResponse returns the settled report.
type SubmitResponse struct {
	Report  Report `json:"report"`
	Message string `json:"message"`
}

// ReportListRequest filters report listing by status.
type ReportListRequest struct {
	Statuses []string `json:"statuses"`
}

// ReportListResponse contains session reports.
type ReportListResponse struct {
	Reports []Report `json:"reports"`
}

// ReportDescribeRequest fetches a single report by id.
type ReportDescribeRequest struct {
	ID string `json:"id"`
}

// ReportDescribeResponse contains a single report.
type ReportDescribeResponse struct {
	Report Report `json:"report"`
}

// TestConnectionRequest probes the analysis pipeline.
type TestConnectionRequest struct{}

// TestConnectionResponse reports probe outcome.
type TestConnectionResponse struct {
	Reachable bool `json:"reachable"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse indicates stop was accepted.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
