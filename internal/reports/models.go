package reports

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a report.
type Status string

const (
	// StatusPending marks a report whose upload is still in flight.
	StatusPending Status = "pending"
	// StatusReviewing marks a report whose upload failed or whose analysis
	// was inconclusive; the recording is retained so the user can resubmit.
	StatusReviewing Status = "reviewing"
	// StatusCompleted marks a report with a successful analysis attached.
	StatusCompleted Status = "completed"
)

var allStatuses = []Status{
	StatusPending,
	StatusReviewing,
	StatusCompleted,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Report tracks one submission attempt and its eventual analysis outcome.
// Reports live only in the session store; they are never persisted to disk.
type Report struct {
	ID           string
	Description  string
	Status       Status
	SubmittedAt  time.Time
	VideoSizeMB  float64
	Analysis     string
	AnalysisDate string
	StatusDetail string
}

// UploadResult is the typed response returned by the analysis service for a
// successful upload. One-shot: it is folded into a Report and discarded.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		OriginalName string  `json:"originalName"`
		FileSize     int64   `json:"fileSize"`
		FileSizeInMB float64 `json:"fileSizeInMB"`
		Analysis     string  `json:"analysis"`
		AnalysisDate string  `json:"analysisDate"`
	} `json:"data"`
}

// HealthSummary describes aggregated report counts per lifecycle state.
type HealthSummary struct {
	Total     int
	Pending   int
	Reviewing int
	Completed int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ApplyResult merges a successful upload result into the report, moving it to
// completed. Identity fields (ID, Description, SubmittedAt) are untouched;
// VideoSizeMB is refreshed only when the service reported a size.
func (r *Report) ApplyResult(result *UploadResult) {
	if result == nil {
		return
	}
	r.Status = StatusCompleted
	r.Analysis = result.Data.Analysis
	r.AnalysisDate = result.Data.AnalysisDate
	r.StatusDetail = strings.TrimSpace(result.Message)
	if result.Data.FileSizeInMB > 0 {
		r.VideoSizeMB = result.Data.FileSizeInMB
	}
}

// MarkReviewing moves the report into the reviewing state with a reason. Used
// when the upload fails at any layer or the service reports failure; the
// report is updated in place rather than removed.
func (r *Report) MarkReviewing(reason string) {
	r.Status = StatusReviewing
	r.StatusDetail = strings.TrimSpace(reason)
}

// IsSettled reports whether the report has left the pending state.
func (r Report) IsSettled() bool {
	return r.Status != StatusPending
}
