package reports

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"pending", StatusPending, true},
		{"  Reviewing ", StatusReviewing, true},
		{"COMPLETED", StatusCompleted, true},
		{"", "", false},
		{"failed", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseStatus(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseStatus(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestApplyResultKeepsIdentity(t *testing.T) {
	report := Report{ID: "r1", Description: "cracked tile", Status: StatusPending, VideoSizeMB: 3.1}

	result := &UploadResult{Success: true, Message: "ok"}
	result.Data.Analysis = "hairline crack along grout line"
	result.Data.AnalysisDate = "2026-08-23T09:30:00Z"

	report.ApplyResult(result)

	if report.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", report.Status)
	}
	if report.ID != "r1" || report.Description != "cracked tile" {
		t.Fatal("identity fields modified by merge")
	}
	if report.VideoSizeMB != 3.1 {
		t.Fatalf("video size overwritten without service-reported value: %v", report.VideoSizeMB)
	}
}

func TestMarkReviewing(t *testing.T) {
	report := Report{Status: StatusPending}
	report.MarkReviewing("  service returned 502  ")
	if report.Status != StatusReviewing {
		t.Fatalf("status = %s, want reviewing", report.Status)
	}
	if report.StatusDetail != "service returned 502" {
		t.Fatalf("detail = %q", report.StatusDetail)
	}
	if !report.IsSettled() {
		t.Fatal("reviewing report should be settled")
	}
}
