package services

import (
	"errors"
	"fmt"
	"strings"

	"fixify/internal/reports"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrNotFound         = errors.New("not found")
	ErrTimeout          = errors.New("timeout")
	ErrService          = errors.New("service error")
	ErrNetwork          = errors.New("network error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a submission error to the report status the daemon
// should record after the attempt fails. Every failure lands the report in
// reviewing so the retained recording can be resubmitted.
func FailureStatus(err error) reports.Status {
	return reports.StatusReviewing
}

// Retryable reports whether resubmitting the same capture could plausibly
// succeed. Validation, permission, and configuration failures need user
// action first; transport and service failures are worth retrying as-is.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

// UserMessage renders a short, actionable message for a submission failure,
// keyed on the sentinel marker inside err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "camera or microphone access was denied; check device permissions and retry"
	case errors.Is(err, ErrValidation):
		return "the submission is incomplete; record a video and add a description"
	case errors.Is(err, ErrTimeout):
		return "the analysis service took too long to respond; try again shortly"
	case errors.Is(err, ErrNetwork):
		return "the analysis service is unreachable; check connectivity and the configured URL"
	case errors.Is(err, ErrConfiguration):
		return "fixify is misconfigured; review the config file"
	default:
		return "the analysis service rejected the upload; try again shortly"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
