package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var statusTitleCaser = cases.Title(language.English)

// displayStatus renders a wire status value for terminal output.
func displayStatus(value string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), "_", " ")
	if cleaned == "" {
		return "-"
	}
	return statusTitleCaser.String(cleaned)
}

func formatSizeMB(sizeMB float64) string {
	if sizeMB <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f MB", sizeMB)
}

func truncateText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
