package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"fixify/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Spool directory", dir)
	if !result.Passed {
		t.Fatalf("writable temp dir failed: %s", result.Detail)
	}

	missing := CheckDirectoryAccess("Spool directory", filepath.Join(dir, "nope"))
	if missing.Passed {
		t.Fatal("missing directory passed")
	}
	if !strings.Contains(missing.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", missing.Detail)
	}
}

func TestCheckAnalysisService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Analysis.BaseURL = server.URL + "/api"

	result := CheckAnalysisService(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("healthy service failed preflight: %s", result.Detail)
	}

	cfg.Analysis.BaseURL = "http://127.0.0.1:1/api"
	result = CheckAnalysisService(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("unreachable service passed preflight")
	}
}

func TestRunAllAndAllPassed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Paths.SpoolDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Analysis.BaseURL = server.URL + "/api"

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}
