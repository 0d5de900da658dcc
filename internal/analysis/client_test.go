package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fixify/internal/config"
	"fixify/internal/logging"
	"fixify/internal/services"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.Analysis.BaseURL = baseURL
	return NewClient(&cfg, logging.NewNop())
}

func TestDefaultUploadTimeout(t *testing.T) {
	if DefaultUploadTimeout != 120*time.Second {
		t.Fatalf("default upload timeout = %s, want 120s", DefaultUploadTimeout)
	}
	client := newTestClient(t, "http://127.0.0.1:1/api")
	if client.uploadTimeout != DefaultUploadTimeout {
		t.Fatalf("client timeout = %s, want default", client.uploadTimeout)
	}
}

func TestUploadSuccess(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/api/videos/analyze-video" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "video.mp4" {
			t.Errorf("filename = %q, want video.mp4", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "video/mp4" {
			t.Errorf("part content type = %q, want video/mp4", ct)
		}
		if desc := r.FormValue("description"); desc != "leaking pipe under sink" {
			t.Errorf("description field = %q", desc)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "success": true,
            "message": "Video analyzed successfully",
            "data": {
                "originalName": "video.mp4",
                "fileSize": 1048576,
                "fileSizeInMB": 1.0,
                "analysis": "Pipe joint is corroded.",
                "analysisDate": "2026-08-23T10:00:00Z"
            }
        }`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api")
	result, err := client.Upload(context.Background(), strings.NewReader("fake video bytes"), 16, "leaking pipe under sink")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success result")
	}
	if result.Data.Analysis != "Pipe joint is corroded." {
		t.Fatalf("analysis = %q", result.Data.Analysis)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("server saw %d requests, want 1", got)
	}
}

func TestUploadValidationSkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api")

	if _, err := client.Upload(context.Background(), nil, 0, "desc"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for nil video, got %v", err)
	}
	if _, err := client.Upload(context.Background(), strings.NewReader(""), 0, "desc"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty video, got %v", err)
	}
	if got := requests.Load(); got != 0 {
		t.Fatalf("validation failure reached the network: %d requests", got)
	}
}

func TestUploadTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api")
	client.uploadTimeout = 50 * time.Millisecond

	_, err := client.Upload(context.Background(), strings.NewReader("bytes"), 5, "desc")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestUploadServiceErrorParsesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success": false, "message": "analysis backend unavailable"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api")
	_, err := client.Upload(context.Background(), strings.NewReader("bytes"), 5, "desc")
	if !errors.Is(err, services.ErrService) {
		t.Fatalf("expected service error, got %v", err)
	}
	if !strings.Contains(err.Error(), "analysis backend unavailable") {
		t.Fatalf("expected service message in error, got %q", err.Error())
	}
}

func TestUploadNetworkError(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1/api")
	_, err := client.Upload(context.Background(), strings.NewReader("bytes"), 5, "desc")
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestUploadReturnsUnsuccessfulBodyVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "could not analyze video"}`))
	}))
	defer server.Close()

	// A 2xx response parses into the typed result untouched, success or not;
	// settling the report is the caller's job.
	client := newTestClient(t, server.URL+"/api")
	result, err := client.Upload(context.Background(), strings.NewReader("bytes"), 5, "desc")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.Success {
		t.Fatal("expected success=false to survive parsing")
	}
	if result.Message != "could not analyze video" {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestTestConnection(t *testing.T) {
	status := atomic.Int32{}
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos/test-gemini" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api")
	if !client.TestConnection(context.Background()) {
		t.Fatal("expected healthy probe to return true")
	}

	status.Store(http.StatusInternalServerError)
	if client.TestConnection(context.Background()) {
		t.Fatal("expected failing probe to return false")
	}

	down := newTestClient(t, "http://127.0.0.1:1/api")
	if down.TestConnection(context.Background()) {
		t.Fatal("expected unreachable probe to return false")
	}
}

func TestHealthHitsServerRoot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("health probe path = %s, want /health", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api")
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
