package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fixify/internal/analysis"
	"fixify/internal/auth"
	"fixify/internal/capture"
	"fixify/internal/config"
	"fixify/internal/daemon"
	"fixify/internal/ipc"
	"fixify/internal/logging"
	"fixify/internal/reports"
)

type cliRecorder struct {
	spec capture.RecordSpec
}

func (r *cliRecorder) Start(ctx context.Context, spec capture.RecordSpec) error {
	r.spec = spec
	return nil
}

func (r *cliRecorder) Stop(ctx context.Context) (capture.Clip, error) {
	if err := os.WriteFile(r.spec.DestPath, []byte("frames"), 0o644); err != nil {
		return capture.Clip{}, err
	}
	return capture.Clip{Path: r.spec.DestPath, SizeBytes: 6, Container: r.spec.Container}, nil
}

type cliExecutor struct{}

func (cliExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	for _, line := range []string{"File muxers:", " ---", "  E mp4   MP4"} {
		onLine(line)
	}
	return nil
}

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	analysisServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/videos/analyze-video":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"analysis":"worn washer","analysisDate":"2026-08-23T12:00:00Z","fileSizeInMB":0.01}}`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(analysisServer.Close)

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := config.Default()
	cfg.Paths.SpoolDir = filepath.Join(base, "spool")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Analysis.BaseURL = analysisServer.URL + "/api"
	cfg.Auth.SignInDelayMillis = 0
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "fixify", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, &cfg)

	logger := logging.NewNop()
	controller := capture.NewController(&cfg, logger,
		capture.WithRecorder(&cliRecorder{}),
		capture.WithExecutor(cliExecutor{}),
		capture.WithDeviceOpener(func(string) error { return nil }),
		capture.WithDeviceResolver(func(capture.Facing, string) (capture.CameraDevice, error) {
			return capture.CameraDevice{Path: "/dev/video0", Name: "Test Camera"}, nil
		}),
	)

	store, err := reports.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	d, err := daemon.New(&cfg, store, logger, controller, analysis.NewClient(&cfg, logger), auth.NewStubProvider(&cfg))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := filepath.Join(cfg.Paths.LogDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger, cancel)
	if err != nil {
		cancel()
		_ = d.Close()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        &cfg,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		_ = d.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nspool_dir = %q\nlog_dir = %q\n\n[analysis]\nbase_url = %q\n\n[auth]\nsign_in_delay_ms = 0\n",
		cfg.Paths.SpoolDir,
		cfg.Paths.LogDir,
		cfg.Analysis.BaseURL,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
