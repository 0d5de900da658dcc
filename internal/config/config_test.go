package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fixify/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantSpool := filepath.Join(tempHome, ".local", "share", "fixify", "spool")
	if cfg.Paths.SpoolDir != wantSpool {
		t.Fatalf("unexpected spool dir: got %q want %q", cfg.Paths.SpoolDir, wantSpool)
	}
	if cfg.Analysis.BaseURL != "http://127.0.0.1:3000/api" {
		t.Fatalf("unexpected analysis base url: %q", cfg.Analysis.BaseURL)
	}
	if cfg.Analysis.UploadTimeout != 120 {
		t.Fatalf("expected default upload timeout of 120s, got %d", cfg.Analysis.UploadTimeout)
	}
	if cfg.Capture.PreferredFacing != "auto" {
		t.Fatalf("unexpected facing: %q", cfg.Capture.PreferredFacing)
	}
	if cfg.Capture.Width != 720 || cfg.Capture.Height != 1280 {
		t.Fatalf("expected portrait 720x1280 default, got %dx%d", cfg.Capture.Width, cfg.Capture.Height)
	}
	if cfg.Capture.CanonicalType != "video/mp4" {
		t.Fatalf("unexpected canonical type: %q", cfg.Capture.CanonicalType)
	}
	if len(cfg.Capture.Containers) == 0 || cfg.Capture.Containers[len(cfg.Capture.Containers)-1] != "mp4" {
		t.Fatalf("expected container preference list ending in mp4, got %v", cfg.Capture.Containers)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "fixify.toml")
	content := strings.Join([]string{
		`[analysis]`,
		`base_url = "https://analysis.example.com/api/"`,
		`upload_timeout = 30`,
		``,
		`[capture]`,
		`preferred_facing = "Rear"`,
		`containers = ["  WEBM ", ""]`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config file to resolve, got exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Analysis.BaseURL != "https://analysis.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Analysis.BaseURL)
	}
	if cfg.Analysis.UploadTimeout != 30 {
		t.Fatalf("unexpected upload timeout: %d", cfg.Analysis.UploadTimeout)
	}
	if cfg.Capture.PreferredFacing != "rear" {
		t.Fatalf("expected facing lowercased, got %q", cfg.Capture.PreferredFacing)
	}
	if len(cfg.Capture.Containers) != 1 || cfg.Capture.Containers[0] != "webm" {
		t.Fatalf("expected containers cleaned to [webm], got %v", cfg.Capture.Containers)
	}
}

func TestAnalysisURLFromEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FIXIFY_ANALYSIS_URL", "https://env.example.com/api")

	path := filepath.Join(tempHome, "fixify.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nbase_url = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Analysis.BaseURL != "https://env.example.com/api" {
		t.Fatalf("expected env override, got %q", cfg.Analysis.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "relative base url",
			mutate: func(c *config.Config) { c.Analysis.BaseURL = "analysis.example.com" },
			want:   "analysis.base_url",
		},
		{
			name:   "unknown facing",
			mutate: func(c *config.Config) { c.Capture.PreferredFacing = "sideways" },
			want:   "preferred_facing",
		},
		{
			name:   "bad canonical type",
			mutate: func(c *config.Config) { c.Capture.CanonicalType = "mp4" },
			want:   "canonical_type",
		},
		{
			name:   "bad log format",
			mutate: func(c *config.Config) { c.Logging.Format = "yaml" },
			want:   "logging.format",
		},
		{
			name:   "zero timeout",
			mutate: func(c *config.Config) { c.Analysis.UploadTimeout = 0 },
			want:   "upload_timeout",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Analysis.BaseURL = "http://127.0.0.1:3000/api"
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[analysis]") {
		t.Fatal("sample config missing [analysis] section")
	}
}
