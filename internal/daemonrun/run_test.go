package daemonrun

import (
	"path/filepath"
	"testing"

	"fixify/internal/config"
)

func TestSocketAndPIDPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	if got, want := SocketPath(&cfg), filepath.Join(cfg.Paths.LogDir, "fixifyd.sock"); got != want {
		t.Fatalf("socket path = %q, want %q", got, want)
	}
	if got, want := PIDFilePath(&cfg), filepath.Join(cfg.Paths.LogDir, "fixifyd.pid"); got != want {
		t.Fatalf("pid path = %q, want %q", got, want)
	}
}
