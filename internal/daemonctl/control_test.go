package daemonctl

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestForceKillRefusesCurrentProcess(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "fixifyd.pid")
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	if _, err := ForceKillProcess(pidPath, "", 0); err == nil {
		t.Fatal("expected refusal to kill the current process")
	}
}

func TestForceKillRequiresPID(t *testing.T) {
	dir := t.TempDir()
	if _, err := ForceKillProcess(filepath.Join(dir, "missing.pid"), "", 0); err == nil {
		t.Fatal("expected error without a resolvable pid")
	}
}

func TestProcessInfoWithoutSocket(t *testing.T) {
	running, pid, err := ProcessInfo(filepath.Join(t.TempDir(), "fixifyd.sock"))
	if err != nil {
		t.Fatalf("ProcessInfo: %v", err)
	}
	if running || pid != 0 {
		t.Fatalf("expected not running, got running=%v pid=%d", running, pid)
	}
}

func TestWaitForClientTimesOut(t *testing.T) {
	start := time.Now()
	_, err := WaitForClient(filepath.Join(t.TempDir(), "fixifyd.sock"), 300*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("wait loop ran far past its deadline")
	}
}
