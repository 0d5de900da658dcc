package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"fixify/internal/analysis"
	"fixify/internal/config"
	"fixify/internal/deps"
	"fixify/internal/logging"
)

// minSpoolSpaceBytes is the free-space floor for the spool directory. A two
// minute portrait clip stays well under this.
const minSpoolSpaceBytes = 512 << 20

// CheckAnalysisService verifies the analysis endpoint responds to the health
// probe. It uses a short timeout and a single attempt.
func CheckAnalysisService(ctx context.Context, cfg *config.Config) Result {
	const name = "Analysis service"

	if cfg.Analysis.BaseURL == "" {
		return Result{Name: name, Detail: "missing base URL"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := analysis.NewClient(cfg, logging.NewNop())
	if err := client.Health(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Analysis.BaseURL}
}

// CheckDirectoryAccess verifies that the directory exists, is writable, and
// has headroom for recordings.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err == nil {
		free := stat.Bavail * uint64(stat.Bsize)
		if free < minSpoolSpaceBytes {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: only %d MB free)", path, free>>20)}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools capture depends on. Both the
// daemon and the CLI status command use this list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for camera recording",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Used to inspect recorded clips",
			Optional:    true,
		},
		{
			Name:        "v4l2-ctl",
			Command:     "v4l2-ctl",
			Description: "Helps diagnose camera capability issues",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}
