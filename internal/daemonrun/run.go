package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"fixify/internal/analysis"
	"fixify/internal/auth"
	"fixify/internal/capture"
	"fixify/internal/config"
	"fixify/internal/daemon"
	"fixify/internal/ipc"
	"fixify/internal/logging"
	"fixify/internal/preflight"
	"fixify/internal/reports"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel   string
	SocketPath string
}

// Run starts the fixify daemon runtime loop and blocks until the process
// receives a termination signal or a client requests shutdown.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "fixify.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logPreflightSnapshot(signalCtx, logger, cfg)

	pidPath := PIDFilePath(cfg)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := reports.Open()
	if err != nil {
		logger.Error("open session store", logging.Error(err))
		return err
	}
	defer store.Close()

	controller := capture.NewController(cfg, logger)
	client := analysis.NewClient(cfg, logger)
	identity := auth.NewStubProvider(cfg)

	d, err := daemon.New(cfg, store, logger, controller, client, identity)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := opts.SocketPath
	if socketPath == "" {
		socketPath = SocketPath(cfg)
	}
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger, cancel)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check for another running fixifyd instance"))
		return err
	}

	<-signalCtx.Done()
	logger.Info("fixify daemon shutting down")
	return nil
}

// SocketPath returns the IPC socket location for a config.
func SocketPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "fixifyd.sock")
}

// PIDFilePath returns the daemon PID file location for a config.
func PIDFilePath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "fixifyd.pid")
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logPreflightSnapshot(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, dep := range preflight.CheckSystemDeps(ctx, cfg) {
		logger.Info("dependency check",
			logging.String(logging.FieldEventType, "dependency_check"),
			logging.String("name", dep.Name),
			logging.String("command", dep.Command),
			logging.Bool("available", dep.Available),
			logging.Bool("optional", dep.Optional))
	}
	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "fix the check before capturing"))
	}
}
