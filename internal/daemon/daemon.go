package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"fixify/internal/analysis"
	"fixify/internal/auth"
	"fixify/internal/capture"
	"fixify/internal/config"
	"fixify/internal/deps"
	"fixify/internal/logging"
	"fixify/internal/preflight"
	"fixify/internal/reports"
	"fixify/internal/services"
)

// Daemon owns the capture session: camera lifecycle, report store, analysis
// client, and identity. It enforces single-instance execution via a file
// lock. Reports live only as long as the daemon does.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *reports.Store
	controller *capture.Controller
	client     *analysis.Client
	identity   auth.Provider
	monitor    *capture.HotplugMonitor
	logPath    string

	lockPath string
	lock     *flock.Flock

	running    atomic.Bool
	submitting atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	LockFilePath string
	SessionEmail string
	Capture      capture.Snapshot
	Reports      reports.HealthSummary
	Dependencies []deps.Status
	Checks       []preflight.Result
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *reports.Store, logger *slog.Logger, controller *capture.Controller, client *analysis.Client, identity auth.Provider) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || controller == nil || client == nil || identity == nil {
		return nil, errors.New("daemon requires config, store, logger, controller, analysis client, and identity provider")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "fixifyd.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		controller: controller,
		client:     client,
		identity:   identity,
		logPath:    filepath.Join(cfg.Paths.LogDir, "fixify.log"),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	d.monitor = capture.NewHotplugMonitor(logger, controller.HandleHotplug)
	return d, nil
}

// Start acquires the daemon lock and begins watching for camera hotplug.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fixify daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.monitor.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start camera monitor: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("fixify daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop releases the camera, the monitor, and the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if _, err := d.controller.Release(context.Background()); err != nil {
		d.logger.Warn("capture release during shutdown failed", logging.Error(err))
	}
	d.monitor.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("fixify daemon stopped")
}

// Close releases resources held by the daemon. All session reports are
// discarded with the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// SignIn authenticates against the identity provider.
func (d *Daemon) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	session, err := d.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	d.logger.Info("user signed in", logging.String("email", session.Email))
	return session, nil
}

// SignOut ends the current session.
func (d *Daemon) SignOut(ctx context.Context) error {
	if err := d.identity.SignOut(ctx); err != nil {
		return err
	}
	d.logger.Info("user signed out")
	return nil
}

// AcquireCamera resolves and holds the camera for previewing.
func (d *Daemon) AcquireCamera(ctx context.Context) (capture.Snapshot, error) {
	if err := d.requireSession("acquire"); err != nil {
		return d.controller.Snapshot(), err
	}
	return d.controller.Acquire(ctx)
}

// StartRecording begins a recording from the active preview.
func (d *Daemon) StartRecording(ctx context.Context) (capture.Snapshot, error) {
	return d.controller.StartRecording(ctx)
}

// StopRecording finalizes the clip and releases the camera.
func (d *Daemon) StopRecording(ctx context.Context) (capture.Snapshot, error) {
	return d.controller.StopRecording(ctx)
}

// ResetCapture discards the session recording and re-acquires the camera,
// returning the controller to previewing.
func (d *Daemon) ResetCapture(ctx context.Context) (capture.Snapshot, error) {
	if err := d.requireSession("reset"); err != nil {
		return d.controller.Snapshot(), err
	}
	return d.controller.Reset(ctx)
}

// Submit sends the waiting clip and description to the analysis service.
//
// Validation failures (blank description, no clip) return before any report
// is created or network traffic happens. Otherwise a pending report is
// created first, then settled: completed with the analysis on success, or
// reviewing with the clip preserved on any failure so the user can resubmit.
func (d *Daemon) Submit(ctx context.Context, description string) (*reports.Report, error) {
	if err := d.requireSession("submit"); err != nil {
		return nil, err
	}
	if !d.submitting.CompareAndSwap(false, true) {
		return nil, services.Wrap(services.ErrValidation, "daemon", "submit", "a submission is already in progress", nil)
	}
	defer d.submitting.Store(false)

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, services.Wrap(services.ErrValidation, "daemon", "submit", "a description is required", nil)
	}

	clip := d.controller.Clip()
	if clip == nil {
		return nil, services.Wrap(services.ErrValidation, "daemon", "submit", "record a video before submitting", nil)
	}

	report, err := d.store.New(ctx, description, clip.SizeMB())
	if err != nil {
		return nil, services.Wrap(services.ErrService, "daemon", "submit", "create report", err)
	}

	ctx = services.WithReportID(ctx, report.ID)
	logger := d.logger.With(logging.String(logging.FieldReportID, report.ID))

	file, err := os.Open(clip.Path)
	if err != nil {
		return d.settleFailure(ctx, logger, report,
			services.Wrap(services.ErrService, "daemon", "submit", "open recording", err))
	}
	defer file.Close()

	result, err := d.client.Upload(ctx, file, clip.SizeBytes, description)
	if err != nil {
		return d.settleFailure(ctx, logger, report, err)
	}
	if !result.Success {
		message := strings.TrimSpace(result.Message)
		if message == "" {
			message = "analysis was not successful"
		}
		return d.settleFailure(ctx, logger, report,
			services.Wrap(services.ErrService, "daemon", "submit", message, nil))
	}

	report.ApplyResult(result)
	if err := d.store.Update(ctx, report); err != nil {
		return report, services.Wrap(services.ErrService, "daemon", "submit", "persist analysis", err)
	}
	d.controller.ClearClip()

	logger.Info("report completed",
		logging.String(logging.FieldEventType, "report_completed"),
		logging.Float64("size_mb", report.VideoSizeMB))
	return report, nil
}

// requireSession rejects capture and submit operations without a signed-in
// user.
func (d *Daemon) requireSession(operation string) error {
	if d.identity.Current() != nil {
		return nil
	}
	return services.Wrap(services.ErrPermissionDenied, "daemon", operation, "sign in before using the camera", nil)
}

// settleFailure moves the report to reviewing, keeps the clip for
// resubmission, and passes the original error through.
func (d *Daemon) settleFailure(ctx context.Context, logger *slog.Logger, report *reports.Report, cause error) (*reports.Report, error) {
	report.Status = services.FailureStatus(cause)
	report.StatusDetail = services.UserMessage(cause)
	if err := d.store.Update(ctx, report); err != nil {
		logger.Warn("could not record failure on report", logging.Error(err))
	}

	logger.Warn("submission failed; recording kept for resubmission",
		logging.Error(cause),
		logging.String(logging.FieldEventType, "report_reviewing"),
		logging.Bool("retryable", services.Retryable(cause)))
	return report, cause
}

// ListReports returns session reports filtered by optional statuses.
func (d *Daemon) ListReports(ctx context.Context, statuses []reports.Status) ([]*reports.Report, error) {
	return d.store.List(ctx, statuses...)
}

// GetReport fetches one report by id.
func (d *Daemon) GetReport(ctx context.Context, id string) (*reports.Report, error) {
	return d.store.GetByID(ctx, id)
}

// ReportHealth returns aggregate report counts.
func (d *Daemon) ReportHealth(ctx context.Context) (reports.HealthSummary, error) {
	return d.store.Health(ctx)
}

// TestConnection probes the analysis pipeline.
func (d *Daemon) TestConnection(ctx context.Context) bool {
	return d.client.TestConnection(ctx)
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		Capture:      d.controller.Snapshot(),
		Dependencies: preflight.CheckSystemDeps(ctx, d.cfg),
	}
	if session := d.identity.Current(); session != nil {
		status.SessionEmail = session.Email
	}
	if health, err := d.store.Health(ctx); err == nil {
		status.Reports = health
	}
	return status
}
