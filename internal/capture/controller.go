package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fixify/internal/config"
	"fixify/internal/logging"
	"fixify/internal/services"
)

// State is the capture controller lifecycle position.
type State string

const (
	// StateIdle means no camera is held and no recording exists.
	StateIdle State = "idle"
	// StatePreviewing means the camera is acquired but not recording.
	StatePreviewing State = "previewing"
	// StateRecording means frames are being written to the spool.
	StateRecording State = "recording"
	// StateRecorded means a finished clip is waiting for submission; the
	// camera has been released.
	StateRecorded State = "recorded"
)

// Snapshot is a point-in-time view of the controller for status output.
type Snapshot struct {
	State       State
	Device      string
	DeviceName  string
	ClipPath    string
	ClipSizeMB  float64
	ContentType string
	RecordedAt  time.Time
}

// Controller owns the camera lifecycle: acquire, record, stop, reset. One
// instance exists per daemon; all transitions are serialized.
type Controller struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder Recorder
	resolver DeviceResolver
	executor Executor
	opener   func(path string) error

	mu          sync.Mutex
	state       State
	device      CameraDevice
	format      *ContainerFormat
	clip        *Clip
	contentType string
	recordedAt  time.Time
}

// Option configures the controller.
type Option func(*Controller)

// WithRecorder injects a custom recorder (primarily for tests).
func WithRecorder(recorder Recorder) Option {
	return func(c *Controller) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

// WithDeviceResolver injects a custom device resolver.
func WithDeviceResolver(resolver DeviceResolver) Option {
	return func(c *Controller) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithExecutor injects a custom command executor.
func WithExecutor(executor Executor) Option {
	return func(c *Controller) {
		if executor != nil {
			c.executor = executor
		}
	}
}

// WithDeviceOpener injects the probe used to verify camera access.
func WithDeviceOpener(opener func(path string) error) Option {
	return func(c *Controller) {
		if opener != nil {
			c.opener = opener
		}
	}
}

// NewController builds a capture controller from configuration.
func NewController(cfg *config.Config, logger *slog.Logger, opts ...Option) *Controller {
	controller := &Controller{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "capture"),
		recorder: NewFFmpegRecorder(cfg.FFmpegBinary()),
		resolver: ResolveDevice,
		executor: commandExecutor{},
		opener:   probeDeviceAccess,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Acquire resolves and verifies the camera, moving idle to previewing.
// Acquiring while already previewing is a no-op; a recording or a waiting
// clip must be reset first.
func (c *Controller) Acquire(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StatePreviewing:
		return c.snapshotLocked(), nil
	case StateRecording, StateRecorded:
		return c.snapshotLocked(), services.Wrap(services.ErrValidation, "capture", "acquire",
			fmt.Sprintf("cannot acquire camera while %s; reset first", c.state), nil)
	}

	facing, _ := ParseFacing(c.cfg.Capture.PreferredFacing)
	device, err := c.resolver(facing, c.cfg.Capture.Device)
	if err != nil {
		return c.snapshotLocked(), err
	}

	if err := c.opener(device.Path); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return c.snapshotLocked(), services.Wrap(services.ErrPermissionDenied, "capture", "acquire",
				fmt.Sprintf("access to %s denied", device.Path), err)
		}
		return c.snapshotLocked(), services.Wrap(services.ErrNotFound, "capture", "acquire",
			fmt.Sprintf("camera %s unavailable", device.Path), err)
	}

	c.device = device
	c.state = StatePreviewing

	c.logger.Info("camera acquired",
		logging.String("device", device.Path),
		logging.String("card", device.Name),
		logging.String(logging.FieldEventType, "camera_acquired"))
	return c.snapshotLocked(), nil
}

// StartRecording begins writing frames to a fresh spool file. Without an
// acquired camera this is a no-op: the snapshot reports the unchanged state
// and no error, matching the behaviour of pressing record with no preview.
func (c *Controller) StartRecording(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePreviewing {
		c.logger.Debug("record requested without an active preview",
			logging.String("state", string(c.state)))
		return c.snapshotLocked(), nil
	}

	format, err := c.containerLocked(ctx)
	if err != nil {
		return c.snapshotLocked(), err
	}

	destPath := filepath.Join(c.cfg.Paths.SpoolDir, "clip-"+uuid.NewString()+format.Extension)
	spec := RecordSpec{
		Device:     c.device.Path,
		DestPath:   destPath,
		Width:      c.cfg.Capture.Width,
		Height:     c.cfg.Capture.Height,
		Framerate:  c.cfg.Capture.Framerate,
		MaxSeconds: c.cfg.Capture.MaxSeconds,
		Container:  format,
	}
	if err := c.recorder.Start(ctx, spec); err != nil {
		return c.snapshotLocked(), services.Wrap(services.ErrService, "capture", "record-start", "start recorder", err)
	}

	c.state = StateRecording
	c.logger.Info("recording started",
		logging.String("device", c.device.Path),
		logging.String("container", format.Name),
		logging.String("dest", destPath),
		logging.String(logging.FieldEventType, "recording_started"))
	return c.snapshotLocked(), nil
}

// StopRecording finalizes the clip and releases the camera. The clip keeps
// its recorded bytes untouched but is labeled with the canonical content
// type so the submission side sends one consistent format name. Stopping
// while not recording is a no-op.
func (c *Controller) StopRecording(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		c.logger.Debug("stop requested without an active recording",
			logging.String("state", string(c.state)))
		return c.snapshotLocked(), nil
	}

	clip, err := c.recorder.Stop(ctx)
	if err != nil {
		// The recorder is gone either way; drop back to previewing so the
		// user can try again without a full reset.
		c.state = StatePreviewing
		return c.snapshotLocked(), services.Wrap(services.ErrService, "capture", "record-stop", "finalize recording", err)
	}

	c.clip = &clip
	c.contentType = c.canonicalType()
	c.recordedAt = time.Now().UTC()
	c.state = StateRecorded
	c.device = CameraDevice{}

	c.logger.Info("recording stopped",
		logging.String("clip", clip.Path),
		logging.Float64("size_mb", clip.SizeMB()),
		logging.String("content_type", c.contentType),
		logging.String(logging.FieldEventType, "recording_stopped"))
	return c.snapshotLocked(), nil
}

// Reset abandons any recording or waiting clip and immediately re-acquires
// the camera, landing back in previewing so the user can record again.
func (c *Controller) Reset(ctx context.Context) (Snapshot, error) {
	if _, err := c.Release(ctx); err != nil {
		return c.Snapshot(), err
	}
	return c.Acquire(ctx)
}

// Release abandons any preview, recording, or waiting clip and lets go of
// the camera entirely. Used at shutdown and when the active device
// disappears; interactive resets go through Reset, which re-acquires. The
// spool file is deleted immediately rather than waiting for process exit.
func (c *Controller) Release(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRecording {
		if _, err := c.recorder.Stop(ctx); err != nil {
			c.logger.Warn("recorder did not stop cleanly during release", logging.Error(err))
		}
	}
	c.discardClipLocked()
	c.device = CameraDevice{}
	c.state = StateIdle

	c.logger.Info("capture released", logging.String(logging.FieldEventType, "capture_released"))
	return c.snapshotLocked(), nil
}

// Clip returns the finished recording waiting for submission, or nil.
func (c *Controller) Clip() *Clip {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRecorded || c.clip == nil {
		return nil
	}
	clip := *c.clip
	return &clip
}

// ContentType returns the canonical label for the waiting clip.
func (c *Controller) ContentType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contentType
}

// ClearClip removes the waiting clip after a successful submission and
// returns the controller to idle. Failed submissions must NOT call this;
// the clip stays available for resubmission.
func (c *Controller) ClearClip() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecorded {
		return
	}
	c.discardClipLocked()
	c.state = StateIdle
	c.logger.Info("clip cleared after submission",
		logging.String(logging.FieldEventType, "clip_cleared"))
}

// HandleHotplug reacts to the active camera disappearing. Recordings in
// flight are stopped and kept; previews fall back to idle.
func (c *Controller) HandleHotplug(ctx context.Context, event HotplugEvent) {
	if !event.Removed {
		return
	}

	c.mu.Lock()
	active := c.device.Path
	state := c.state
	c.mu.Unlock()

	if active == "" || active != event.Device {
		return
	}

	c.logger.Warn("active camera disconnected",
		logging.String("device", event.Device),
		logging.String("state", string(state)),
		logging.String(logging.FieldImpact, "capture session interrupted"))

	switch state {
	case StateRecording:
		if _, err := c.StopRecording(ctx); err != nil {
			c.logger.Warn("could not finalize recording after disconnect", logging.Error(err))
			_, _ = c.Release(ctx)
		}
	case StatePreviewing:
		_, _ = c.Release(ctx)
	}
}

// Snapshot returns the current controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:       c.state,
		Device:      c.device.Path,
		DeviceName:  c.device.Name,
		ContentType: c.contentType,
		RecordedAt:  c.recordedAt,
	}
	if c.clip != nil {
		snapshot.ClipPath = c.clip.Path
		snapshot.ClipSizeMB = c.clip.SizeMB()
	}
	return snapshot
}

func (c *Controller) discardClipLocked() {
	if c.clip == nil {
		return
	}
	if err := os.Remove(c.clip.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("could not remove spool file",
			logging.String("clip", c.clip.Path),
			logging.Error(err))
	}
	c.clip = nil
	c.contentType = ""
	c.recordedAt = time.Time{}
}

// containerLocked negotiates the recording container once per process and
// caches the result.
func (c *Controller) containerLocked(ctx context.Context) (ContainerFormat, error) {
	if c.format != nil {
		return *c.format, nil
	}
	format, err := NegotiateContainer(ctx, c.executor, c.cfg.FFmpegBinary(), c.cfg.Capture.Containers)
	if err != nil {
		return ContainerFormat{}, err
	}
	c.format = &format
	return format, nil
}

func (c *Controller) canonicalType() string {
	if canonical := strings.TrimSpace(c.cfg.Capture.CanonicalType); canonical != "" {
		return canonical
	}
	if c.clip != nil {
		return c.clip.Container.MimeType
	}
	return "video/mp4"
}

func probeDeviceAccess(path string) error {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	return file.Close()
}
