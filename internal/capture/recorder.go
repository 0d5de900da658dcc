package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// RecordSpec describes one recording run.
type RecordSpec struct {
	Device     string
	DestPath   string
	Width      int
	Height     int
	Framerate  int
	MaxSeconds int
	Container  ContainerFormat
}

// Clip is the artifact a finished recording leaves behind in the spool.
type Clip struct {
	Path      string
	SizeBytes int64
	Container ContainerFormat
}

// SizeMB returns the clip size in megabytes.
func (c Clip) SizeMB() float64 {
	return float64(c.SizeBytes) / (1024 * 1024)
}

// Recorder runs a single recording at a time. Start returns once the
// recording is rolling; Stop finalizes the file and reports the clip.
type Recorder interface {
	Start(ctx context.Context, spec RecordSpec) error
	Stop(ctx context.Context) (Clip, error)
}

const stopGracePeriod = 10 * time.Second

// ffmpegRecorder shells out to ffmpeg reading from a video4linux device.
type ffmpegRecorder struct {
	binary string

	mu   sync.Mutex
	cmd  *exec.Cmd
	spec RecordSpec
	done chan error
}

// NewFFmpegRecorder builds the production recorder.
func NewFFmpegRecorder(binary string) Recorder {
	return &ffmpegRecorder{binary: binary}
}

func (r *ffmpegRecorder) Start(ctx context.Context, spec RecordSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return errors.New("recorder already running")
	}
	if spec.Device == "" || spec.DestPath == "" {
		return errors.New("recorder requires a device and destination path")
	}

	cmd := exec.CommandContext(ctx, r.binary, buildFFmpegArgs(spec)...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	r.cmd = cmd
	r.spec = spec
	r.done = done
	return nil
}

func (r *ffmpegRecorder) Stop(ctx context.Context) (Clip, error) {
	r.mu.Lock()
	cmd := r.cmd
	spec := r.spec
	done := r.done
	r.cmd = nil
	r.done = nil
	r.mu.Unlock()

	if cmd == nil {
		return Clip{}, errors.New("recorder is not running")
	}

	// SIGINT asks ffmpeg to finalize the container before exiting. Killing
	// it outright would leave a truncated file.
	_ = cmd.Process.Signal(os.Interrupt)

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		_ = cmd.Process.Kill()
		<-done
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
	}

	info, err := os.Stat(spec.DestPath)
	if err != nil {
		return Clip{}, fmt.Errorf("recording produced no file: %w", err)
	}
	if info.Size() == 0 {
		return Clip{}, errors.New("recording produced an empty file")
	}

	return Clip{
		Path:      spec.DestPath,
		SizeBytes: info.Size(),
		Container: spec.Container,
	}, nil
}

func buildFFmpegArgs(spec RecordSpec) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-f", "v4l2",
	}
	if spec.Framerate > 0 {
		args = append(args, "-framerate", strconv.Itoa(spec.Framerate))
	}
	if spec.Width > 0 && spec.Height > 0 {
		args = append(args, "-video_size", fmt.Sprintf("%dx%d", spec.Width, spec.Height))
	}
	args = append(args, "-i", spec.Device)
	if spec.MaxSeconds > 0 {
		args = append(args, "-t", strconv.Itoa(spec.MaxSeconds))
	}
	if spec.Container.Name == "webm" {
		args = append(args, "-c:v", "libvpx-vp9")
	}
	args = append(args, "-f", spec.Container.Name, spec.DestPath)
	return args
}
