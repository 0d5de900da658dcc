package capture

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"fixify/internal/services"
)

func TestNegotiateContainerPrefersFirstSupported(t *testing.T) {
	executor := fakeExecutor{muxers: "File muxers:\n ---\n  E mp4   MP4\n  E matroska Matroska\n"}

	format, err := NegotiateContainer(context.Background(), executor, "ffmpeg", []string{"webm", "matroska", "mp4"})
	if err != nil {
		t.Fatalf("NegotiateContainer: %v", err)
	}
	if format.Name != "matroska" {
		t.Fatalf("negotiated %s, want matroska (webm unsupported)", format.Name)
	}
	if format.Extension != ".mkv" || format.MimeType != "video/x-matroska" {
		t.Fatalf("unexpected format metadata: %+v", format)
	}
}

func TestNegotiateContainerNoMatch(t *testing.T) {
	executor := fakeExecutor{muxers: "File muxers:\n ---\n  E wav   WAV\n"}

	_, err := NegotiateContainer(context.Background(), executor, "ffmpeg", []string{"webm", "mp4"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCommandExecutorSerializesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not available: %v", err)
	}

	// The callback mutates unsynchronized state while the command writes to
	// stdout and stderr at once; line delivery must be serialized.
	script := "for i in 1 2 3 4 5 6 7 8; do echo out$i; echo err$i 1>&2; done"
	var lines []string
	err := commandExecutor{}.Run(context.Background(), "sh", []string{"-c", script}, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(lines) != 16 {
		t.Fatalf("delivered %d lines, want 16", len(lines))
	}
}

func TestNegotiateContainerSkipsUnknownPreference(t *testing.T) {
	executor := fakeExecutor{}

	format, err := NegotiateContainer(context.Background(), executor, "ffmpeg", []string{"ogg-theora", "mp4"})
	if err != nil {
		t.Fatalf("NegotiateContainer: %v", err)
	}
	if format.Name != "mp4" {
		t.Fatalf("negotiated %s, want mp4", format.Name)
	}
}
