package capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"fixify/internal/services"
)

// ContainerFormat describes one recording container choice and the label the
// rest of the system uses for it.
type ContainerFormat struct {
	Name      string
	Extension string
	MimeType  string
}

var knownContainers = map[string]ContainerFormat{
	"webm":     {Name: "webm", Extension: ".webm", MimeType: "video/webm"},
	"matroska": {Name: "matroska", Extension: ".mkv", MimeType: "video/x-matroska"},
	"mp4":      {Name: "mp4", Extension: ".mp4", MimeType: "video/mp4"},
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// NegotiateContainer walks the preference list and returns the first
// container the local ffmpeg build can mux. Preferences outside the known
// set are skipped with no error; an empty intersection is a configuration
// problem.
func NegotiateContainer(ctx context.Context, executor Executor, ffmpegBinary string, preferences []string) (ContainerFormat, error) {
	available, err := listMuxers(ctx, executor, ffmpegBinary)
	if err != nil {
		return ContainerFormat{}, services.Wrap(services.ErrConfiguration, "capture", "negotiate-container", "list ffmpeg muxers", err)
	}

	for _, preference := range preferences {
		name := strings.ToLower(strings.TrimSpace(preference))
		format, known := knownContainers[name]
		if !known {
			continue
		}
		if _, ok := available[name]; ok {
			return format, nil
		}
	}
	return ContainerFormat{}, services.Wrap(services.ErrConfiguration, "capture", "negotiate-container",
		fmt.Sprintf("none of the preferred containers %v are supported by %s", preferences, ffmpegBinary), nil)
}

// listMuxers parses `ffmpeg -muxers` output. Muxer lines look like
// " E  matroska  Matroska" after the header separator.
func listMuxers(ctx context.Context, executor Executor, binary string) (map[string]struct{}, error) {
	muxers := make(map[string]struct{})
	seenSeparator := false

	err := executor.Run(ctx, binary, []string{"-hide_banner", "-muxers"}, func(line string) {
		trimmed := strings.TrimSpace(line)
		if !seenSeparator {
			if strings.HasPrefix(trimmed, "---") {
				seenSeparator = true
			}
			return
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			return
		}
		// First field is the capability flag column (E).
		for _, name := range strings.Split(fields[1], ",") {
			if name = strings.TrimSpace(name); name != "" {
				muxers[strings.ToLower(name)] = struct{}{}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return muxers, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	// stdout and stderr are scanned concurrently; serialize delivery so
	// callbacks may keep unsynchronized state.
	var wg sync.WaitGroup
	var forwardMu sync.Mutex
	forward := func(line string) {
		forwardMu.Lock()
		defer forwardMu.Unlock()
		if onLine != nil {
			onLine(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}
