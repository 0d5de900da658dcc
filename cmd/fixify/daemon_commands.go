package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fixify/internal/daemonctl"
	"fixify/internal/daemonrun"
	"fixify/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the fixify daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonctl.ResolveDaemonExecutable()
			if err != nil {
				return err
			}

			launched, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if launched {
				fmt.Fprintln(stdout, "Daemon started")
			} else {
				fmt.Fprintln(stdout, "Daemon already running")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the fixify daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(
				ctx.socketPath(),
				daemonPIDPath(ctx),
				daemonLockPath(ctx),
				5*time.Second,
			)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the fixify daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonctl.ResolveDaemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.StopAndTerminate(
				ctx.socketPath(),
				daemonPIDPath(ctx),
				daemonLockPath(ctx),
				5*time.Second,
			)
			if err != nil && !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				return err
			}
			if err == nil {
				if result.ForcedKill && result.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}

			if _, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon restarted")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, capture, and report status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			running, _, err := daemonctl.ProcessInfo(ctx.socketPath())
			if err != nil {
				return err
			}
			if !running {
				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "not running (start with `fixify start`)", colorize))
				return nil
			}

			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize))
				session := "signed out"
				sessionKind := statusInfo
				if status.SessionEmail != "" {
					session = status.SessionEmail
					sessionKind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine("Session", sessionKind, session, colorize))
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Capture", colorize) {
					fmt.Fprintln(stdout, line)
				}
				for _, line := range captureLines(status.Capture, colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(stdout, line)
				}
				for _, line := range dependencyLines(status.Dependencies, colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Reports", colorize) {
					fmt.Fprintln(stdout, line)
				}
				rows := buildReportStatRows(status.ReportStats)
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "No reports this session")
					return nil
				}
				fmt.Fprintln(stdout, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func captureLines(snapshot ipc.CaptureSnapshot, colorize bool) []string {
	lines := []string{
		renderStatusLine("State", statusInfo, displayStatus(snapshot.State), colorize),
	}
	if snapshot.Device != "" {
		device := snapshot.Device
		if snapshot.DeviceName != "" {
			device = fmt.Sprintf("%s (%s)", snapshot.DeviceName, snapshot.Device)
		}
		lines = append(lines, renderStatusLine("Camera", statusOK, device, colorize))
	}
	if snapshot.ClipPath != "" {
		detail := fmt.Sprintf("%s (%.2f MB, %s)", snapshot.ClipPath, snapshot.ClipSizeMB, snapshot.ContentType)
		lines = append(lines, renderStatusLine("Clip", statusOK, detail, colorize))
	}
	return lines
}

func dependencyLines(deps []ipc.DependencyStatus, colorize bool) []string {
	lines := make([]string, 0, len(deps)+1)
	missing := make([]string, 0)
	for _, dep := range deps {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

func buildReportStatRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{displayStatus(key), strconv.Itoa(stats[key])})
	}
	return rows
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			opts.SocketPath = socket
		}
	}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}

func daemonPIDPath(ctx *commandContext) string {
	cfg := ctx.configValue()
	if cfg == nil {
		return ""
	}
	return daemonrun.PIDFilePath(cfg)
}

func daemonLockPath(ctx *commandContext) string {
	cfg := ctx.configValue()
	if cfg == nil {
		return ""
	}
	return filepath.Join(cfg.Paths.LogDir, "fixifyd.lock")
}
