package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixify/internal/ipc"
)

func newCameraCommand(ctx *commandContext) *cobra.Command {
	cameraCmd := &cobra.Command{
		Use:   "camera",
		Short: "Camera preview management",
	}

	cameraCmd.AddCommand(&cobra.Command{
		Use:   "acquire",
		Short: "Open the configured camera for previewing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.AcquireCamera()
				if err != nil {
					return err
				}
				printCaptureState(cmd, resp.Capture)
				return nil
			})
		},
	})

	return cameraCmd
}

func newRecordCommand(ctx *commandContext) *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Video recording controls",
	}

	recordCmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start recording from the active preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecordStart()
				if err != nil {
					return err
				}
				printCaptureState(cmd, resp.Capture)
				return nil
			})
		},
	})

	recordCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop recording and keep the clip for submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecordStop()
				if err != nil {
					return err
				}
				printCaptureState(cmd, resp.Capture)
				if resp.Capture.ClipPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Clip ready: %s (%s, %s)\n",
						resp.Capture.ClipPath,
						formatSizeMB(resp.Capture.ClipSizeMB),
						resp.Capture.ContentType)
				}
				return nil
			})
		},
	})

	recordCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Discard the current recording and return to preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ResetCapture()
				if err != nil {
					return err
				}
				printCaptureState(cmd, resp.Capture)
				return nil
			})
		},
	})

	return recordCmd
}

func printCaptureState(cmd *cobra.Command, snapshot ipc.CaptureSnapshot) {
	stdout := cmd.OutOrStdout()
	if snapshot.DeviceName != "" {
		fmt.Fprintf(stdout, "Capture state: %s (%s)\n", displayStatus(snapshot.State), snapshot.DeviceName)
		return
	}
	fmt.Fprintf(stdout, "Capture state: %s\n", displayStatus(snapshot.State))
}
