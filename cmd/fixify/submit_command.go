package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fixify/internal/ipc"
	"fixify/internal/reports"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <description>",
		Short: "Submit the captured clip and description for analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(strings.Join(args, " "))
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Submit(description)
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				report := resp.Report
				switch report.Status {
				case string(reports.StatusCompleted):
					fmt.Fprintf(stdout, "Report %s completed\n", report.ID)
					if report.Analysis != "" {
						fmt.Fprintf(stdout, "Analysis: %s\n", report.Analysis)
					}
				case string(reports.StatusReviewing):
					fmt.Fprintf(stdout, "Report %s needs review\n", report.ID)
					if report.StatusDetail != "" {
						fmt.Fprintln(stdout, report.StatusDetail)
					}
					fmt.Fprintln(stdout, "Your clip was kept; resolve the issue and submit again.")
				default:
					fmt.Fprintf(stdout, "Report %s is %s\n", report.ID, displayStatus(report.Status))
				}
				if strings.TrimSpace(resp.Message) != "" {
					fmt.Fprintln(stdout, resp.Message)
				}
				return nil
			})
		},
	}
}
