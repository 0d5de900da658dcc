package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixify/internal/ipc"
)

func newReportsCommand(ctx *commandContext) *cobra.Command {
	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "Session report management",
	}

	reportsCmd.AddCommand(newReportsListCommand(ctx))
	reportsCmd.AddCommand(newReportsShowCommand(ctx))

	return reportsCmd
}

func newReportsListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ReportList(statuses)
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Reports) == 0 {
					fmt.Fprintln(stdout, "No reports this session")
					return nil
				}

				rows := make([][]string, 0, len(resp.Reports))
				for _, report := range resp.Reports {
					rows = append(rows, []string{
						report.ID,
						displayStatus(report.Status),
						truncateText(report.Description, 48),
						formatSizeMB(report.VideoSizeMB),
						report.SubmittedAt,
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Status", "Description", "Size", "Submitted"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (pending, reviewing, completed)")
	return cmd
}

func newReportsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show a single report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ReportDescribe(args[0])
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)
				report := resp.Report

				for _, line := range renderSectionHeader(fmt.Sprintf("Report %s", report.ID), colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Status", reportStatusKind(report.Status), displayStatus(report.Status), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Description", statusInfo, report.Description, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Submitted", statusInfo, report.SubmittedAt, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Video size", statusInfo, formatSizeMB(report.VideoSizeMB), colorize))
				if report.Analysis != "" {
					fmt.Fprintln(stdout, renderStatusLine("Analysis", statusOK, report.Analysis, colorize))
				}
				if report.AnalysisDate != "" {
					fmt.Fprintln(stdout, renderStatusLine("Analyzed", statusInfo, report.AnalysisDate, colorize))
				}
				if report.StatusDetail != "" {
					fmt.Fprintln(stdout, renderStatusLine("Detail", statusWarn, report.StatusDetail, colorize))
				}
				return nil
			})
		},
	}
}

func reportStatusKind(status string) statusKind {
	switch status {
	case "completed":
		return statusOK
	case "reviewing":
		return statusWarn
	default:
		return statusInfo
	}
}
