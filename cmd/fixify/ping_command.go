package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixify/internal/ipc"
)

func newPingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Probe the analysis service end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestConnection()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Reachable {
					fmt.Fprintln(stdout, "Analysis service reachable")
					return nil
				}
				fmt.Fprintln(stdout, "Analysis service unreachable; check the configured base URL and network")
				return nil
			})
		},
	}
}
