package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixify/internal/ipc"
)

func newSignInCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "signin <email>",
		Short: "Sign in to the current session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SignIn(args[0], password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", resp.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func newSignOutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out of the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.SignOut(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}
