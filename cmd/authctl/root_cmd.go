package main

import "github.com/spf13/cobra"

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Provision auth server clients and users",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newClientCommand(a),
		newUserCommand(a),
	)
	return cmd
}
