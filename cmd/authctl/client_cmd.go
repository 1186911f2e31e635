package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

func newClientCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage OAuth clients",
	}
	cmd.AddCommand(newClientAddCommand(a))
	return cmd
}

func newClientAddCommand(a *app) *cobra.Command {
	var id, secret string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a client id and secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, secret = strings.TrimSpace(id), strings.TrimSpace(secret)
			if id == "" || secret == "" {
				return fmt.Errorf("--id and --secret are required")
			}

			ctx := cmd.Context()
			store, cleanup, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.CreateClient(ctx, domain.Client{ClientID: id, ClientSecret: secret}); err != nil {
				return err
			}
			a.log.Info().Str("client_id", id).Msg("client created")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "client %s created\n", id)
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "client id")
	cmd.Flags().StringVar(&secret, "secret", "", "client secret")
	return cmd
}
