package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/core/service"
)

const passwordEnv = "AUTHCTL_PASSWORD"

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCommand(a))
	return cmd
}

func newUserAddCommand(a *app) *cobra.Command {
	var in ports.RegisterUserInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user with any role",
		Long:  "Create a user with any role. The password comes from --password or the " + passwordEnv + " environment variable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv(passwordEnv)
			}

			ctx := cmd.Context()
			store, cleanup, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := service.NewUserService(store, a.hasher, a.log).Register(ctx, in)
			var violations domain.Violations
			switch {
			case errors.As(err, &violations):
				for _, v := range violations {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", v.Field, v.Message)
				}
				return fmt.Errorf("user %q is invalid", in.Username)
			case err != nil:
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "user %s created with role %s\n", user.Username, user.Role)
			return err
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "login name, stored lower-cased")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Role, "role", string(domain.RoleUser), "User, Developer or Admin")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prefer "+passwordEnv+")")
	return cmd
}
