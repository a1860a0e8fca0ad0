package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/spf13/cobra"
)

var errBadCredentials = errors.New("invalid credentials")

func NewAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator credentials",
	}
	cmd.AddCommand(newAdminAddCommand())
	cmd.AddCommand(newAdminPasswdCommand())
	cmd.AddCommand(newAdminVerifyCommand())
	cmd.AddCommand(newAdminLoginCommand())
	cmd.AddCommand(newAdminListCommand())
	cmd.AddCommand(newAdminRemoveCommand())
	return cmd
}

func newAdminAddCommand() *cobra.Command {
	var isRoot bool
	var perms []string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetNewPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				a, err := app.Admins.AddCredential(ctx, args[0], password, isRoot, perms)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "admin %s created (id %d)\n", a.UserName, a.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&isRoot, "root", false, "grant every permission")
	cmd.Flags().StringSliceVarP(&perms, "perm", "p", nil, "permission to grant (repeatable)")
	return cmd
}

func newAdminPasswdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change an administrator password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetNewPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				if err := app.Admins.ChangePassword(ctx, args[0], password); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "password changed\n")
				return nil
			})
		},
	}
}

func newAdminVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <username>",
		Short: "Check a password without issuing a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetPassword(cmd.ErrOrStderr(), "Password")
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				ok, err := app.Admins.Verify(ctx, args[0], password)
				if err != nil {
					return err
				}
				if !ok {
					return errBadCredentials
				}
				printf(cmd.OutOrStdout(), "ok\n")
				return nil
			})
		},
	}
}

func newAdminLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Print a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetPassword(cmd.ErrOrStderr(), "Password")
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				token, err := app.Admins.Login(ctx, args[0], password)
				if errors.Is(err, common.ErrorUnauthorized) {
					return errBadCredentials
				}
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s\n", token)
				return nil
			})
		},
	}
}

func newAdminListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List administrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				list, err := app.Admins.ListAdmins(ctx)
				if err != nil {
					return err
				}
				for _, a := range list {
					role := strings.Join(a.Permissions, ",")
					if a.IsRoot {
						role = "root"
					}
					printf(cmd.OutOrStdout(), "%s\t%s\n", a.UserName, role)
				}
				return nil
			})
		},
	}
}

func newAdminRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <username>",
		Short: "Delete an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				return app.Admins.RemoveAdmin(ctx, args[0])
			})
		},
	}
}
