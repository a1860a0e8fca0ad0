// Package cli implements the boathouse command line: the serve loop plus
// administrative commands run directly against the database.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "boathouse",
		Short:         "Rowing club outing book",
		Long:          "Keeps the club's outings, members, boats and administrators in a local SQLite database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewAdminCommand())
	cmd.AddCommand(NewOutingsCommand())
	cmd.AddCommand(NewMembersCommand())
	cmd.AddCommand(NewBoatsCommand())
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewArchiveCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// withApp loads the configuration from cmd's flags, opens the app, runs fn
// and closes the app.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *boathouse.App) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	app, err := boathouse.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn(ctx, "closing app", "error", err)
		}
	}()

	return fn(ctx, app)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
