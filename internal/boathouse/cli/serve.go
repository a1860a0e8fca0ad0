package cli

import (
	"context"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the partition sweep and the metrics endpoint until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				app.Run(ctx)
				return nil
			})
		},
	}
}
