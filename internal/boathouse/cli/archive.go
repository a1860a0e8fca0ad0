package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/spf13/cobra"
)

func NewArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <year>",
		Short: "Upload a JSON export of one year's outings to S3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return common.InvalidArgument("year %q: %v", args[0], err)
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				key, n, err := app.Archive.ArchiveYear(ctx, year)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%d outings archived to %s\n", n, key)
				return nil
			})
		},
	}
}
