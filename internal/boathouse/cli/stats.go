package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/spf13/cobra"
)

func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Distance and outing totals",
	}
	cmd.AddCommand(newStatsMembersCommand())
	cmd.AddCommand(newStatsBoatsCommand())
	return cmd
}

func newStatsMembersCommand() *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "members",
		Short: "Totals per member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := rf.query(cmd.Flags(), time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				list, err := app.Statistics.MemberStatistics(ctx, q)
				if err != nil {
					return err
				}
				for _, s := range list {
					printf(cmd.OutOrStdout(), "%s\t%d\t%dkm\n", s.DisplayName(), s.Outings, s.Distance)
				}
				return nil
			})
		},
	}
	rf.register(cmd.Flags())
	return cmd
}

func newStatsBoatsCommand() *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "boats",
		Short: "Totals per boat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := rf.query(cmd.Flags(), time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				list, err := app.Statistics.BoatStatistics(ctx, q)
				if err != nil {
					return err
				}
				for _, s := range list {
					printf(cmd.OutOrStdout(), "%s\t%d\t%dkm\n", s.DisplayName(), s.Outings, s.Distance)
				}
				return nil
			})
		},
	}
	rf.register(cmd.Flags())
	return cmd
}
