package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, common.InvalidArgument("id %q: %v", s, err)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func NewMembersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage club members",
	}
	cmd.AddCommand(newMembersAddCommand())
	cmd.AddCommand(newMembersListCommand())
	cmd.AddCommand(newMembersReplaceCommand())
	cmd.AddCommand(newMembersDeleteCommand())
	return cmd
}

func newMembersAddCommand() *cobra.Command {
	var m models.Member

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				created, err := app.Members.AddMember(ctx, &m)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%d\n", created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&m.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&m.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&m.Group, "group", "", "training group")
	return cmd
}

func newMembersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				list, err := app.Members.ListMembers(ctx)
				if err != nil {
					return err
				}
				for _, m := range list {
					printf(cmd.OutOrStdout(), "%d\t%s\t%s\n", m.ID, m.DisplayName(), m.Group)
				}
				return nil
			})
		},
	}
}

func newMembersReplaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <old-id> <new-id>",
		Short: "Rewrite every outing reference of a member to another member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				n, err := app.Outings.ReplaceMember(ctx, ids[0], ids[1])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%d outings updated\n", n)
				return nil
			})
		},
	}
}

func newMembersDeleteCommand() *cobra.Command {
	var substitute int64

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member, handing their outings to a substitute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				n, err := app.Members.DeleteMember(ctx, id, substitute)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "member %d deleted, %d outings reassigned\n", id, n)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&substitute, "substitute", 0, "member id that takes over the outings")
	_ = cmd.MarkFlagRequired("substitute")
	return cmd
}

func NewBoatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boats",
		Short: "Manage the fleet",
	}
	cmd.AddCommand(newBoatsAddCommand())
	cmd.AddCommand(newBoatsListCommand())
	cmd.AddCommand(newBoatsReplaceCommand())
	cmd.AddCommand(newBoatsDeleteCommand())
	return cmd
}

func newBoatsAddCommand() *cobra.Command {
	var b models.Boat

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a boat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b.Name = args[0]
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				created, err := app.Boats.AddBoat(ctx, &b)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%d\n", created.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&b.Seats, "seats", 1, "number of rower seats")
	cmd.Flags().BoolVar(&b.Coxed, "coxed", false, "boat carries a cox")
	return cmd
}

func newBoatsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				list, err := app.Boats.ListBoats(ctx)
				if err != nil {
					return err
				}
				for _, b := range list {
					cox := ""
					if b.Coxed {
						cox = "+"
					}
					printf(cmd.OutOrStdout(), "%d\t%s\t%d%s\n", b.ID, b.Name, b.Seats, cox)
				}
				return nil
			})
		},
	}
}

func newBoatsReplaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <old-id> <new-id>",
		Short: "Rewrite every outing reference of a boat to another boat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				n, err := app.Outings.ReplaceBoat(ctx, ids[0], ids[1])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%d outings updated\n", n)
				return nil
			})
		},
	}
}

func newBoatsDeleteCommand() *cobra.Command {
	var substitute int64

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a boat, handing its outings to a substitute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				n, err := app.Boats.DeleteBoat(ctx, id, substitute)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "boat %d deleted, %d outings reassigned\n", id, n)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&substitute, "substitute", 0, "boat id that takes over the outings")
	_ = cmd.MarkFlagRequired("substitute")
	return cmd
}
