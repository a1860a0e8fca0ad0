package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewOutingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outings",
		Short: "Record and list outings",
	}
	cmd.AddCommand(newOutingsListCommand())
	cmd.AddCommand(newOutingsAddCommand())
	cmd.AddCommand(newOutingsRemoveCommand())
	return cmd
}

// rangeFlags are the --from/--to/--member/--boat filters shared by the
// listing and statistics commands.
type rangeFlags struct {
	from, to string
	member   int64
	boat     int64
}

func (r *rangeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&r.from, "from", "", "first day, YYYY-MM-DD (default: January 1st of this year)")
	fs.StringVar(&r.to, "to", "", "last day, YYYY-MM-DD (default: today)")
	fs.Int64Var(&r.member, "member", -1, "only outings this member rowed or coxed")
	fs.Int64Var(&r.boat, "boat", -1, "only outings in this boat")
}

func (r *rangeFlags) query(fs *pflag.FlagSet, now time.Time) (outings.Query, error) {
	q := outings.Query{From: timex.YearStart(now.Year()), To: timex.Date(now)}

	var err error
	if r.from != "" {
		if q.From, err = timex.ParseDate(r.from); err != nil {
			return q, common.InvalidArgument("from: %v", err)
		}
	}
	if r.to != "" {
		if q.To, err = timex.ParseDate(r.to); err != nil {
			return q, common.InvalidArgument("to: %v", err)
		}
	}
	// Member id 0 is a real member, so presence is decided by the flag.
	if fs.Changed("member") {
		id := r.member
		q.MemberID = &id
	}
	if fs.Changed("boat") {
		id := r.boat
		q.BoatID = &id
	}
	return q, nil
}

func newOutingsListCommand() *cobra.Command {
	var rf rangeFlags
	var day string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List outings of a day or a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				var list []*models.Outing
				if day != "" {
					d, err := timex.ParseDate(day)
					if err != nil {
						return common.InvalidArgument("day: %v", err)
					}
					if list, err = app.Outings.GetOutingsByDay(ctx, d); err != nil {
						return err
					}
				} else {
					q, err := rf.query(cmd.Flags(), time.Now())
					if err != nil {
						return err
					}
					if list, err = app.Outings.GetOutings(ctx, q); err != nil {
						return err
					}
				}
				for _, o := range list {
					printf(cmd.OutOrStdout(), "%s\n", formatOuting(o))
				}
				return nil
			})
		},
	}
	rf.register(cmd.Flags())
	cmd.Flags().StringVar(&day, "day", "", "list a single day, YYYY-MM-DD")
	return cmd
}

func formatOuting(o *models.Outing) string {
	var crew []string
	for _, s := range o.Seats {
		if s != nil {
			crew = append(crew, s.DisplayName())
		}
	}
	if o.Cox != nil {
		crew = append(crew, "cox "+o.Cox.DisplayName())
	}

	timeIn := "--:--"
	if o.TimeIn != nil {
		timeIn = o.TimeIn.String()
	}

	return fmt.Sprintf("%s %s-%s\t%s\t%s\t%dkm\t%s\t%s",
		timex.FormatDate(o.Day), o.TimeOut, timeIn, o.Boat.DisplayName(),
		strings.Join(crew, ", "), o.Distance, o.Destination, o.ID)
}

func newOutingsAddCommand() *cobra.Command {
	var (
		day, timeOut, timeIn string
		destination, comment string
		boatID, coxID        int64
		seats                []int64
		distance             int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an outing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seats) > models.SeatCount {
				return common.InvalidArgument("at most %d seats", models.SeatCount)
			}
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				o := &models.Outing{Destination: destination, Comment: comment, Distance: distance}

				var err error
				if o.Day, err = timex.ParseDate(day); err != nil {
					return common.InvalidArgument("day: %v", err)
				}
				if o.TimeOut, err = timex.ParseTimeOfDay(timeOut); err != nil {
					return common.InvalidArgument("out: %v", err)
				}
				if timeIn != "" {
					tin, err := timex.ParseTimeOfDay(timeIn)
					if err != nil {
						return common.InvalidArgument("in: %v", err)
					}
					o.TimeIn = &tin
				}
				if o.Boat, err = app.Boats.GetBoat(ctx, boatID); err != nil {
					return fmt.Errorf("boat %d: %w", boatID, err)
				}
				for i, id := range seats {
					if o.Seats[i], err = app.Members.GetMember(ctx, id); err != nil {
						return fmt.Errorf("member %d: %w", id, err)
					}
				}
				if cmd.Flags().Changed("cox") {
					if o.Cox, err = app.Members.GetMember(ctx, coxID); err != nil {
						return fmt.Errorf("cox %d: %w", coxID, err)
					}
				}

				id, err := app.Outings.AddOuting(ctx, o)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s\n", id)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&day, "day", "", "day of the outing, YYYY-MM-DD")
	fs.StringVar(&timeOut, "out", "", "time out, HH:MM")
	fs.StringVar(&timeIn, "in", "", "time in, HH:MM")
	fs.Int64Var(&boatID, "boat", 0, "boat id")
	fs.Int64SliceVar(&seats, "seat", nil, "rower member id in seat order (repeatable)")
	fs.Int64Var(&coxID, "cox", 0, "cox member id")
	fs.IntVar(&distance, "distance", 0, "distance in km")
	fs.StringVar(&destination, "destination", "", "destination")
	fs.StringVar(&comment, "comment", "", "comment")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("boat")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}

func newOutingsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an outing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *boathouse.App) error {
				o, err := app.Outings.GetOuting(ctx, args[0])
				if err != nil {
					return err
				}
				return app.Outings.RemoveOuting(ctx, o)
			})
		},
	}
}
