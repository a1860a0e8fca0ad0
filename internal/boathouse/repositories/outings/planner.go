package outings

import (
	"context"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/partitions"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/timex"
)

// Query is a date-range read with optional member and boat filters.
// From and To are inclusive calendar dates.
type Query struct {
	From     time.Time
	To       time.Time
	MemberID *int64
	BoatID   *int64
}

func (q Query) filter() partitions.Filter {
	return partitions.Filter{MemberID: q.MemberID, BoatID: q.BoatID}
}

// SubRange is the part of a query that falls into one partition.
type SubRange struct {
	Year int
	From time.Time
	To   time.Time
}

// Plan splits [from, to] into one clipped sub-range per existing partition
// year, ascending. Years without a partition are skipped; to before from
// yields no sub-ranges.
func Plan(from, to time.Time, existing []int) []SubRange {
	from, to = timex.Date(from), timex.Date(to)

	have := make(map[int]struct{}, len(existing))
	for _, y := range existing {
		have[y] = struct{}{}
	}

	var plan []SubRange
	for _, year := range timex.YearsBetween(from, to) {
		if _, ok := have[year]; !ok {
			continue
		}
		start, end := timex.ClipToYear(from, to, year)
		plan = append(plan, SubRange{Year: year, From: start, To: end})
	}
	return plan
}

// Planner federates range queries over the year partitions.
type Planner struct {
	registry *partitions.Registry
	cache    *partitions.Cache
	codec    *Codec
}

func NewPlanner(registry *partitions.Registry, cache *partitions.Cache, codec *Codec) *Planner {
	return &Planner{registry: registry, cache: cache, codec: codec}
}

// Query runs q against every partition it intersects and concatenates the
// results in year order. Partitions are disjoint and each sub-query is
// ordered by (day, time_out), so the concatenation is fully ordered.
func (p *Planner) Query(ctx context.Context, q Query) ([]*models.Outing, error) {
	// Bounds are calendar dates; clock times must not reverse a same-day range.
	if timex.Date(q.To).Before(timex.Date(q.From)) {
		return []*models.Outing{}, nil
	}

	years, err := p.registry.ListPartitionYears(ctx)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for _, sub := range Plan(q.From, q.To, years) {
		part, err := p.querySubRange(ctx, sub, q.filter())
		if err != nil {
			return nil, err
		}
		rows = append(rows, part...)
	}
	return p.codec.Decode(ctx, rows)
}

func (p *Planner) querySubRange(ctx context.Context, sub SubRange, f partitions.Filter) ([]Row, error) {
	stmts, release, err := p.cache.Acquire(ctx, sub.Year)
	if err != nil {
		return nil, err
	}
	defer release()

	args := partitions.RangeArgs(timex.FormatDate(sub.From), timex.FormatDate(sub.To), f)
	rows, err := stmts.Range(f.Variant()).QueryContext(ctx, args...)
	if err != nil {
		return nil, common.NewStorageError("query "+stmts.Table, err)
	}
	out, err := ScanRows(rows)
	if err != nil {
		return nil, common.NewStorageError("scan "+stmts.Table, err)
	}
	return out, nil
}
