// Package outings stores outing records in the year partitions: it encodes
// records to the flat column layout, federates date-range queries across
// partitions and rewrites member/boat references in place.
package outings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/timex"
)

// MemberLookup resolves member references to display data.
type MemberLookup interface {
	GetMember(ctx context.Context, id int64) (*models.Member, error)
}

// BoatLookup resolves boat references to display data.
type BoatLookup interface {
	GetBoat(ctx context.Context, id int64) (*models.Boat, error)
}

// Row is the flat column layout of one outing, in partitions.Columns order.
// An empty seat is an invalid NullInt64, so member id 0 stays a real
// reference.
type Row struct {
	ID          string
	Day         string
	Rowers      [models.SeatCount]sql.NullInt64
	Cox         sql.NullInt64
	TimeOut     string
	TimeIn      sql.NullString
	Comment     string
	Destination string
	Boat        int64
	Distance    int64
}

// Args returns the row values in column order.
func (r *Row) Args() []any {
	args := []any{r.ID, r.Day}
	for _, v := range r.Rowers {
		args = append(args, v)
	}
	return append(args, r.Cox, r.TimeOut, r.TimeIn, r.Comment, r.Destination, r.Boat, r.Distance)
}

// UpdateArgs returns the values for the partition UPDATE statement: every
// column but id, then id.
func (r *Row) UpdateArgs() []any {
	args := r.Args()
	return append(args[1:], r.ID)
}

func (r *Row) dest() []any {
	dest := []any{&r.ID, &r.Day}
	for i := range r.Rowers {
		dest = append(dest, &r.Rowers[i])
	}
	return append(dest, &r.Cox, &r.TimeOut, &r.TimeIn, &r.Comment, &r.Destination, &r.Boat, &r.Distance)
}

type scanner interface {
	Scan(dest ...any) error
}

// ScanRow scans one partition row.
func ScanRow(s scanner) (Row, error) {
	var r Row
	err := s.Scan(r.dest()...)
	return r, err
}

// ScanRows drains rows and closes them. Rows are read completely before any
// reference is resolved so no cursor stays open during lookups.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Codec converts between models.Outing and Row.
type Codec struct {
	members MemberLookup
	boats   BoatLookup
}

func NewCodec(members MemberLookup, boats BoatLookup) *Codec {
	return &Codec{members: members, boats: boats}
}

// Validate checks the mandatory fields of an outing.
func Validate(o *models.Outing) error {
	switch {
	case o == nil:
		return common.InvalidArgument("outing is nil")
	case o.Day.IsZero():
		return common.InvalidArgument("outing day is not set")
	case o.Seats[0] == nil:
		return common.InvalidArgument("seat 1 is empty")
	case o.Boat == nil:
		return common.InvalidArgument("boat is not set")
	case !o.TimeOut.Valid():
		return common.InvalidArgument("time out %s is invalid", o.TimeOut)
	case o.TimeIn != nil && !o.TimeIn.Valid():
		return common.InvalidArgument("time in %s is invalid", o.TimeIn)
	case o.Distance < 0:
		return common.InvalidArgument("distance %d is negative", o.Distance)
	}
	return nil
}

// Encode flattens o. It fails with common.ErrInvalidArgument when a
// mandatory field is missing.
func (c *Codec) Encode(o *models.Outing) (*Row, error) {
	if err := Validate(o); err != nil {
		return nil, err
	}

	r := &Row{
		ID:          o.ID,
		Day:         timex.FormatDate(o.Day),
		Cox:         memberRef(o.Cox),
		TimeOut:     o.TimeOut.String(),
		Comment:     o.Comment,
		Destination: o.Destination,
		Boat:        o.Boat.ID,
		Distance:    int64(o.Distance),
	}
	for i, m := range o.Seats {
		r.Rowers[i] = memberRef(m)
	}
	if o.TimeIn != nil {
		r.TimeIn = sql.NullString{String: o.TimeIn.String(), Valid: true}
	}
	return r, nil
}

func memberRef(m *models.Member) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: m.ID, Valid: true}
}

// Decode rebuilds outings from rows, resolving every distinct member and
// boat reference once per call.
func (c *Codec) Decode(ctx context.Context, rows []Row) ([]*models.Outing, error) {
	res := newResolver(c.members, c.boats)

	out := make([]*models.Outing, 0, len(rows))
	for i := range rows {
		o, err := c.decodeRow(ctx, res, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (c *Codec) decodeRow(ctx context.Context, res *resolver, r *Row) (*models.Outing, error) {
	day, err := timex.ParseDate(r.Day)
	if err != nil {
		return nil, fmt.Errorf("outing %s: %w", r.ID, err)
	}
	timeOut, err := timex.ParseTimeOfDay(r.TimeOut)
	if err != nil {
		return nil, fmt.Errorf("outing %s: %w", r.ID, err)
	}

	o := &models.Outing{
		ID:          r.ID,
		Day:         day,
		TimeOut:     timeOut,
		Comment:     r.Comment,
		Destination: r.Destination,
		Distance:    int(r.Distance),
	}
	if r.TimeIn.Valid {
		tin, err := timex.ParseTimeOfDay(r.TimeIn.String)
		if err != nil {
			return nil, fmt.Errorf("outing %s: %w", r.ID, err)
		}
		o.TimeIn = &tin
	}

	for i, ref := range r.Rowers {
		if !ref.Valid {
			continue
		}
		if o.Seats[i], err = res.member(ctx, ref.Int64); err != nil {
			return nil, err
		}
	}
	if r.Cox.Valid {
		if o.Cox, err = res.member(ctx, r.Cox.Int64); err != nil {
			return nil, err
		}
	}
	if o.Boat, err = res.boat(ctx, r.Boat); err != nil {
		return nil, err
	}
	return o, nil
}

// resolver memoizes lookups for one decode batch. Unknown references decode
// to a placeholder carrying only the id so history stays visible.
type resolver struct {
	members     MemberLookup
	boats       BoatLookup
	memberCache map[int64]*models.Member
	boatCache   map[int64]*models.Boat
}

func newResolver(members MemberLookup, boats BoatLookup) *resolver {
	return &resolver{
		members:     members,
		boats:       boats,
		memberCache: make(map[int64]*models.Member),
		boatCache:   make(map[int64]*models.Boat),
	}
}

func (r *resolver) member(ctx context.Context, id int64) (*models.Member, error) {
	if m, ok := r.memberCache[id]; ok {
		return m, nil
	}
	m, err := r.members.GetMember(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("resolve member %d: %w", id, err)
		}
		m = &models.Member{ID: id}
	}
	r.memberCache[id] = m
	return m, nil
}

func (r *resolver) boat(ctx context.Context, id int64) (*models.Boat, error) {
	if b, ok := r.boatCache[id]; ok {
		return b, nil
	}
	b, err := r.boats.GetBoat(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("resolve boat %d: %w", id, err)
		}
		b = &models.Boat{ID: id}
	}
	r.boatCache[id] = b
	return b, nil
}
