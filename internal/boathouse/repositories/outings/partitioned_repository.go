package outings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/partitions"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/timex"
)

// PartitionedRepository implements Repository over yearly partitions.
// Writes create the target partition on demand; reads of a year without a
// partition return no rows and leave the schema untouched.
type PartitionedRepository struct {
	registry *partitions.Registry
	cache    *partitions.Cache
	codec    *Codec
	planner  *Planner
}

func NewPartitionedRepository(registry *partitions.Registry, cache *partitions.Cache, codec *Codec) *PartitionedRepository {
	return &PartitionedRepository{
		registry: registry,
		cache:    cache,
		codec:    codec,
		planner:  NewPlanner(registry, cache, codec),
	}
}

func (r *PartitionedRepository) Insert(ctx context.Context, o *models.Outing) error {
	row, err := r.codec.Encode(o)
	if err != nil {
		return err
	}
	if row.ID == "" {
		return common.InvalidArgument("outing id is empty")
	}

	stmts, release, err := r.cache.Acquire(ctx, o.Year())
	if err != nil {
		return err
	}
	defer release()

	if _, err := stmts.Insert.ExecContext(ctx, row.Args()...); err != nil {
		return common.NewStorageError("insert into "+stmts.Table, err)
	}
	return nil
}

// Update rewrites the outing in the partition of o.Day and returns the
// number of rows affected; zero means the id is not stored in that year.
func (r *PartitionedRepository) Update(ctx context.Context, o *models.Outing) (int64, error) {
	row, err := r.codec.Encode(o)
	if err != nil {
		return 0, err
	}

	exists, err := r.registry.HasPartition(ctx, o.Year())
	if err != nil || !exists {
		return 0, err
	}

	stmts, release, err := r.cache.Acquire(ctx, o.Year())
	if err != nil {
		return 0, err
	}
	defer release()

	res, err := stmts.Update.ExecContext(ctx, row.UpdateArgs()...)
	if err != nil {
		return 0, common.NewStorageError("update "+stmts.Table, err)
	}
	return rowsAffected(res, "update "+stmts.Table)
}

func (r *PartitionedRepository) Delete(ctx context.Context, year int, id string) (int64, error) {
	exists, err := r.registry.HasPartition(ctx, year)
	if err != nil || !exists {
		return 0, err
	}

	stmts, release, err := r.cache.Acquire(ctx, year)
	if err != nil {
		return 0, err
	}
	defer release()

	res, err := stmts.Delete.ExecContext(ctx, id)
	if err != nil {
		return 0, common.NewStorageError("delete from "+stmts.Table, err)
	}
	return rowsAffected(res, "delete from "+stmts.Table)
}

// GetByID searches every partition, newest first, for id.
func (r *PartitionedRepository) GetByID(ctx context.Context, id string) (*models.Outing, error) {
	years, err := r.registry.ListPartitionYears(ctx)
	if err != nil {
		return nil, err
	}

	for i := len(years) - 1; i >= 0; i-- {
		row, found, err := r.selectByID(ctx, years[i], id)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		decoded, err := r.codec.Decode(ctx, []Row{row})
		if err != nil {
			return nil, err
		}
		return decoded[0], nil
	}
	return nil, common.ErrorNotFound
}

func (r *PartitionedRepository) selectByID(ctx context.Context, year int, id string) (Row, bool, error) {
	stmts, release, err := r.cache.Acquire(ctx, year)
	if err != nil {
		return Row{}, false, err
	}
	defer release()

	row, err := ScanRow(stmts.SelectByID.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Row{}, false, nil
		}
		return Row{}, false, common.NewStorageError("select from "+stmts.Table, err)
	}
	return row, true, nil
}

// GetByDay returns the outings of one calendar day ordered by time out.
func (r *PartitionedRepository) GetByDay(ctx context.Context, day time.Time) ([]*models.Outing, error) {
	exists, err := r.registry.HasPartition(ctx, day.Year())
	if err != nil {
		return nil, err
	}
	if !exists {
		return []*models.Outing{}, nil
	}

	stmts, release, err := r.cache.Acquire(ctx, day.Year())
	if err != nil {
		return nil, err
	}

	rows, err := stmts.SelectDay.QueryContext(ctx, timex.FormatDate(day))
	if err != nil {
		release()
		return nil, common.NewStorageError("select from "+stmts.Table, err)
	}
	raw, err := ScanRows(rows)
	release()
	if err != nil {
		return nil, common.NewStorageError("scan "+stmts.Table, err)
	}
	return r.codec.Decode(ctx, raw)
}

func (r *PartitionedRepository) Query(ctx context.Context, q Query) ([]*models.Outing, error) {
	return r.planner.Query(ctx, q)
}

// ReplaceMember rewrites every seat and cox reference to oldID into newID in
// every partition. Each partition is updated independently.
func (r *PartitionedRepository) ReplaceMember(ctx context.Context, oldID, newID int64) (int64, error) {
	return r.replaceEverywhere(ctx, func(s *partitions.Statements) *sql.Stmt { return s.ReplaceMember },
		partitions.ReplaceMemberArgs(oldID, newID))
}

// ReplaceBoat rewrites every boat reference to oldID into newID in every
// partition.
func (r *PartitionedRepository) ReplaceBoat(ctx context.Context, oldID, newID int64) (int64, error) {
	return r.replaceEverywhere(ctx, func(s *partitions.Statements) *sql.Stmt { return s.ReplaceBoat },
		[]any{newID, oldID})
}

func (r *PartitionedRepository) replaceEverywhere(ctx context.Context, pick func(*partitions.Statements) *sql.Stmt, args []any) (int64, error) {
	years, err := r.registry.ListPartitionYears(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, year := range years {
		n, err := r.replaceIn(ctx, year, pick, args)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *PartitionedRepository) replaceIn(ctx context.Context, year int, pick func(*partitions.Statements) *sql.Stmt, args []any) (int64, error) {
	stmts, release, err := r.cache.Acquire(ctx, year)
	if err != nil {
		return 0, err
	}
	defer release()

	res, err := pick(stmts).ExecContext(ctx, args...)
	if err != nil {
		return 0, common.NewStorageError("replace in "+stmts.Table, err)
	}
	return rowsAffected(res, "replace in "+stmts.Table)
}

func rowsAffected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewStorageError(op, err)
	}
	return n, nil
}
