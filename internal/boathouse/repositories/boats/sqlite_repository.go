// Package boats persists the club fleet in the static boats table.
package boats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts b and sets its ID. Boat names are unique; a clash yields
// common.ErrDuplicateEntry.
func (r *SQLiteRepository) Create(ctx context.Context, b *models.Boat) (*models.Boat, error) {
	query :=
		`INSERT INTO boats (name, seats, coxed)
		 VALUES (?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, b.Name, b.Seats, b.Coxed).Scan(&b.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("boat %q: %w", b.Name, common.ErrDuplicateEntry)
		}
		return nil, common.NewStorageError("insert boat", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBoat(ctx context.Context, id int64) (*models.Boat, error) {
	query :=
		`SELECT id, name, seats, coxed FROM boats
		 WHERE id = ?`

	b := &models.Boat{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Seats, &b.Coxed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("select boat", err)
	}
	return b, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Boat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, seats, coxed FROM boats ORDER BY name`)
	if err != nil {
		return nil, common.NewStorageError("list boats", err)
	}
	defer rows.Close()

	out := []*models.Boat{}
	for rows.Next() {
		b := &models.Boat{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Seats, &b.Coxed); err != nil {
			return nil, common.NewStorageError("scan boat", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("list boats", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boats WHERE id = ?`, id)
	if err != nil {
		return 0, common.NewStorageError("delete boat", err)
	}
	n, err := res.RowsAffected()
	return n, common.NewStorageError("delete boat", err)
}
