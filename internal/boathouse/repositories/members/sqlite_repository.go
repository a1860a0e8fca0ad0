// Package members persists club members in the static members table.
package members

import (
	"context"
	"database/sql"
	"errors"

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

// Create inserts m and sets its ID from the engine.
func (r *SQLiteRepository) Create(ctx context.Context, m *models.Member) (*models.Member, error) {
	query :=
		`INSERT INTO members (first_name, last_name, grp)
		 VALUES (?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, m.FirstName, m.LastName, m.Group).Scan(&m.ID)
	if err != nil {
		return nil, common.NewStorageError("insert member", err)
	}
	return m, nil
}

// GetMember returns common.ErrorNotFound for an unknown id.
func (r *SQLiteRepository) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	query :=
		`SELECT id, first_name, last_name, grp FROM members
		 WHERE id = ?`

	m := &models.Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.FirstName, &m.LastName, &m.Group)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("select member", err)
	}
	return m, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Member, error) {
	query :=
		`SELECT id, first_name, last_name, grp FROM members
		 ORDER BY last_name, first_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.NewStorageError("list members", err)
	}
	defer rows.Close()

	out := []*models.Member{}
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Group); err != nil {
			return nil, common.NewStorageError("scan member", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("list members", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, m *models.Member) (int64, error) {
	query :=
		`UPDATE members SET first_name = ?, last_name = ?, grp = ?
		 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, m.FirstName, m.LastName, m.Group, m.ID)
	if err != nil {
		return 0, common.NewStorageError("update member", err)
	}
	n, err := res.RowsAffected()
	return n, common.NewStorageError("update member", err)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return 0, common.NewStorageError("delete member", err)
	}
	n, err := res.RowsAffected()
	return n, common.NewStorageError("delete member", err)
}
