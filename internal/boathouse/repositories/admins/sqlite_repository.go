// Package admins persists administrator credentials and their permissions.
package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

// Create stores a new credential. A taken user name yields
// common.ErrDuplicateEntry.
func (r *SQLiteRepository) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	query :=
		`INSERT INTO admins (username, salt, hash, is_root, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		a.UserName, a.Salt, a.Hash, a.IsRoot, a.CreatedAt.Unix()).Scan(&a.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("admin %q: %w", a.UserName, common.ErrDuplicateEntry)
		}
		return nil, common.NewStorageError("insert admin", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetByUserName(ctx context.Context, userName string) (*models.Admin, error) {
	query :=
		`SELECT id, username, salt, hash, is_root, created_at FROM admins
		 WHERE username = ?`

	a, err := scanAdmin(r.db.QueryRowContext(ctx, query, userName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("select admin", err)
	}
	return a, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query :=
		`SELECT id, username, salt, hash, is_root, created_at FROM admins
		 ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.NewStorageError("list admins", err)
	}
	defer rows.Close()

	out := []*models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, common.NewStorageError("scan admin", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("list admins", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateCredentials(ctx context.Context, userName string, salt, hash []byte) (int64, error) {
	return r.exec(ctx, "update admin credentials",
		`UPDATE admins SET salt = ?, hash = ? WHERE username = ?`, salt, hash, userName)
}

func (r *SQLiteRepository) UpdateRole(ctx context.Context, userName string, isRoot bool) (int64, error) {
	return r.exec(ctx, "update admin role",
		`UPDATE admins SET is_root = ? WHERE username = ?`, isRoot, userName)
}

// Delete removes the admin together with its permission rows.
func (r *SQLiteRepository) Delete(ctx context.Context, userName string) (int64, error) {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_permissions WHERE admin_id IN (SELECT id FROM admins WHERE username = ?)`, userName)
	if err != nil {
		return 0, common.NewStorageError("delete admin permissions", err)
	}
	return r.exec(ctx, "delete admin", `DELETE FROM admins WHERE username = ?`, userName)
}

func (r *SQLiteRepository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, common.NewStorageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewStorageError(op, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAdmin(s scanner) (*models.Admin, error) {
	var created int64
	a := &models.Admin{}
	if err := s.Scan(&a.ID, &a.UserName, &a.Salt, &a.Hash, &a.IsRoot, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(created, 0).UTC()
	return a, nil
}
