// Package repomanager provides a concrete RepositoryManager for SQLite,
// wiring together repository constructors and the static-table migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/migrations"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/admins"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/boats"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/members"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/pressly/goose/v3"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// and exposes a schema migration hook.
type SQLiteRepositoryManager struct {
	permissions admins.PermissionStore
}

// Members returns a members.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Members(db dbx.DBTX) members.Repository {
	return members.NewSQLiteRepository(db)
}

// Boats returns a boats.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Boats(db dbx.DBTX) boats.Repository {
	return boats.NewSQLiteRepository(db)
}

// Admins returns an admins.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewSQLiteRepository(db)
}

// Permissions returns the permission persistence strategy.
func (m *SQLiteRepositoryManager) Permissions() admins.PermissionStore {
	return m.permissions
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
// A nil store selects admins.TablePermissionStore.
func NewSQLiteRepositoryManager(store admins.PermissionStore) RepositoryManager {
	if store == nil {
		store = admins.TablePermissionStore{}
	}
	return &SQLiteRepositoryManager{permissions: store}
}
