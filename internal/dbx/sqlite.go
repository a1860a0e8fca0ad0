package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/boathouse/internal/filex"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// connPragmas are applied by the driver to every new pool connection; a
// PRAGMA executed through *sql.DB would reach only one of them.
var connPragmas = []string{"busy_timeout(5000)", "foreign_keys(1)"}

// withPragmas appends the per-connection pragmas to dsn as _pragma query
// parameters. File databases also get WAL journaling.
func withPragmas(dsn string, memory bool) string {
	pragmas := connPragmas
	if !memory {
		pragmas = append(pragmas[:len(pragmas):len(pragmas)], "journal_mode(WAL)")
	}

	q := make(url.Values)
	q["_pragma"] = pragmas

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode()
}

// OpenSQLite opens (creating if needed) the SQLite database at dsn, with
// connPragmas set on every connection, and verifies the connection.
// ":memory:" is accepted and pinned to a single connection so every
// statement sees the same database.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	memory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
	if !memory {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlOpen(DriverName, withPragmas(dsn, memory))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// IsUniqueViolation reports whether err is a unique or primary key
// constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

// IsAlreadyExists reports whether err is the engine refusing to create a
// schema object that is already present.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "already exists")
}
