package partitions

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/dmitrijs2005/boathouse/internal/logging"
)

// Partition identifies the table holding the outings of one calendar year.
type Partition struct {
	Year  int
	Table string
}

// Registry knows which yearly partitions exist and creates missing ones.
// It is safe for concurrent use.
type Registry struct {
	db     dbx.DBTX
	logger logging.Logger

	mu    sync.Mutex
	known map[int]struct{}
}

func NewRegistry(db dbx.DBTX, logger logging.Logger) *Registry {
	return &Registry{
		db:     db,
		logger: logger.With("component", "partition_registry"),
		known:  make(map[int]struct{}),
	}
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE %s (
	id          TEXT PRIMARY KEY,
	day         TEXT NOT NULL,
	rower1      INTEGER,
	rower2      INTEGER,
	rower3      INTEGER,
	rower4      INTEGER,
	rower5      INTEGER,
	rower6      INTEGER,
	rower7      INTEGER,
	rower8      INTEGER,
	cox         INTEGER,
	time_out    TEXT NOT NULL,
	time_in     TEXT,
	comment     TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL DEFAULT '',
	boat        INTEGER NOT NULL,
	distance    INTEGER NOT NULL DEFAULT 0
)`, table)
}

func createIndexSQL(table string) string {
	return fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_day_time ON %s (day, time_out)`, table, table)
}

// EnsurePartition creates the partition for year if it does not exist yet.
// Losing a creation race to another caller is not an error.
func (r *Registry) EnsurePartition(ctx context.Context, year int) (Partition, error) {
	table, err := TableName(year)
	if err != nil {
		return Partition{}, err
	}
	p := Partition{Year: year, Table: table}

	r.mu.Lock()
	_, ok := r.known[year]
	r.mu.Unlock()
	if ok {
		return p, nil
	}

	created := true
	if _, err := r.db.ExecContext(ctx, createTableSQL(table)); err != nil {
		if !dbx.IsAlreadyExists(err) {
			return Partition{}, common.NewStorageError("create partition "+table, err)
		}
		created = false
	}
	if _, err := r.db.ExecContext(ctx, createIndexSQL(table)); err != nil {
		return Partition{}, common.NewStorageError("create index on "+table, err)
	}

	r.mu.Lock()
	r.known[year] = struct{}{}
	r.mu.Unlock()

	if created {
		r.logger.Info(ctx, "partition created", "year", year, "table", table)
	}
	return p, nil
}

// ListPartitionYears returns the years that have a partition, ascending.
func (r *Registry) ListPartitionYears(ctx context.Context) ([]int, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'outings!_%' ESCAPE '!'`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.NewStorageError("list partitions", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, common.NewStorageError("list partitions", err)
		}
		if year, ok := ParseTableName(name); ok {
			years = append(years, year)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("list partitions", err)
	}
	sort.Ints(years)

	r.mu.Lock()
	for _, y := range years {
		r.known[y] = struct{}{}
	}
	r.mu.Unlock()

	return years, nil
}

// HasPartition reports whether the partition for year exists.
func (r *Registry) HasPartition(ctx context.Context, year int) (bool, error) {
	table, err := TableName(year)
	if err != nil {
		return false, nil
	}

	r.mu.Lock()
	_, ok := r.known[year]
	r.mu.Unlock()
	if ok {
		return true, nil
	}

	var n int
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	if err := r.db.QueryRowContext(ctx, query, table).Scan(&n); err != nil {
		return false, common.NewStorageError("lookup partition "+table, err)
	}
	if n == 0 {
		return false, nil
	}

	r.mu.Lock()
	r.known[year] = struct{}{}
	r.mu.Unlock()
	return true, nil
}
