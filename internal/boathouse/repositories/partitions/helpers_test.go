package partitions

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type countingObserver struct {
	mu                    sync.Mutex
	hits, misses, evicted int
	size                  int
}

func (o *countingObserver) Hit(int)     { o.mu.Lock(); o.hits++; o.mu.Unlock() }
func (o *countingObserver) Miss(int)    { o.mu.Lock(); o.misses++; o.mu.Unlock() }
func (o *countingObserver) Evicted(int) { o.mu.Lock(); o.evicted++; o.mu.Unlock() }
func (o *countingObserver) Size(n int)  { o.mu.Lock(); o.size = n; o.mu.Unlock() }

func nopLogger() logging.Logger { return logging.NewNopLogger() }
