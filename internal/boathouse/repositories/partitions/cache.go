package partitions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/dmitrijs2005/boathouse/internal/logging"
)

const (
	// SweepInterval is the period of the background eviction sweep.
	SweepInterval = 15 * time.Minute
	// IdleThreshold is how long an entry may stay unused before the sweep
	// evicts it.
	IdleThreshold = 20 * time.Minute
)

// ErrCacheClosed is returned by Acquire after Close.
var ErrCacheClosed = errors.New("partition cache closed")

// Observer receives cache events. The metrics package implements it.
type Observer interface {
	Hit(year int)
	Miss(year int)
	Evicted(year int)
	Size(n int)
}

type nopObserver struct{}

func (nopObserver) Hit(int)     {}
func (nopObserver) Miss(int)    {}
func (nopObserver) Evicted(int) {}
func (nopObserver) Size(int)    {}

type cacheEntry struct {
	stmts    *Statements
	lastUsed time.Time
	inUse    int
}

// Cache owns one Statements set per partition year. Entries idle for longer
// than IdleThreshold are evicted by Sweep unless they belong to the current
// calendar year or are in use. Evicting only closes statements; the
// partition table is untouched and the next Acquire re-prepares it.
//
// Acquire and eviction of the same entry are serialized by mu, so a
// statement set is never closed while a caller holds it.
type Cache struct {
	db       dbx.Preparer
	registry *Registry
	logger   logging.Logger
	observer Observer
	now      func() time.Time
	interval time.Duration

	mu      sync.Mutex
	entries map[int]*cacheEntry
	closed  bool
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now as the cache's time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithObserver registers an observer for cache events.
func WithObserver(o Observer) CacheOption {
	return func(c *Cache) { c.observer = o }
}

func NewCache(db dbx.Preparer, registry *Registry, logger logging.Logger, opts ...CacheOption) *Cache {
	c := &Cache{
		db:       db,
		registry: registry,
		logger:   logger.With("component", "partition_cache"),
		observer: nopObserver{},
		now:      time.Now,
		interval: SweepInterval,
		entries:  make(map[int]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire returns the statement set of year, creating the partition and
// preparing its statements on first use. The returned release function must
// be called once the statements are no longer used; it is idempotent.
func (c *Cache) Acquire(ctx context.Context, year int) (*Statements, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, ErrCacheClosed
	}

	e, ok := c.entries[year]
	if ok {
		c.observer.Hit(year)
	} else {
		c.observer.Miss(year)

		p, err := c.registry.EnsurePartition(ctx, year)
		if err != nil {
			return nil, nil, err
		}
		stmts, err := PrepareStatements(ctx, c.db, p)
		if err != nil {
			return nil, nil, err
		}
		e = &cacheEntry{stmts: stmts}
		c.entries[year] = e
		c.observer.Size(len(c.entries))
		c.logger.Debug(ctx, "partition cached", "year", year)
	}

	e.lastUsed = c.now()
	e.inUse++

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e.inUse--
			e.lastUsed = c.now()
		})
	}
	return e.stmts, release, nil
}

// cached reports whether year currently has a cache entry.
func (c *Cache) cached(year int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[year]
	return ok
}

// size is the number of cached entries.
func (c *Cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep evicts every entry idle for longer than IdleThreshold at now, except
// the entry of now's calendar year and entries in use. It returns the
// evicted years.
func (c *Cache) Sweep(ctx context.Context, now time.Time) []int {
	var victims []*cacheEntry
	var years []int

	c.mu.Lock()
	for year, e := range c.entries {
		if year == now.Year() || e.inUse > 0 {
			continue
		}
		if e.lastUsed.Add(IdleThreshold).Before(now) {
			delete(c.entries, year)
			victims = append(victims, e)
			years = append(years, year)
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	// Evicted entries are unreachable from the map, closing needs no lock.
	for _, e := range victims {
		if err := e.stmts.Close(); err != nil {
			c.logger.Warn(ctx, "closing evicted partition statements", "year", e.stmts.Year, "error", err)
		}
		c.observer.Evicted(e.stmts.Year)
		c.logger.Info(ctx, "partition evicted", "year", e.stmts.Year)
	}
	if len(victims) > 0 {
		c.observer.Size(size)
	}
	return years
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(ctx, c.now())
		}
	}
}

// Close closes every cached statement set. Later Acquire calls fail with
// ErrCacheClosed.
func (c *Cache) Close() error {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[int]*cacheEntry)
	c.closed = true
	c.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if err := e.stmts.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.observer.Size(0)
	return errors.Join(errs...)
}
