package outings

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/partitions"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeLookup resolves members and boats from maps and counts calls.
type fakeLookup struct {
	mu          sync.Mutex
	members     map[int64]*models.Member
	boats       map[int64]*models.Boat
	memberCalls map[int64]int
	boatCalls   map[int64]int
	err         error
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		members:     map[int64]*models.Member{},
		boats:       map[int64]*models.Boat{},
		memberCalls: map[int64]int{},
		boatCalls:   map[int64]int{},
	}
}

func (f *fakeLookup) GetMember(_ context.Context, id int64) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls[id]++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.members[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m, nil
}

func (f *fakeLookup) GetBoat(_ context.Context, id int64) (*models.Boat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boatCalls[id]++
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.boats[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (f *fakeLookup) addMember(id int64, first string) *models.Member {
	m := &models.Member{ID: id, FirstName: first}
	f.members[id] = m
	return m
}

func (f *fakeLookup) addBoat(id int64, name string) *models.Boat {
	b := &models.Boat{ID: id, Name: name}
	f.boats[id] = b
	return b
}

type fixture struct {
	db       *sql.DB
	lookup   *fakeLookup
	registry *partitions.Registry
	cache    *partitions.Cache
	repo     *PartitionedRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewNopLogger()
	lookup := newFakeLookup()
	registry := partitions.NewRegistry(db, log)
	cache := partitions.NewCache(db, registry, log)
	t.Cleanup(func() { _ = cache.Close() })

	return &fixture{
		db:       db,
		lookup:   lookup,
		registry: registry,
		cache:    cache,
		repo:     NewPartitionedRepository(registry, cache, NewCodec(lookup, lookup)),
	}
}

func outing(day time.Time, out string, boat *models.Boat, crew ...*models.Member) *models.Outing {
	tod, err := timex.ParseTimeOfDay(out)
	if err != nil {
		panic(err)
	}
	o := &models.Outing{ID: uuid.NewString(), Day: day, TimeOut: tod, Boat: boat}
	copy(o.Seats[:], crew)
	return o
}

func (f *fixture) insert(t *testing.T, outings ...*models.Outing) {
	t.Helper()
	for _, o := range outings {
		require.NoError(t, f.repo.Insert(context.Background(), o))
	}
}

func ids(outings []*models.Outing) []string {
	out := make([]string, len(outings))
	for i, o := range outings {
		out[i] = o.ID
	}
	return out
}

func int64p(v int64) *int64 { return &v }
