package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/partitions"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/repomanager"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/stretchr/testify/require"
)

type env struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	registry *partitions.Registry
	recorder *fakeRecorder
	outings  *OutingService
	members  *MemberService
	boats    *BoatService
	admins   *AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager(nil)
	require.NoError(t, rm.RunMigrations(ctx, db))

	log := logging.NewNopLogger()
	registry := partitions.NewRegistry(db, log)
	cache := partitions.NewCache(db, registry, log)
	t.Cleanup(func() { _ = cache.Close() })

	codec := outings.NewCodec(rm.Members(db), rm.Boats(db))
	rec := &fakeRecorder{}
	outingSvc := NewOutingService(outings.NewPartitionedRepository(registry, cache, codec), log, WithRecorder(rec))

	cfg := &config.Config{SecretKey: "k", SessionValidityDuration: time.Hour}

	return &env{
		db:       db,
		rm:       rm,
		registry: registry,
		recorder: rec,
		outings:  outingSvc,
		members:  NewMemberService(db, rm, outingSvc),
		boats:    NewBoatService(db, rm, outingSvc),
		admins:   NewAdminService(db, rm, cfg),
	}
}

func (e *env) member(t *testing.T, first string) *models.Member {
	t.Helper()
	m, err := e.members.AddMember(context.Background(), &models.Member{FirstName: first})
	require.NoError(t, err)
	return m
}

func (e *env) boat(t *testing.T, name string) *models.Boat {
	t.Helper()
	b, err := e.boats.AddBoat(context.Background(), &models.Boat{Name: name, Seats: 8, Coxed: true})
	require.NoError(t, err)
	return b
}

func newOuting(day time.Time, out string, boat *models.Boat, crew ...*models.Member) *models.Outing {
	tod, err := timex.ParseTimeOfDay(out)
	if err != nil {
		panic(err)
	}
	o := &models.Outing{Day: day, TimeOut: tod, Boat: boat}
	copy(o.Seats[:], crew)
	return o
}

type observation struct {
	op      string
	success bool
}

type fakeRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{op, success})
}

func (f *fakeRecorder) last() observation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.obs[len(f.obs)-1]
}
