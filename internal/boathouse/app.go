// Package boathouse wires the outing store, its collaborators and the
// background partition sweep into a runnable application.
package boathouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/metrics"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/admins"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/partitions"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/repomanager"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/services"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/netx"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	cache   *partitions.Cache
	metrics *prometheus.Registry

	Outings    *services.OutingService
	Members    *services.MemberService
	Boats      *services.BoatService
	Admins     *services.AdminService
	Statistics *services.StatisticsService
	Archive    *services.ArchiveService

	// metricsReady is called with the metrics listener address; tests use it.
	metricsReady func(net.Addr)
}

// NewApp opens the database, applies the static-table migrations and builds
// every service. The caller must Close the app.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := dbx.OpenSQLite(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var permissions admins.PermissionStore
	if cfg.RootOnlyAdmins {
		permissions = admins.RootOnlyPermissionStore{}
	}
	rm := repomanager.NewSQLiteRepositoryManager(permissions)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}

	registry := partitions.NewRegistry(db, logger)
	cache := partitions.NewCache(db, registry, logger, partitions.WithObserver(collector))
	codec := outings.NewCodec(rm.Members(db), rm.Boats(db))
	repo := outings.NewPartitionedRepository(registry, cache, codec)

	outingSvc := services.NewOutingService(repo, logger, services.WithRecorder(collector))

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		cache:      cache,
		metrics:    reg,
		Outings:    outingSvc,
		Members:    services.NewMemberService(db, rm, outingSvc),
		Boats:      services.NewBoatService(db, rm, outingSvc),
		Admins:     services.NewAdminService(db, rm, cfg),
		Statistics: services.NewStatisticsService(outingSvc),
		Archive:    services.NewArchiveService(outingSvc, cfg, logger),
	}, nil
}

// Close releases the cached partition statements and the database.
func (app *App) Close() error {
	return errors.Join(app.cache.Close(), app.db.Close())
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.MetricsAddr == "" {
		return
	}
	app.logger.Info(ctx, "Starting metrics endpoint...", "addr", app.config.MetricsAddr)
	if err := netx.Serve(ctx, app.config.MetricsAddr, metrics.Handler(app.metrics), app.metricsReady); err != nil {
		app.logger.Error(ctx, "metrics endpoint failed", "error", err)
		cancelFunc()
	}
}

// Run keeps the partition sweep and the metrics endpoint running until ctx
// is cancelled or the process receives a termination signal.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.cache.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx, cancelFunc)
	}()

	<-ctx.Done()
	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
}
