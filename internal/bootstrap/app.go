package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/config"
	"github.com/donalcheung/dine-together-sub000/internal/database"
	"github.com/donalcheung/dine-together-sub000/internal/database/memory"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/eventlog"
	"github.com/donalcheung/dine-together-sub000/internal/handler"
	"github.com/donalcheung/dine-together-sub000/internal/meal"
	"github.com/donalcheung/dine-together-sub000/internal/reconcile"
	"github.com/donalcheung/dine-together-sub000/internal/scheduler"
	"github.com/donalcheung/dine-together-sub000/internal/server"
	"github.com/donalcheung/dine-together-sub000/internal/worker"
	"github.com/donalcheung/dine-together-sub000/internal/xp"
)

// App is the fully wired service graph shared by the CLI commands
type App struct {
	Config  *config.Config
	Catalog *achievement.Catalog
	DBPool  *pgxpool.Pool // nil with the memory store
	Repos   *Repositories

	EventBus  event.Bus
	Publisher *event.ResilientPublisher

	XP           xp.Service
	Achievements achievement.Service
	Meals        meal.Service
	Reconciler   reconcile.Service
	EventLog     eventlog.Service
}

// Options controls optional start-up steps
type Options struct {
	// Migrate applies pending migrations before the repositories are used
	Migrate bool
}

// NewApp connects storage, starts the event system and builds every service.
func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	catalog, err := achievement.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	app := &App{Config: cfg, Catalog: catalog}

	if cfg.UsesPostgres() {
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		app.DBPool = pool
		slog.Info(LogMsgStoragePostgres, "host", cfg.DBHost, "db", cfg.DBName)

		if opts.Migrate {
			if err := RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		app.Repos = InitializeRepositories(pool)
	} else {
		slog.Warn(LogMsgStorageMemory)
		app.Repos = InitializeMemoryRepositories(memory.NewStore())
	}

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		app.closePool()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedInitEventSystem, err)
	}
	app.EventBus = bus
	app.Publisher = publisher

	evaluator := achievement.NewEvaluator(catalog)
	app.XP = xp.NewService(app.Repos.Progression, app.Repos.Achievements, publisher, xp.CacheConfig{
		Size: cfg.SummaryCacheSize,
		TTL:  cfg.SummaryCacheTTL,
	})
	app.Achievements = achievement.NewService(evaluator, app.Repos.Achievements, app.Repos.Stats)
	app.Meals = meal.NewService(app.XP, evaluator, app.Repos.Achievements, app.Repos.Stats,
		meal.NewClassifier(catalog, cfg.Location()), publisher)
	app.Reconciler = reconcile.NewService(app.Repos.Progression, app.Repos.Stats, app.Repos.Achievements,
		catalog, app.XP, app.Meals, publisher)
	app.EventLog = eventlog.NewService(app.Repos.EventLog)

	if err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: app.EventLog,
	}); err != nil {
		_ = publisher.Shutdown(ctx)
		app.closePool()
		return nil, err
	}

	return app, nil
}

// RunMigrations applies every pending embedded migration
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := database.NewMigrator(pool)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRunMigrations, err)
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRunMigrations, err)
	}
	version, _ := migrator.Version(ctx)
	slog.Info(LogMsgMigrationsApplied, "version", version)
	return nil
}

// Handlers builds the HTTP handler sets
func (a *App) Handlers() *handler.Handlers {
	return handler.NewHandlers(a.XP, a.Achievements, a.Meals, a.Reconciler, a.EventLog)
}

// NewServer builds the HTTP server. The readiness probe pings the pool when there is one.
func (a *App) NewServer() *server.Server {
	var pool database.Pool
	if a.DBPool != nil {
		pool = a.DBPool
	}
	return server.NewServer(server.Options{
		Port:           a.Config.Port,
		APIKey:         a.Config.APIKey,
		TrustedProxies: a.Config.TrustedProxies,
	}, a.Handlers(), pool, a.Catalog)
}

// StartBackgroundJobs starts the worker pool and schedules periodic reconciliation
// and event log cleanup.
func (a *App) StartBackgroundJobs() (*worker.Pool, *scheduler.Scheduler) {
	pool := worker.NewPool(a.Config.WorkerCount, WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(a.Config.ReconcileInterval, reconcile.NewJob(a.Reconciler))
	if a.Config.EventLogRetentionDays > 0 {
		sched.Schedule(EventLogCleanupInterval, eventlog.NewCleanupJob(a.EventLog, a.Config.EventLogRetentionDays))
	}

	slog.Info(LogMsgBackgroundJobsStarted,
		"workers", a.Config.WorkerCount,
		"reconcile_interval", a.Config.ReconcileInterval,
		"event_log_retention_days", a.Config.EventLogRetentionDays)
	return pool, sched
}

// Close flushes pending events and releases the database pool
func (a *App) Close(ctx context.Context) {
	if a.Publisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := a.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}
	a.closePool()
}

func (a *App) closePool() {
	if a.DBPool != nil {
		a.DBPool.Close()
	}
}
