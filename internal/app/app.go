// Package app wires config into stores, locks and services for the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/appointment"
	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/config"
	"github.com/hackgods/dental-clinic-scheduling/internal/db"
	"github.com/hackgods/dental-clinic-scheduling/internal/directory"
	"github.com/hackgods/dental-clinic-scheduling/internal/inventory"
	"github.com/hackgods/dental-clinic-scheduling/internal/metrics"
	"github.com/hackgods/dental-clinic-scheduling/internal/records"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

type App struct {
	Config  config.Config
	Store   clinic.Store
	Pool    *pgxpool.Pool // nil for the memory backend
	Redis   *redis.Client // nil for local locks
	Locker  redisclient.Locker
	Metrics *metrics.Metrics
	Log     zerolog.Logger

	Appointments *appointment.Service
	Directory    *directory.Service
	Charts       *chart.Service
	Inventory    *inventory.Service
	Records      *records.Service
}

// New connects the configured backends and builds every service on top of them.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: metrics.New("dental"),
		Log:     log,
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, true)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("postgres connection: %w", err)
		}
		a.Pool = pool
		a.Store = clinic.NewPgStore(pool)
		log.Info().Msg("connected to Postgres")
	default:
		store := clinic.NewMemoryStore()
		if cfg.SeedDemoData {
			if err := clinic.SeedDemo(ctx, store, time.Now().In(cfg.Location)); err != nil {
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			log.Info().Msg("memory store seeded with demo data")
		}
		a.Store = store
	}

	switch cfg.LockBackend {
	case config.LockRedis:
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis connection: %w", err)
		}
		a.Redis = rdb
		a.Locker = redisclient.NewRedisLocker(rdb, cfg.LockTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
	default:
		a.Locker = redisclient.NewLocalLocker(cfg.LockTTL)
	}

	a.Directory = directory.NewService(a.Store, a.Locker, directory.NewBcryptHasher(0), log)
	a.Appointments = appointment.NewService(a.Store, a.Locker, cfg, a.Metrics, log)
	a.Charts = chart.NewService(a.Store, a.Directory, chart.DefaultCatalog(), a.Locker, log)
	a.Inventory = inventory.NewService(a.Store, a.Locker, log)
	a.Records = records.NewService(a.Store, log)

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Error().Err(err).Msg("error closing redis")
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
