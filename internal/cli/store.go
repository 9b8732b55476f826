package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"trivia-board-host/internal/app"
	"trivia-board-host/internal/config"
	"trivia-board-host/internal/infra/memory"
	"trivia-board-host/internal/infra/postgres"
	redisstore "trivia-board-host/internal/infra/redis"
	"trivia-board-host/internal/infra/sqlite"
	"trivia-board-host/internal/logging"
)

func loadConfig(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.Log.Level, cfg.Log.NoColor), nil
}

// openStore picks the snapshot backend for cfg.Storage.Driver. The returned
// func releases connections and must run after the host has flushed.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (app.SnapshotStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("memory storage: the board will not survive a restart")
		return memory.NewSnapshotStore(), func() {}, nil

	case config.DriverSQLite, "":
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using sqlite storage", "path", cfg.SQLite.Path)
		return store, func() { _ = store.Close() }, nil

	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSnapshotStore(pool), pool.Close, nil

	case config.DriverRedis:
		if cfg.Redis.Addr == "" {
			return nil, nil, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		if cfg.Postgres.URL == "" {
			return redisstore.NewSnapshotStore(client), func() { _ = client.Close() }, nil
		}

		// Redis in front of Postgres.
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		ttl := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		store := redisstore.NewCachedSnapshotStore(client, postgres.NewSnapshotStore(pool), ttl)
		return store, func() {
			_ = client.Close()
			pool.Close()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func openPostgres(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return nil, err
	}
	return pgxpool.Connect(ctx, cfg.Postgres.URL)
}

// openHost loads the persisted board on top of the configured store.
func openHost(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app.Host, func(), error) {
	store, release, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	persist := app.NewPersistence(store, cfg.Storage.Key, logger)
	host := app.NewHost(ctx, persist, app.NewEditor(), logger, app.HostOptions{
		SaveTimeout: config.TTLDuration(cfg.Save.Timeout, 5*time.Second),
	})
	shutdown := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := host.Close(flushCtx); err != nil {
			logger.Error("flushing quiz state", "err", err)
		}
		release()
	}
	return host, shutdown, nil
}
