package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/CuongMinh72/bakery-sys/internal/platform/cache"
	"github.com/CuongMinh72/bakery-sys/internal/platform/db"
	"github.com/CuongMinh72/bakery-sys/internal/platform/lock"
	"github.com/CuongMinh72/bakery-sys/internal/store"
	"github.com/CuongMinh72/bakery-sys/internal/store/filestore"
	"github.com/CuongMinh72/bakery-sys/internal/store/memory"
	"github.com/CuongMinh72/bakery-sys/internal/store/pgstore"
	"github.com/CuongMinh72/bakery-sys/internal/store/redisstore"
)

// Backends are the opened persistence adapter and mutation lock.
type Backends struct {
	Adapter store.Adapter
	Locker  lock.Locker
	// Shared is set when another process may write the same store, so state
	// must be reloaded after the lock is taken.
	Shared bool

	closers []func()
}

// OpenBackends connects the store and lock selected by cfg.
func OpenBackends(ctx context.Context, cfg *Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}
	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		redisClient = client
		b.closers = append(b.closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		})
	}

	switch cfg.StoreBackend {
	case StoreMemory:
		b.Adapter = memory.New()
	case StoreFile:
		a, err := filestore.New(cfg.DataDir)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Adapter = a
	case StorePostgres:
		pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		pg := pgstore.New(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.Adapter = pg
		b.Shared = true
	case StoreRedis:
		b.Adapter = redisstore.New(redisClient, cfg.RedisPrefix)
		b.Shared = true
	default:
		b.Close()
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.LockBackend == LockRedis {
		b.Locker = lock.NewRedis(redisClient, cfg.RedisPrefix+"lock:state", cfg.LockTTL, cfg.LockWait)
	} else {
		b.Locker = lock.NewLocal()
		b.Shared = false
	}
	logger.Info("backends ready",
		slog.String("store", cfg.StoreBackend),
		slog.String("lock", cfg.LockBackend),
		slog.Bool("reload_on_lock", b.Shared))
	return b, nil
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
