package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortref/internal/shortener"
	"github.com/serroba/shortref/internal/store"
	"go.uber.org/zap"
)

// RedisClient closes the client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool closes the pool on injector shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// RedisPackage provides the Redis client.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides the connection pool, migrating the schema first
// when AutoMigrate is set.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.AutoMigrate {
			if err := store.Migrate(opts.DatabaseURL); err != nil {
				return nil, err
			}

			logger.Info("database migrated")
		}

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &PostgresPool{pool}, nil
	})
}

// StorePackage provides the short reference store selected by Options.Store.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var s shortener.Store

		switch opts.Store {
		case StorePostgres:
			s = store.NewPostgresStore(do.MustInvoke[*PostgresPool](i).Pool)

			if opts.CacheTTLSeconds > 0 {
				s = store.NewCacheStore(s, do.MustInvoke[*RedisClient](i).Client, opts.CacheTTL())
			}
		case StoreRedis:
			s = store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client)
		default:
			mem, err := store.NewMemoryStore(nil)
			if err != nil {
				return nil, err
			}

			s = mem
		}

		logger.Info("short reference store ready",
			zap.String("store", opts.Store),
			zap.Int("cacheTtlSeconds", opts.CacheTTLSeconds),
		)

		return s, nil
	})
}
