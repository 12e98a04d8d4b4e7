// Package bootstrap assembles process-wide dependencies shared by the
// binaries under cmd/.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/pkg/cache"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/database"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// OpenStore builds the document store selected by cfg.Store.Driver. When the
// configured backend cannot be reached the store is returned unavailable, so
// reads fall back to defaults and writes fail, instead of refusing to start.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...kvstore.Option) *kvstore.Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]kvstore.Option{kvstore.WithNamespace(cfg.Store.Namespace), kvstore.WithLogger(logger)}, opts...)

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Error("document store unavailable", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return kvstore.Unavailable(opts...)
	}
	logger.Info("document store ready", zap.String("driver", cfg.Store.Driver), zap.String("namespace", cfg.Store.Namespace))
	return kvstore.New(backend, opts...)
}

func openBackend(ctx context.Context, cfg *config.Config) (kvstore.Backend, error) {
	switch cfg.Store.Driver {
	case "", config.StoreDriverMemory:
		return kvstore.NewMemoryBackend(), nil
	case config.StoreDriverFile:
		return kvstore.NewFileBackend(cfg.Store.FileDir)
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		backend := kvstore.NewPostgresBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return backend, nil
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return kvstore.NewRedisBackend(client, ChangeChannel(cfg.Store.Namespace)), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// ChangeChannel is the Redis Pub/Sub channel used to relay document changes.
func ChangeChannel(namespace string) string {
	if namespace == "" {
		return "changes"
	}
	return namespace + ":changes"
}
