// Package backend builds the params.Store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"savings/internal/params"
	"savings/internal/params/memory"
	"savings/internal/params/redisstore"
	"savings/internal/storage"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result is the constructed store plus its cleanup, which may be nil.
type Result struct {
	Store   params.Store
	Cleanup CleanupFunc
	// Pinger is set when the store can report readiness.
	Pinger interface{ Ping(ctx context.Context) error }
}

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the store for cfg.Type.
func (f *Factory) CreateStore(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite params store", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close, Pinger: repo}, nil

	case RedisBackend:
		store, err := redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.ParamsTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis params store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized Redis params store", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.ParamsTTL)
		return &Result{Store: store, Cleanup: store.Close, Pinger: store}, nil

	default:
		f.logger.InfoContext(ctx, "Initialized memory params store")
		return &Result{Store: memory.New()}, nil
	}
}
