// Package backend selects and opens the configured transaction store.
package backend

import (
	"fmt"
	"log/slog"

	"bloomledger/internal/config"
	"bloomledger/internal/storage"
	"bloomledger/internal/store"
	"bloomledger/internal/store/memory"
)

// Backend bundles an opened store with its cleanup function.
type Backend struct {
	Store store.TransactionStore

	// Repo is set only for the sqlite backend; the sync worker needs its
	// pending-sync bookkeeping beyond the TransactionStore contract.
	Repo *storage.SQLiteRepository

	cleanup func()
}

// Open initializes the store named by cfg.DataBackend.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		slog.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return &Backend{
			Store: repo,
			Repo:  repo,
			cleanup: func() {
				if err := repo.Close(); err != nil {
					slog.Error("Failed to close sqlite repository", "error", err)
				}
			},
		}, nil

	case "memory":
		slog.Info("Initialized memory backend")
		return &Backend{
			Store:   memory.NewSeeded(cfg.DashboardPIN),
			cleanup: func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.DataBackend)
	}
}

// Close releases the underlying store resources.
func (b *Backend) Close() {
	if b.cleanup != nil {
		b.cleanup()
	}
}
