package backend

import (
	"context"
	"fmt"
	"log/slog"

	"setoran/internal/postgres"
	"setoran/internal/storage"
	"setoran/internal/store/memory"
)

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case PostgresBackend:
		return f.createPostgresBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &Result{Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createPostgresBackend(config Config) (*Result, error) {
	repo, err := postgres.NewRepository(config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("initialize Postgres repository: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")
	return &Result{Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	st := memory.New()
	f.logger.Info("Initialized memory backend")
	return &Result{Backend: st, Cleanup: nil}, nil
}
