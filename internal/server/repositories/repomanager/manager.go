// Package repomanager vends the repositories of the configured storage
// backend and owns its lifecycle: migrations, health ping and close.
package repomanager

import (
	"context"
	"fmt"

	"github.com/ruchidavda1/todoapp/internal/server/config"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/todos"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Todos() todos.Repository
	Ping(ctx context.Context) error
	Close() error
}

// New builds the RepositoryManager selected by cfg.Storage. For PostgreSQL
// the pool is opened lazily; no connection is made until first use.
func New(cfg *config.Config) (RepositoryManager, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositoryManager(db)
	case config.StorageMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
