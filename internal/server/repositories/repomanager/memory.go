package repomanager

import (
	"context"

	"github.com/ruchidavda1/todoapp/internal/server/repositories/todos"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/users"
)

// MemoryRepositoryManager vends in-process repositories. Data lives as long
// as the manager.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	todos *todos.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		todos: todos.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Users() users.Repository             { return m.users }
func (m *MemoryRepositoryManager) Todos() todos.Repository             { return m.todos }
func (m *MemoryRepositoryManager) Ping(ctx context.Context) error      { return ctx.Err() }
func (m *MemoryRepositoryManager) Close() error                        { return nil }

var _ RepositoryManager = (*MemoryRepositoryManager)(nil)
