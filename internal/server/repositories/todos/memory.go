package todos

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/server/models"
)

// MemoryRepository keeps todos in process memory with the same ordering and
// matching rules as PostgresRepository. Safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	todos map[string]*models.Todo
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{todos: make(map[string]*models.Todo)}
}

func matches(t *models.Todo, f ListFilter) bool {
	if t.UserID != f.OwnerID {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		inTitle := strings.Contains(strings.ToLower(t.Title), needle)
		inDesc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
		if !inTitle && !inDesc {
			return false
		}
	}
	return true
}

// newestFirst orders by creation time descending, then id descending.
func newestFirst(a, b *models.Todo) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *MemoryRepository) List(ctx context.Context, f ListFilter) ([]*models.Todo, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, common.Unavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Todo
	for _, t := range r.todos {
		if matches(t, f) {
			matched = append(matched, t)
		}
	}
	slices.SortFunc(matched, newestFirst)

	total := len(matched)
	start := min(max(f.Offset, 0), total)
	end := total
	if f.Limit >= 0 {
		end = min(start+f.Limit, total)
	}

	items := make([]*models.Todo, 0, end-start)
	for _, t := range matched[start:end] {
		items = append(items, t.Clone())
	}

	return items, total, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.owned(id, ownerID)
	if !ok {
		return nil, common.ErrNotFound
	}
	return t.Clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos[todo.ID] = todo.Clone()
	return todo, nil
}

func (r *MemoryRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.owned(todo.ID, todo.UserID)
	if !ok {
		return nil, common.ErrNotFound
	}

	updated := todo.Clone()
	updated.CreatedAt = stored.CreatedAt
	r.todos[todo.ID] = updated

	return updated.Clone(), nil
}

func (r *MemoryRepository) Toggle(ctx context.Context, id, ownerID string, at time.Time) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(id, ownerID)
	if !ok {
		return nil, common.ErrNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = at

	return t.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(id, ownerID); !ok {
		return common.ErrNotFound
	}
	delete(r.todos, id)

	return nil
}

func (r *MemoryRepository) DeleteCompleted(ctx context.Context, ownerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.todos {
		if t.UserID == ownerID && t.Completed {
			delete(r.todos, id)
			n++
		}
	}

	return n, nil
}

// owned must be called with mu held.
func (r *MemoryRepository) owned(id, ownerID string) (*models.Todo, bool) {
	t, ok := r.todos[id]
	if !ok || t.UserID != ownerID {
		return nil, false
	}
	return t, true
}

var _ Repository = (*MemoryRepository)(nil)
