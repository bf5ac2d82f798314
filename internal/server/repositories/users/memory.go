package users

import (
	"context"
	"sync"

	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/server/models"
)

// MemoryRepository keeps users in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Unavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := *stored
	return &u, nil
}

func (r *MemoryRepository) Save(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return common.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.UpdatedAt = user.UpdatedAt

	return nil
}

var _ Repository = (*MemoryRepository)(nil)
