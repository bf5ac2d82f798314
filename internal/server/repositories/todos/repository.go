// Package todos persists todo records. Every operation except Create is
// scoped by owner: a record is never visible or mutable through an owner id
// other than its own.
package todos

import (
	"context"
	"time"

	"github.com/ruchidavda1/todoapp/internal/server/models"
)

// ListFilter is the predicate and page window for List. Nil Completed and
// empty Priority or Search mean no constraint on that attribute.
type ListFilter struct {
	OwnerID   string
	Completed *bool
	Priority  models.Priority
	// Search is matched literally and case-insensitively against title or
	// description.
	Search    string
	Offset    int
	Limit     int
}

// Repository is the todo store. Lookups that match nothing (including
// records owned by someone else) return common.ErrNotFound; storage failures
// match common.ErrRepositoryUnavailable.
type Repository interface {
	// List returns one page of the owner's todos ordered by creation time,
	// newest first, together with the number of todos matching the filter
	// before paging.
	List(ctx context.Context, f ListFilter) ([]*models.Todo, int, error)
	FindByID(ctx context.Context, id, ownerID string) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	// Update overwrites the mutable fields of the todo identified by
	// todo.ID and todo.UserID.
	Update(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	// Toggle negates completed in a single write.
	Toggle(ctx context.Context, id, ownerID string, at time.Time) (*models.Todo, error)
	Delete(ctx context.Context, id, ownerID string) error
	// DeleteCompleted removes every completed todo of the owner and reports
	// how many were removed.
	DeleteCompleted(ctx context.Context, ownerID string) (int64, error)
}
