// Package users is the credential store: user identity records looked up by
// email or id.
package users

import (
	"context"

	"github.com/ruchidavda1/todoapp/internal/server/models"
)

// Repository persists users. Lookups that match nothing return
// common.ErrNotFound; storage failures match common.ErrRepositoryUnavailable.
type Repository interface {
	// Create stores a new user. It fails with common.ErrDuplicateEmail when
	// the email is already registered.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// Save persists the mutable profile fields (first and last name) and
	// UpdatedAt.
	Save(ctx context.Context, user *models.User) error
}
