// Package common defines sentinel errors shared by the repositories, the
// services and the REST layer. Callers should use errors.Is to match them.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound              = errors.New("not found")
	ErrRepositoryUnavailable = errors.New("repository unavailable")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("duplicate email")
)

// ValidationError carries the user-correctable problems found in a request.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Details []string
}

// NewValidationError builds a ValidationError from one or more details.
func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unavailable wraps a storage failure so that it matches both
// ErrRepositoryUnavailable and the underlying cause.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
}
