package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the password digest capability used by signup and login.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports a mismatch as (false, nil); other failures, such as a
// malformed digest, are returned as errors.
func (h *BcryptHasher) Verify(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ PasswordHasher = (*BcryptHasher)(nil)
