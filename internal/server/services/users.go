package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/opt"
	"github.com/ruchidavda1/todoapp/internal/server/auth"
	"github.com/ruchidavda1/todoapp/internal/server/config"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/repomanager"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/users"
	"github.com/ruchidavda1/todoapp/internal/server/validation"
)

type SignupInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput is a partial update: absent fields are left unchanged.
type ProfileInput struct {
	FirstName opt.Field[string] `json:"firstName"`
	LastName  opt.Field[string] `json:"lastName"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	users     users.Repository
	tokens    *auth.TokenService
	hasher    auth.PasswordHasher
	validator *validation.Validator
	now       func() time.Time
	newID     func() string

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		users:     m.Users(),
		tokens:    auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenValidityDuration),
		hasher:    auth.NewBcryptHasher(cfg.BcryptCost),
		validator: validation.New(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Signup registers a new user and signs them in.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrDuplicateEmail
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &models.User{
		ID:           s.newID(),
		Email:        in.Email,
		PasswordHash: digest,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials. An unknown email and a wrong password fail
// identically with common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, common.ErrNotFound) {
		// Burn a comparison so unknown emails cost the same as wrong passwords.
		_, _ = s.hasher.Verify(in.Password, s.dummy())
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user. Missing, invalid or
// expired tokens and tokens of users that no longer exist all fail with
// common.ErrUnauthenticated; storage failures are returned as is.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile applies the names present in in to user and persists them.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	var details []string
	if in.FirstName.Null {
		details = append(details, "firstName must not be null")
	}
	if in.LastName.Null {
		details = append(details, "lastName must not be null")
	}
	if len(details) > 0 {
		return nil, common.NewValidationError(details...)
	}

	updated := *user
	if v, ok := in.FirstName.Get(); ok {
		updated.FirstName = v
	}
	if v, ok := in.LastName.Get(); ok {
		updated.LastName = v
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.users.Save(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyDigest
}
