package services

import (
	"context"
	"testing"
	"time"

	"github.com/ruchidavda1/todoapp/internal/server/config"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Storage = config.StorageMemory
	cfg.SecretKey = "test-secret"
	cfg.TokenValidityDuration = time.Hour
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

// fakeClock advances one millisecond per reading so creation order is
// observable.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

type fixture struct {
	rm    *repomanager.MemoryRepositoryManager
	users *UserService
	todos *TodoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	us := NewUserService(rm, testConfig())
	us.now = clock.Now
	ts := NewTodoService(rm)
	ts.now = clock.Now

	return &fixture{rm: rm, users: us, todos: ts}
}

func (f *fixture) signup(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := f.users.Signup(context.Background(), SignupInput{
		Email: email, Password: "password123", FirstName: "First", LastName: "Last",
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) create(t *testing.T, owner string, in CreateTodoInput) *models.Todo {
	t.Helper()
	td, err := f.todos.Create(context.Background(), owner, in)
	require.NoError(t, err)
	return td
}

func strptr(s string) *string { return &s }
