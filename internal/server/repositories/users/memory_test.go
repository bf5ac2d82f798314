package users

import (
	"context"
	"testing"

	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, sampleUser())
	require.NoError(t, err)

	byEmail, err := r.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)

	byID, err := r.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = r.FindByEmail(ctx, "ALICE@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound, "emails match exactly as stored")

	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryRepository_DuplicateEmail(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, sampleUser())
	require.NoError(t, err)

	dup := sampleUser()
	dup.ID = "u-2"
	_, err = r.Create(ctx, dup)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestMemoryRepository_Save(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, sampleUser())
	require.NoError(t, err)

	u, err := r.FindByID(ctx, "u-1")
	require.NoError(t, err)
	u.FirstName = "Alicia"
	u.Email = "ignored@example.com"
	require.NoError(t, r.Save(ctx, u))

	got, err := r.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)
	assert.Equal(t, "alice@example.com", got.Email, "Save only touches profile fields")

	u.ID = "missing"
	assert.ErrorIs(t, r.Save(ctx, u), common.ErrNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, sampleUser())
	require.NoError(t, err)

	u, _ := r.FindByID(ctx, "u-1")
	u.FirstName = "mutated"

	again, _ := r.FindByID(ctx, "u-1")
	assert.Equal(t, "Alice", again.FirstName)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	r := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.FindByID(ctx, "u-1")
	assert.ErrorIs(t, err, common.ErrRepositoryUnavailable)
}
