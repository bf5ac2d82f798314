package todos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func seed(t *testing.T, r *MemoryRepository, owner string, n int, mutate func(i int, td *models.Todo)) []*models.Todo {
	t.Helper()
	out := make([]*models.Todo, 0, n)
	for i := 0; i < n; i++ {
		td := &models.Todo{
			ID:        fmt.Sprintf("%s-%02d", owner, i),
			UserID:    owner,
			Title:     fmt.Sprintf("todo %d", i),
			Priority:  models.PriorityMedium,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
			UpdatedAt: t0.Add(time.Duration(i) * time.Minute),
		}
		if mutate != nil {
			mutate(i, td)
		}
		_, err := r.Create(context.Background(), td)
		require.NoError(t, err)
		out = append(out, td)
	}
	return out
}

func ids(items []*models.Todo) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.ID
	}
	return out
}

func TestMemoryList_OrderAndPaging(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "a", 5, nil)
	seed(t, r, "b", 3, nil)

	items, total, err := r.List(context.Background(), ListFilter{OwnerID: "a", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"a-04", "a-03"}, ids(items))

	items, total, err = r.List(context.Background(), ListFilter{OwnerID: "a", Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"a-00"}, ids(items))

	items, total, err = r.List(context.Background(), ListFilter{OwnerID: "a", Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total, "total is independent of the page window")
	assert.Empty(t, items)
}

func TestMemoryList_TiesBreakByID(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "a", 3, func(i int, td *models.Todo) { td.CreatedAt = t0 })

	items, _, err := r.List(context.Background(), ListFilter{OwnerID: "a", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-02", "a-01", "a-00"}, ids(items))
}

func TestMemoryList_Filters(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "a", 6, func(i int, td *models.Todo) {
		td.Completed = i%2 == 0
		if i >= 4 {
			td.Priority = models.PriorityHigh
		}
		switch i {
		case 0:
			td.Title = "Buy MILK"
		case 3:
			td.Description = strptr("oat milk please")
		case 5:
			td.Title = "100% done_ok"
		}
	})

	cases := []struct {
		name string
		f    ListFilter
		want []string
	}{
		{"completed", ListFilter{Completed: boolptr(true)}, []string{"a-04", "a-02", "a-00"}},
		{"not completed", ListFilter{Completed: boolptr(false)}, []string{"a-05", "a-03", "a-01"}},
		{"priority", ListFilter{Priority: models.PriorityHigh}, []string{"a-05", "a-04"}},
		{"search title or description", ListFilter{Search: "milk"}, []string{"a-03", "a-00"}},
		{"search and completed", ListFilter{Search: "milk", Completed: boolptr(true)}, []string{"a-00"}},
		{"percent is literal", ListFilter{Search: "%"}, []string{"a-05"}},
		{"underscore is literal", ListFilter{Search: "e_o"}, []string{"a-05"}},
		{"no match", ListFilter{Search: "bread"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.f
			f.OwnerID = "a"
			f.Limit = 10
			items, total, err := r.List(context.Background(), f)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(items))
			assert.Equal(t, len(tc.want), total)
		})
	}
}

func TestMemory_OwnerScoping(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, "a", 1, func(_ int, td *models.Todo) { td.Completed = true })

	_, err := r.FindByID(ctx, "a-00", "b")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.Toggle(ctx, "a-00", "b", t0)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.Update(ctx, &models.Todo{ID: "a-00", UserID: "b", Title: "hijack"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, "a-00", "b"), common.ErrNotFound)

	n, err := r.DeleteCompleted(ctx, "b")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := r.FindByID(ctx, "a-00", "a")
	require.NoError(t, err)
	assert.Equal(t, "todo 0", got.Title)
	assert.True(t, got.Completed)
}

func TestMemory_ToggleTwiceRestores(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, "a", 1, nil)

	first, err := r.Toggle(ctx, "a-00", "a", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, first.Completed)
	assert.Equal(t, t0.Add(time.Hour), first.UpdatedAt)

	second, err := r.Toggle(ctx, "a-00", "a", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, second.Completed)
}

func TestMemory_UpdateKeepsCreatedAt(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, "a", 1, nil)

	got, err := r.Update(ctx, &models.Todo{
		ID: "a-00", UserID: "a", Title: "renamed", Priority: models.PriorityLow,
		CreatedAt: t0.Add(99 * time.Hour), UpdatedAt: t0.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)
}

func TestMemory_DeleteAndDeleteCompleted(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, "a", 4, func(i int, td *models.Todo) { td.Completed = i < 3 })
	seed(t, r, "b", 2, func(_ int, td *models.Todo) { td.Completed = true })

	require.NoError(t, r.Delete(ctx, "a-00", "a"))
	assert.ErrorIs(t, r.Delete(ctx, "a-00", "a"), common.ErrNotFound)

	n, err := r.DeleteCompleted(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, total, err := r.List(ctx, ListFilter{OwnerID: "a", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"a-03"}, ids(items))

	_, total, err = r.List(ctx, ListFilter{OwnerID: "b", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "other owners are untouched")

	n, err = r.DeleteCompleted(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, "a", 1, func(_ int, td *models.Todo) { td.Description = strptr("orig") })

	got, err := r.FindByID(ctx, "a-00", "a")
	require.NoError(t, err)
	*got.Description = "changed"

	again, err := r.FindByID(ctx, "a-00", "a")
	require.NoError(t, err)
	assert.Equal(t, "orig", *again.Description)
}
