package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goroots "github.com/njchilds90/goroots"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	req := goroots.Request{Expression: "x^2 - 2", Method: goroots.MethodNewton, A: 1, Options: goroots.DefaultOptions()}
	res, solveErr := goroots.Solve(req)
	require.NoError(t, solveErr)

	id, err := store.Save(ctx, req, res, solveErr)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, req.Expression, got.Request.Expression)
	assert.Equal(t, goroots.MethodNewton, got.Request.Method)
	assert.Equal(t, req.Options, got.Request.Options)
	assert.Equal(t, res.Root, got.Result.Root)
	assert.Equal(t, res.Iterations, got.Result.Iterations)
	assert.Equal(t, res.Status, got.Result.Status)
	assert.True(t, got.Result.Converged)
	assert.Empty(t, got.Error)
	assert.Equal(t, res.Trace, got.Result.Trace)

	// Newton rows have no right-hand value
	for _, rec := range got.Result.Trace {
		assert.False(t, rec.Right.Valid())
	}
}

func TestStore_SaveFailedRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	req := goroots.Request{Expression: "x^2 + 1", Method: goroots.MethodBisection, A: 0, B: 2, Options: goroots.DefaultOptions()}
	res, solveErr := goroots.Solve(req)
	require.ErrorIs(t, solveErr, goroots.ErrNoSignChange)

	id, err := store.Save(ctx, req, res, solveErr)
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Result.Root.Valid())
	assert.Equal(t, goroots.StatusNoSignChange, got.Result.Status)
	assert.Equal(t, solveErr.Error(), got.Error)
	assert.Empty(t, got.Result.Trace)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, expr := range []string{"x - 1", "x - 2", "x - 3"} {
		req := goroots.Request{Expression: expr, Method: goroots.MethodSecant, A: 0, B: 5, Options: goroots.DefaultOptions()}
		res, solveErr := goroots.Solve(req)
		id, err := store.Save(ctx, req, res, solveErr)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Empty(t, runs[0].Result.Trace)

	runs, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	req := goroots.Request{Expression: "x", Method: goroots.MethodBisection, A: -1, B: 2, Options: goroots.DefaultOptions()}
	res, solveErr := goroots.Solve(req)
	id, err := store.Save(ctx, req, res, solveErr)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// migrations must not re-run on an existing database
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.FileExists(t, store.Path())
	require.NoError(t, store.Close())
}
