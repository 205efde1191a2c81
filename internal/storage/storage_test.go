package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "storage.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, path
}

func TestStore_SetGet(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "role")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "role", "doctor"))

	value, ok, err := store.Get(ctx, "role")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doctor", value)
}

func TestStore_SetOverwrites(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "status", "pending"))
	require.NoError(t, store.Set(ctx, "status", "active"))

	value, _, err := store.Get(ctx, "status")
	require.NoError(t, err)
	assert.Equal(t, "active", value)
}

func TestStore_Remove(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "role", "admin"))
	require.NoError(t, store.Set(ctx, "status", "active"))
	require.NoError(t, store.Set(ctx, "theme", "dark"))

	require.NoError(t, store.Remove(ctx, "role", "status", "missing"))
	require.NoError(t, store.Remove(ctx))

	_, ok, err := store.Get(ctx, "role")
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	store, path := openTestStore(t)
	require.NoError(t, store.Set(context.Background(), "role", "patient"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(context.Background(), "role")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "patient", value)
}
