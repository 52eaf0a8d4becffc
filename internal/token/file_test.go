package token

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), nil)
}

func TestFileStore_MissingFileIsAbsent(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	_, ok := store.Access(ctx)
	assert.False(t, ok)
	_, ok = store.Refresh(ctx)
	assert.False(t, ok)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "access-token", "refresh-token"))

	access, ok := store.Access(ctx)
	require.True(t, ok)
	assert.Equal(t, "access-token", access)

	refresh, ok := store.Refresh(ctx)
	require.True(t, ok)
	assert.Equal(t, "refresh-token", refresh)

	// Credential file must not be world-readable
	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_ClearAll(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "access-token", "refresh-token"))
	require.NoError(t, store.ClearAll(ctx))

	_, ok := store.Access(ctx)
	assert.False(t, ok)

	// Clearing twice is a no-op, not an error
	require.NoError(t, store.ClearAll(ctx))
}

func TestFileStore_ClearAccessKeepsRefresh(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "access-token", "refresh-token"))
	require.NoError(t, store.ClearAccess(ctx))

	_, ok := store.Access(ctx)
	assert.False(t, ok)

	refresh, ok := store.Refresh(ctx)
	require.True(t, ok)
	assert.Equal(t, "refresh-token", refresh)
}

func TestFileStore_CorruptFileReadsAsAbsent(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json"), 0600))

	_, ok := store.Access(ctx)
	assert.False(t, ok)
}

func TestFileStore_SaveReplacesPrevious(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "first", "r1"))
	require.NoError(t, store.Save(ctx, "second", "r2"))

	access, ok := store.Access(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", access)
}
