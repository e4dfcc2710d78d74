package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "empty store loads nil")

	require.NoError(t, store.Save(ctx, []byte(`{"companies":[]}`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"companies":[]}`), data)

	// The returned slice is a copy, not a window into the store.
	data[0] = 'X'
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), data[0])

	require.NoError(t, store.Clear(ctx))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, store.Close())
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scheduler.json")
	store := NewFileStore(path)

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "missing file loads nil")

	require.NoError(t, store.Save(ctx, []byte(`{"users":[]}`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"users":[]}`), data)

	require.NoError(t, store.Save(ctx, []byte(`{"users":[1]}`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"users":[1]}`), data, "save replaces the previous blob")

	require.NoError(t, store.Clear(ctx))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, store.Clear(ctx), "clearing an already empty store is fine")
}

func setupSQLiteStore(t *testing.T) *DBStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "scheduler.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestDBStore(t *testing.T) {
	ctx := context.Background()
	store := setupSQLiteStore(t)

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "fresh database loads nil")

	require.NoError(t, store.Save(ctx, []byte(`{"shifts":[]}`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"shifts":[]}`), data)

	// Second save hits the upsert path, not a duplicate-key error.
	require.NoError(t, store.Save(ctx, []byte(`{"shifts":[2]}`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"shifts":[2]}`), data)

	require.NoError(t, store.Clear(ctx))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestOpenTierSelection(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("sqlite preferred when configured", func(t *testing.T) {
		store := Open(Config{
			SQLitePath:   filepath.Join(t.TempDir(), "scheduler.db"),
			FallbackPath: filepath.Join(t.TempDir(), "scheduler.json"),
		}, logger)
		defer store.Close()
		assert.IsType(t, &DBStore{}, store)
	})

	t.Run("degrades to file when sqlite cannot open", func(t *testing.T) {
		store := Open(Config{
			SQLitePath:   filepath.Join(t.TempDir(), "no-such-dir", "scheduler.db"),
			FallbackPath: filepath.Join(t.TempDir(), "scheduler.json"),
		}, logger)
		defer store.Close()
		assert.IsType(t, &FileStore{}, store)
	})

	t.Run("degrades to memory when nothing is configured", func(t *testing.T) {
		store := Open(Config{}, logger)
		defer store.Close()
		assert.IsType(t, &MemoryStore{}, store)
	})
}
