package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, dbFileName), store.Path())
	assert.FileExists(t, store.Path())
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	var tables int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='embedding_cache'",
	).Scan(&tables))
	assert.Equal(t, 1, tables)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var rows int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestEmbeddingCache_PutAndGet(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).EmbeddingCache()

	require.NoError(t, cache.PutMany(ctx, "model-a", map[string][]float32{
		"k1": {0.5, -1.25, 3},
		"k2": {1},
	}))

	got, err := cache.GetMany(ctx, "model-a", []string{"k1", "k2", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1.25, 3}, got["k1"])
	assert.Equal(t, []float32{1}, got["k2"])
	assert.NotContains(t, got, "missing")

	other, err := cache.GetMany(ctx, "model-b", []string{"k1"})
	require.NoError(t, err)
	assert.Empty(t, other, "vectors are scoped by model")
}

func TestEmbeddingCache_Replace(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).EmbeddingCache()

	require.NoError(t, cache.PutMany(ctx, "m", map[string][]float32{"k": {1, 2}}))
	require.NoError(t, cache.PutMany(ctx, "m", map[string][]float32{"k": {3, 4, 5}}))

	got, err := cache.GetMany(ctx, "m", []string{"k"})
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5}, got["k"])
}

func TestEmbeddingCache_ManyKeys(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).EmbeddingCache()

	vectors := make(map[string][]float32, 1200)
	keys := make([]string, 0, 1200)
	for i := range 1200 {
		key := fmt.Sprintf("key-%04d", i)
		vectors[key] = []float32{float32(i)}
		keys = append(keys, key)
	}
	require.NoError(t, cache.PutMany(ctx, "m", vectors))

	got, err := cache.GetMany(ctx, "m", keys)
	require.NoError(t, err)
	assert.Len(t, got, 1200)
	assert.Equal(t, []float32{1199}, got["key-1199"])
}

func TestEmbeddingCache_EmptyInputs(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).EmbeddingCache()

	assert.NoError(t, cache.PutMany(ctx, "m", nil))
	got, err := cache.GetMany(ctx, "m", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, cache.Close())
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0, 1.5, -2.75}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
