package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("retrieval.fusion", "rrf"))

	val, ok := store.Get("retrieval.fusion")
	assert.True(t, ok)
	assert.Equal(t, "rrf", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("top_k", 8)
	_ = store.Set("top_k64", int64(9))
	_ = store.Set("weight", 0.6)
	_ = store.Set("enabled", true)

	assert.Equal(t, 8, store.GetInt("top_k"))
	assert.Equal(t, 9, store.GetInt("top_k64"))
	assert.Equal(t, 0, store.GetInt("enabled"))

	assert.InDelta(t, 0.6, store.GetFloat("weight"), 1e-9)
	assert.InDelta(t, 8.0, store.GetFloat("top_k"), 1e-9)
	assert.Zero(t, store.GetFloat("enabled"))

	assert.True(t, store.GetBool("enabled"))
	assert.False(t, store.GetBool("weight"))

	assert.Empty(t, store.GetString("top_k"))
}

func TestConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{"corpus.path": "/data/treaties.txt", "retrieval.top_k": 7}
	store := NewConfigStore(seed)

	assert.Equal(t, "/data/treaties.txt", store.GetString("corpus.path"))
	assert.Equal(t, 7, store.GetInt("retrieval.top_k"))

	require.NoError(t, store.Set("retrieval.top_k", 3))
	assert.Equal(t, 7, seed["retrieval.top_k"], "seed map is copied")
}

func TestConfigStore_SaveLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("k", "v")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("counter", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
