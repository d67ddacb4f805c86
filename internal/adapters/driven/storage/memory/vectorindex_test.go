package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndex_SearchOrdersBySimilarity(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "east", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "north", []float32{0, 1}))
	require.NoError(t, idx.Add(ctx, "northeast", []float32{1, 1}))

	hits, err := idx.Search(ctx, []float32{1, 0.1}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].ChunkID)
	assert.Equal(t, "northeast", hits[1].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestVectorIndex_KLargerThanIndexReturnsAll(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "a", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10)

	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorIndex_AddReplaces(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "a", []float32{0, 1}))

	assert.Equal(t, 1, idx.Len())
	hits, err := idx.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestVectorIndex_DimensionMismatchScoresZero(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "a", []float32{1, 0, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Similarity)
}

func TestVectorIndex_RejectsEmpty(t *testing.T) {
	idx := NewVectorIndex()

	assert.Error(t, idx.Add(context.Background(), "", []float32{1}))
	assert.Error(t, idx.Add(context.Background(), "a", nil))
	assert.Zero(t, idx.Len())
}

func TestVectorIndex_CancelledContext(t *testing.T) {
	idx := NewVectorIndex()
	require.NoError(t, idx.Add(context.Background(), "a", []float32{1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Search(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
