package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ranking"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an exact in-memory vector index. Search scans every
// vector with cosine similarity, which is fine for corpora of a few
// thousand chunks.
type VectorIndex struct {
	mu      sync.RWMutex
	ids     []string
	vectors [][]float32
	pos     map[string]int
}

// NewVectorIndex creates an empty index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		pos: make(map[string]int),
	}
}

// Add inserts or replaces the vector for chunkID.
func (v *VectorIndex) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" {
		return errors.New("chunk id is required")
	}
	if len(embedding) == 0 {
		return errors.New("embedding is empty")
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	v.mu.Lock()
	defer v.mu.Unlock()
	if i, ok := v.pos[chunkID]; ok {
		v.vectors[i] = vec
		return nil
	}
	v.pos[chunkID] = len(v.ids)
	v.ids = append(v.ids, chunkID)
	v.vectors = append(v.vectors, vec)
	return nil
}

// Search returns the k most similar vectors, best first. Ties keep
// insertion order.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(v.ids))
	for i, vec := range v.vectors {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    v.ids[i],
			Similarity: ranking.Cosine(query, vec),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.ids)
}

// Close releases resources (no-op for memory index).
func (v *VectorIndex) Close() error {
	return nil
}
