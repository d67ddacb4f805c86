// Package chromem provides a VectorIndex backed by an in-process chromem-go collection.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// DefaultCollection names the collection holding chunk vectors.
const DefaultCollection = "treaty-chunks"

// VectorIndex stores chunk vectors in chromem-go.
// chromem normalises vectors on insert, so similarity is cosine.
type VectorIndex struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
}

// noEmbed guards against chromem calling out to a provider; every
// document arrives with its vector precomputed.
func noEmbed(context.Context, string) ([]float32, error) {
	return nil, errors.New("chromem: documents must carry precomputed embeddings")
}

// NewVectorIndex creates an in-memory chromem collection.
func NewVectorIndex() (*VectorIndex, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(DefaultCollection, nil, noEmbed)
	if err != nil {
		return nil, fmt.Errorf("chromem: create collection: %w", err)
	}
	return &VectorIndex{db: db, collection: collection}, nil
}

// Add inserts a vector for the given chunk ID.
func (v *VectorIndex) Add(ctx context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" {
		return fmt.Errorf("chromem: empty chunk id")
	}
	if len(embedding) == 0 || isZero(embedding) {
		return fmt.Errorf("chromem: chunk %s has no usable embedding", chunkID)
	}

	// chromem normalises in place; keep the caller's slice intact.
	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	v.mu.Lock()
	defer v.mu.Unlock()
	doc := chromem.Document{ID: chunkID, Embedding: vec}
	if err := v.collection.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem: add %s: %w", chunkID, err)
	}
	return nil
}

// Search returns up to k nearest chunks, most similar first.
// k is clamped to the collection size; chromem rejects larger values.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(query) == 0 || isZero(query) {
		return nil, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	n := min(k, v.collection.Count())
	if n == 0 {
		return nil, nil
	}

	q := make([]float32, len(query))
	copy(q, query)
	results, err := v.collection.QueryEmbedding(ctx, q, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = driven.VectorHit{ChunkID: r.ID, Similarity: float64(r.Similarity)}
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.collection.Count()
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.db.Reset()
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
