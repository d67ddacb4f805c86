package driving

import (
	"context"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// IndexService owns the treaty corpus and its embeddings.
type IndexService interface {
	// Initialize loads, chunks and embeds the corpus on first use.
	// Concurrent callers share one load; a failed load is retried by the next call.
	Initialize(ctx context.Context) error

	// Chunks returns the loaded chunks in corpus order.
	// Returns domain.ErrIndexNotReady before a successful Initialize.
	Chunks() ([]domain.Chunk, error)

	// Stats describes the loaded index.
	Stats() domain.IndexStats
}
