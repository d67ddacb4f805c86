package driving

import (
	"context"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// RetrievalService finds treaties relevant to a scenario.
type RetrievalService interface {
	// Search runs query expansion, hybrid retrieval, scenario boosting and
	// optional reranking. Documents are ordered best first, at most opts.TopK.
	Search(ctx context.Context, query domain.RetrievalQuery, opts domain.RetrievalOptions) (domain.RetrievalResult, error)

	// SearchText retrieves for free text without scenario expansion.
	SearchText(ctx context.Context, text string, opts domain.RetrievalOptions) (domain.RetrievalResult, error)
}
