package driving

import (
	"context"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// EvaluationService measures retrieval quality.
type EvaluationService interface {
	// Evaluate runs the selected test cases and aggregates RAGAS-style metrics.
	// Exceeding the run budget returns domain.ErrEvaluationTimeout.
	Evaluate(ctx context.Context, opts domain.EvaluationOptions) (domain.EvaluationReport, error)

	// GenerateSynthetic asks the LLM for test questions drawn from the corpus.
	// Unparseable output yields zero questions, not an error.
	GenerateSynthetic(ctx context.Context, count int) ([]domain.TestCase, error)

	// Score computes metrics for a single answer against its retrieved context.
	Score(ctx context.Context, question, answer string, retrieved []domain.RetrievedDocument, expected []string) domain.RAGASMetrics
}
