package httpapi

import (
	"context"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

type mockIndex struct {
	stats domain.IndexStats
}

func (m *mockIndex) Initialize(context.Context) error { return nil }
func (m *mockIndex) Chunks() ([]domain.Chunk, error) { return nil, nil }
func (m *mockIndex) Stats() domain.IndexStats { return m.stats }

type mockRetrieval struct {
	lastQuery domain.RetrievalQuery
	lastText  string
	lastOpts  domain.RetrievalOptions
	err       error
}

func (m *mockRetrieval) Search(
	_ context.Context, q domain.RetrievalQuery, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	m.lastQuery, m.lastOpts = q, opts
	if m.err != nil {
		return domain.RetrievalResult{}, m.err
	}
	if err := q.Validate(); err != nil {
		return domain.RetrievalResult{}, err
	}
	return sampleResult(q.Scenario, opts.Strategy), nil
}

func (m *mockRetrieval) SearchText(
	_ context.Context, text string, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	m.lastText, m.lastOpts = text, opts
	if m.err != nil {
		return domain.RetrievalResult{}, m.err
	}
	return sampleResult(text, opts.Strategy), nil
}

func sampleResult(query string, strategy domain.FusionStrategy) domain.RetrievalResult {
	return domain.RetrievalResult{
		Query:               query,
		Strategy:            strategy,
		TotalChunksSearched: 12,
		Documents: []domain.RetrievedDocument{{
			Chunk: domain.Chunk{
				ID:       "rec-0",
				Content:  "Charter of the United Nations",
				Metadata: domain.ChunkMetadata{Title: "Charter of the United Nations"},
			},
			RelevanceScore: 0.9,
		}},
	}
}

type mockEvaluation struct {
	lastOpts domain.EvaluationOptions
	err      error
}

func (m *mockEvaluation) Evaluate(_ context.Context, opts domain.EvaluationOptions) (domain.EvaluationReport, error) {
	m.lastOpts = opts
	if m.err != nil {
		return domain.EvaluationReport{}, m.err
	}
	return domain.EvaluationReport{OverallScore: 0.75, FastMode: opts.FastMode}, nil
}

func (m *mockEvaluation) GenerateSynthetic(context.Context, int) ([]domain.TestCase, error) {
	return nil, nil
}

func (m *mockEvaluation) Score(
	context.Context, string, string, []domain.RetrievedDocument, []string,
) domain.RAGASMetrics {
	return domain.RAGASMetrics{}
}

type mockBriefing struct {
	lastOpts domain.BriefingOptions
}

func (m *mockBriefing) Generate(
	_ context.Context, q domain.RetrievalQuery, opts domain.BriefingOptions,
) (*domain.Briefing, error) {
	m.lastOpts = opts
	return &domain.Briefing{
		Title:          "Briefing: " + q.Scenario,
		Classification: domain.ClassificationConfidential,
		Query:          q,
		Summary:        "Summary text.",
		Success:        true,
	}, nil
}
