package mcp

import (
	"context"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

type mockRetrievalService struct {
	result    domain.RetrievalResult
	err       error
	lastQuery *domain.RetrievalQuery
	lastText  string
	lastOpts  domain.RetrievalOptions
}

func (m *mockRetrievalService) Search(
	_ context.Context,
	q domain.RetrievalQuery,
	opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	m.lastQuery = &q
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockRetrievalService) SearchText(
	_ context.Context,
	text string,
	opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	m.lastText = text
	m.lastOpts = opts
	return m.result, m.err
}

type mockBriefingService struct {
	briefing *domain.Briefing
	err      error
	lastOpts domain.BriefingOptions
}

func (m *mockBriefingService) Generate(
	_ context.Context,
	q domain.RetrievalQuery,
	opts domain.BriefingOptions,
) (*domain.Briefing, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.briefing != nil {
		return m.briefing, nil
	}
	return &domain.Briefing{Title: "Briefing: " + q.Scenario, Query: q, Success: true}, nil
}

type mockEvaluationService struct {
	report   domain.EvaluationReport
	err      error
	lastOpts domain.EvaluationOptions
}

func (m *mockEvaluationService) Evaluate(
	_ context.Context,
	opts domain.EvaluationOptions,
) (domain.EvaluationReport, error) {
	m.lastOpts = opts
	return m.report, m.err
}

func (m *mockEvaluationService) GenerateSynthetic(_ context.Context, _ int) ([]domain.TestCase, error) {
	return nil, nil
}

func (m *mockEvaluationService) Score(
	_ context.Context, _, _ string, _ []domain.RetrievedDocument, _ []string,
) domain.RAGASMetrics {
	return domain.RAGASMetrics{}
}

type mockIndexService struct {
	chunks []domain.Chunk
	stats  domain.IndexStats
	err    error
}

func (m *mockIndexService) Initialize(_ context.Context) error {
	return m.err
}

func (m *mockIndexService) Chunks() ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIndexService) Stats() domain.IndexStats {
	return m.stats
}
