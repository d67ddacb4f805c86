package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

type mockRetrievalService struct {
	result domain.RetrievalResult
	err    error
}

func (m *mockRetrievalService) Search(
	context.Context, domain.RetrievalQuery, domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	return m.result, m.err
}

func (m *mockRetrievalService) SearchText(
	context.Context, string, domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	return m.result, m.err
}

type mockBriefingService struct {
	lastOpts domain.BriefingOptions
}

func (m *mockBriefingService) Generate(
	_ context.Context, q domain.RetrievalQuery, opts domain.BriefingOptions,
) (*domain.Briefing, error) {
	m.lastOpts = opts
	return &domain.Briefing{Title: "Briefing: " + q.Scenario, Success: true}, nil
}

type mockIndexService struct{}

func (m *mockIndexService) Initialize(context.Context) error { return nil }

func (m *mockIndexService) Chunks() ([]domain.Chunk, error) { return nil, nil }

func (m *mockIndexService) Stats() domain.IndexStats {
	return domain.IndexStats{Initialized: true, Records: 2, Chunks: 4}
}

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingRetrievalService)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRetrievalService)
	assert.NoError(t, (&Ports{Retrieval: &mockRetrievalService{}}).Validate())
}
