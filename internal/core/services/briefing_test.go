package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

const briefingJSON = `{"title":"Alphaland-Betavia Border Crisis","classification":"confidential",` +
	`"summary":"Both parties are bound by the Treaty of Example.","keyPoints":["Mutual defense pact applies"],` +
	`"recommendations":["Invoke consultations"]}`

func newTestBriefing(llm driven.LLMService) *BriefingService {
	idx := newTestIndex(scenarioCorpus, nil)
	retrieval := NewRetrievalService(idx, nil)
	evaluation := NewEvaluationService(retrieval, idx, llm, 0)
	return NewBriefingService(retrieval, evaluation, llm, domain.DefaultRetrievalOptions())
}

func analysisLLM(document string, documentErr error) *mockLLMService {
	return &mockLLMService{respond: func(prompt string, opts driven.GenerateOptions) (string, error) {
		switch {
		case opts.JSONMode:
			return document, documentErr
		case strings.Contains(prompt, "step by step"):
			return "reasoning text", nil
		case strings.Contains(prompt, "legal implications"):
			return "legal text", nil
		case strings.Contains(prompt, "response options"):
			return "strategy text", nil
		default:
			return "0.75", nil
		}
	}}
}

func TestBriefingService_PrimaryPath(t *testing.T) {
	llm := analysisLLM(briefingJSON, nil)
	svc := newTestBriefing(llm)

	b, err := svc.Generate(context.Background(), scenarioQuery(), domain.BriefingOptions{FastMode: true})

	require.NoError(t, err)
	assert.True(t, b.Success)
	assert.Empty(t, b.Warnings)
	assert.Equal(t, "Alphaland-Betavia Border Crisis", b.Title)
	assert.Equal(t, domain.ClassificationConfidential, b.Classification)
	assert.Equal(t, "reasoning text", b.Reasoning)
	assert.Equal(t, "legal text", b.LegalAnalysis)
	assert.Equal(t, "strategy text", b.StrategicOptions)
	assert.Equal(t, []string{"Invoke consultations"}, b.Recommendations)
	assert.Equal(t, domain.PlaceholderMetrics(), b.Metrics)
	require.NotEmpty(t, b.Treaties)
	assert.Equal(t, "Treaty of Example", b.Treaties[0].Title)
	assert.Equal(t, 4, llm.calls())
}

func TestBriefingService_ScoresWhenNotFastMode(t *testing.T) {
	llm := analysisLLM(briefingJSON, nil)
	svc := newTestBriefing(llm)

	b, err := svc.Generate(context.Background(), scenarioQuery(), domain.BriefingOptions{})

	require.NoError(t, err)
	assert.InDelta(t, 0.75, b.Metrics.Faithfulness, 1e-9)
	assert.InDelta(t, 0.75, b.Metrics.AnswerRelevancy, 1e-9)
	assert.InDelta(t, 1.0, b.Metrics.ContextRecall, 1e-9)
	assert.Equal(t, 6, llm.calls())
}

func TestBriefingService_MalformedJSONFallsBack(t *testing.T) {
	svc := newTestBriefing(analysisLLM("not json at all", nil))

	b, err := svc.Generate(context.Background(), scenarioQuery(), domain.BriefingOptions{FastMode: true})

	require.NoError(t, err)
	assert.False(t, b.Success)
	assert.Equal(t, "Treaty Briefing: Betavia and Alphaland", b.Title)
	assert.Equal(t, domain.ClassificationUnclassified, b.Classification)
	assert.Equal(t, "reasoning text", b.Reasoning)
	require.NotEmpty(t, b.KeyPoints)
	assert.Contains(t, b.KeyPoints[0], "Treaty of Example (adopted January 1, 1990)")
	require.NotEmpty(t, b.Warnings)
	assert.Contains(t, b.Warnings[0], "malformed JSON")
}

func TestBriefingService_WithoutLLM(t *testing.T) {
	svc := newTestBriefing(nil)

	b, err := svc.Generate(context.Background(), scenarioQuery(), domain.BriefingOptions{FastMode: true})

	require.NoError(t, err)
	assert.False(t, b.Success)
	assert.Equal(t, []string{"language model unavailable"}, b.Warnings)
	assert.Contains(t, b.Reasoning, "Treaty of Example")
	assert.Equal(t, fallbackLegalAnalysis, b.LegalAnalysis)
	assert.Equal(t, fallbackStrategicOptions, b.StrategicOptions)
	assert.Equal(t, fallbackRecommendations, b.Recommendations)
	assert.NotEmpty(t, b.Summary)
}

func TestBriefingService_AnalysisFailureFallsBack(t *testing.T) {
	llm := &mockLLMService{respond: func(prompt string, opts driven.GenerateOptions) (string, error) {
		if opts.JSONMode {
			return briefingJSON, nil
		}
		if strings.Contains(prompt, "legal implications") {
			return "", errors.New("timeout")
		}
		return "ok", nil
	}}
	svc := newTestBriefing(llm)

	b, err := svc.Generate(context.Background(), scenarioQuery(), domain.BriefingOptions{FastMode: true})

	require.NoError(t, err)
	assert.False(t, b.Success)
	assert.Equal(t, fallbackLegalAnalysis, b.LegalAnalysis)
	assert.Equal(t, "ok", b.Reasoning)
	assert.Equal(t, "Alphaland-Betavia Border Crisis", b.Title)
}

func TestBriefingService_CancelledRequestSkipsAssembly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	llm := &mockLLMService{respond: func(prompt string, opts driven.GenerateOptions) (string, error) {
		if opts.JSONMode {
			return briefingJSON, nil
		}
		if strings.Contains(prompt, "step by step") {
			cancel()
			return "", context.Canceled
		}
		return "ok", nil
	}}
	svc := newTestBriefing(llm)

	b, err := svc.Generate(ctx, scenarioQuery(), domain.BriefingOptions{})

	require.NoError(t, err)
	assert.False(t, b.Success)
	assert.Contains(t, strings.Join(b.Warnings, "\n"), "briefing cancelled")
	assert.NotEqual(t, "Alphaland-Betavia Border Crisis", b.Title)
	assert.Equal(t, domain.PlaceholderMetrics(), b.Metrics)
	assert.Equal(t, 3, llm.calls())
}

func TestBriefingService_RetrievalFailureStillBriefs(t *testing.T) {
	idx := newTestIndex(scenarioCorpus, &mockEmbeddingService{batchErr: errors.New("down")})
	retrieval := NewRetrievalService(idx, nil)
	svc := NewBriefingService(retrieval, nil, nil, domain.DefaultRetrievalOptions())

	b, err := svc.Generate(context.Background(), scenarioQuery(), domain.BriefingOptions{})

	require.NoError(t, err)
	assert.False(t, b.Success)
	assert.Empty(t, b.Treaties)
	assert.Contains(t, b.Reasoning, "No treaties")
	assert.Equal(t, domain.PlaceholderMetrics(), b.Metrics)
}

func TestBriefingService_InvalidQuery(t *testing.T) {
	svc := newTestBriefing(nil)
	q := scenarioQuery()
	q.OffensiveCountry = ""

	_, err := svc.Generate(context.Background(), q, domain.BriefingOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseBriefingDocument(t *testing.T) {
	doc, err := ParseBriefingDocument("```json\n" + briefingJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Alphaland-Betavia Border Crisis", doc.Title)

	_, err = ParseBriefingDocument(`{"title": "x"}`)
	assert.ErrorIs(t, err, domain.ErrMalformedJSON)

	_, err = ParseBriefingDocument(`{"summary": `)
	assert.ErrorIs(t, err, domain.ErrMalformedJSON)
}

func TestNormaliseClassification(t *testing.T) {
	assert.Equal(t, domain.ClassificationSecret, normaliseClassification(" secret "))
	assert.Equal(t, domain.ClassificationUnclassified, normaliseClassification("TOP SECRET"))
	assert.Equal(t, domain.ClassificationUnclassified, normaliseClassification(""))
}
