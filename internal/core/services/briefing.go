package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/core/prompts"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

// Ensure BriefingService implements the interface.
var _ driving.BriefingService = (*BriefingService)(nil)

const (
	analysisMaxTokens = 800
	documentMaxTokens = 1200
	briefingExcerpt   = 300
)

// Fallback analysis text used when the LLM is unavailable or fails.
const (
	fallbackLegalAnalysis = "Automated legal analysis is unavailable. Review the listed treaties for " +
		"obligations binding each party, applicable dispute settlement clauses and any reservations."
	fallbackStrategicOptions = "Automated strategic analysis is unavailable. Consider diplomatic engagement " +
		"through treaty bodies, invoking dispute settlement mechanisms, and coordinating with other states parties."
)

var fallbackRecommendations = []string{
	"Confirm the ratification status of each listed treaty for both parties.",
	"Identify consultation and dispute settlement obligations triggered by the scenario.",
	"Engage legal counsel before relying on any single instrument.",
}

// BriefingService orchestrates retrieval and LLM analysis into a briefing.
type BriefingService struct {
	retrieval   driving.RetrievalService
	evaluation  driving.EvaluationService
	llm         driven.LLMService
	promptStore driven.PromptStore
	options     domain.RetrievalOptions
}

// NewBriefingService creates a briefing service.
// The llm is optional (can be nil); every LLM stage then uses its fallback.
func NewBriefingService(
	retrieval driving.RetrievalService,
	evaluation driving.EvaluationService,
	llm driven.LLMService,
	options domain.RetrievalOptions,
) *BriefingService {
	return &BriefingService{
		retrieval:  retrieval,
		evaluation: evaluation,
		llm:        llm,
		options:    options,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *BriefingService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// BriefingDocument is the JSON shape the LLM is asked to produce.
type BriefingDocument struct {
	Title           string   `json:"title"`
	Classification  string   `json:"classification"`
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"keyPoints"`
	Recommendations []string `json:"recommendations"`
}

// Generate produces a briefing for the scenario. Only invalid input returns
// an error; every later failure is absorbed and clears Success.
func (s *BriefingService) Generate(
	ctx context.Context, query domain.RetrievalQuery, opts domain.BriefingOptions,
) (*domain.Briefing, error) {
	logger.Section("Briefing Generation")

	if err := query.Validate(); err != nil {
		return nil, err
	}

	b := &domain.Briefing{
		Query:       query,
		Success:     true,
		GeneratedAt: time.Now().UTC(),
	}
	fail := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logger.Warn("Briefing degraded: %s", msg)
		b.Warnings = append(b.Warnings, msg)
		b.Success = false
	}

	retrievalOpts := s.options
	if opts.TopK > 0 {
		retrievalOpts.TopK = opts.TopK
	}
	retrieved, err := s.retrieval.Search(ctx, query, retrievalOpts)
	if err != nil {
		fail("treaty retrieval failed: %v", err)
	}
	docs := retrieved.Documents
	b.Treaties = treatyReferences(docs)

	summary := scenarioSummary(query)
	treaties := contextText(docs)

	if s.llm == nil {
		fail("language model unavailable")
	}

	// A cancelled request stops the remaining analyses; a failed one only
	// falls back to its default text.
	var reasoningOK, legalOK, strategicOK bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.Reasoning, reasoningOK = s.analyse(gctx, driven.PromptReasoning, summary, treaties)
		return analysisErr(gctx, reasoningOK)
	})
	g.Go(func() error {
		b.LegalAnalysis, legalOK = s.analyse(gctx, driven.PromptLegalAnalysis, summary, treaties)
		return analysisErr(gctx, legalOK)
	})
	g.Go(func() error {
		b.StrategicOptions, strategicOK = s.analyse(gctx, driven.PromptStrategicOptions, summary, treaties)
		return analysisErr(gctx, strategicOK)
	})
	cancelled := g.Wait()

	if !reasoningOK {
		b.Reasoning = fallbackReasoning(query, docs)
	}
	if !legalOK {
		b.LegalAnalysis = fallbackLegalAnalysis
	}
	if !strategicOK {
		b.StrategicOptions = fallbackStrategicOptions
	}
	if s.llm != nil && !(reasoningOK && legalOK && strategicOK) {
		fail("one or more analyses fell back to defaults")
	}

	var doc BriefingDocument
	if cancelled != nil {
		fail("briefing cancelled: %v", cancelled)
		doc = fallbackDocument(query, docs)
	} else if doc, err = s.assemble(ctx, summary, b); err != nil {
		if s.llm != nil {
			fail("briefing assembly failed: %v", err)
		}
		doc = fallbackDocument(query, docs)
	}
	b.Title = doc.Title
	b.Classification = normaliseClassification(doc.Classification)
	b.Summary = doc.Summary
	b.KeyPoints = doc.KeyPoints
	b.Recommendations = doc.Recommendations

	if opts.FastMode || s.evaluation == nil || cancelled != nil {
		b.Metrics = domain.PlaceholderMetrics()
	} else {
		b.Metrics = s.evaluation.Score(ctx, query.Scenario, b.Summary, docs, distinctCountries(query))
	}

	logger.Info("Briefing generated: %d treaties, success=%t", len(b.Treaties), b.Success)
	return b, nil
}

// analyse runs one analysis prompt. The bool reports whether the LLM produced it.
func (s *BriefingService) analyse(ctx context.Context, name, summary, treaties string) (string, bool) {
	if s.llm == nil {
		return "", false
	}
	prompt, err := prompts.Render(s.promptStore, name, summary, treaties)
	if err != nil {
		return "", false
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   analysisMaxTokens,
		Temperature: 0.3,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Debug("Analysis %s failed: %v", name, err)
		return "", false
	}
	return strings.TrimSpace(text), true
}

// analysisErr reports the request's cancellation for an analysis that did not complete.
func analysisErr(ctx context.Context, ok bool) error {
	if ok {
		return nil
	}
	return ctx.Err()
}

// assemble asks the LLM for the JSON briefing document.
func (s *BriefingService) assemble(ctx context.Context, summary string, b *domain.Briefing) (BriefingDocument, error) {
	if s.llm == nil {
		return BriefingDocument{}, domain.ErrLLMUnavailable
	}
	prompt, err := prompts.Render(s.promptStore, driven.PromptBriefingDocument,
		summary, b.Reasoning, b.LegalAnalysis, b.StrategicOptions)
	if err != nil {
		return BriefingDocument{}, err
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   documentMaxTokens,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return BriefingDocument{}, err
	}
	return ParseBriefingDocument(text)
}

// ParseBriefingDocument decodes the LLM briefing JSON, tolerating a fenced
// code block or leading prose around the object.
func ParseBriefingDocument(text string) (BriefingDocument, error) {
	var doc BriefingDocument
	raw := extractJSONObject(text)
	if raw == "" {
		return doc, fmt.Errorf("%w: no JSON object in completion", domain.ErrMalformedJSON)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("%w: %w", domain.ErrMalformedJSON, err)
	}
	if strings.TrimSpace(doc.Summary) == "" {
		return doc, fmt.Errorf("%w: summary is empty", domain.ErrMalformedJSON)
	}
	return doc, nil
}

func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func normaliseClassification(c string) string {
	switch strings.ToUpper(strings.TrimSpace(c)) {
	case domain.ClassificationConfidential:
		return domain.ClassificationConfidential
	case domain.ClassificationSecret:
		return domain.ClassificationSecret
	default:
		return domain.ClassificationUnclassified
	}
}

// scenarioSummary renders the query as prompt text.
func scenarioSummary(q domain.RetrievalQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perspective: %s\n", q.SelectedCountry)
	fmt.Fprintf(&b, "Offensive party: %s\n", q.OffensiveCountry)
	fmt.Fprintf(&b, "Defensive party: %s\n", q.DefensiveCountry)
	if q.ConflictType != "" {
		fmt.Fprintf(&b, "Conflict type: %s\n", q.ConflictType)
	}
	if q.Severity != "" {
		fmt.Fprintf(&b, "Severity: %s\n", q.Severity)
	}
	if q.TimeFrame != "" {
		fmt.Fprintf(&b, "Time frame: %s\n", q.TimeFrame)
	}
	fmt.Fprintf(&b, "Scenario: %s", q.Scenario)
	return b.String()
}

func treatyReferences(docs []domain.RetrievedDocument) []domain.TreatyReference {
	refs := make([]domain.TreatyReference, 0, len(docs))
	for i := range docs {
		d := &docs[i]
		refs = append(refs, domain.TreatyReference{
			Title:          d.Chunk.Metadata.Title,
			Section:        d.Chunk.Metadata.Section,
			AdoptionDate:   d.Chunk.Metadata.AdoptionDate,
			Excerpt:        excerpt(d.Chunk.Content, briefingExcerpt),
			RelevanceScore: d.RelevanceScore,
			Reason:         d.Reason,
			Participation:  d.Participation,
		})
	}
	return refs
}

func fallbackReasoning(q domain.RetrievalQuery, docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return fmt.Sprintf("No treaties in the corpus were found to bear on the situation between %s and %s.",
			q.OffensiveCountry, q.DefensiveCountry)
	}
	titles := domain.RetrievalResult{Documents: docs}.Titles()
	return fmt.Sprintf("%d treaties may bear on the situation between %s and %s: %s.",
		len(titles), q.OffensiveCountry, q.DefensiveCountry, strings.Join(titles, "; "))
}

// fallbackDocument builds the briefing body without the LLM.
func fallbackDocument(q domain.RetrievalQuery, docs []domain.RetrievedDocument) BriefingDocument {
	doc := BriefingDocument{
		Title:          fmt.Sprintf("Treaty Briefing: %s and %s", q.OffensiveCountry, q.DefensiveCountry),
		Classification: domain.ClassificationUnclassified,
		Summary: fmt.Sprintf("Briefing for %s on the scenario: %s. %d relevant treaty excerpts were retrieved.",
			q.SelectedCountry, q.Scenario, len(docs)),
		Recommendations: append([]string(nil), fallbackRecommendations...),
	}
	for i := range docs {
		d := &docs[i]
		point := d.Chunk.Metadata.Title
		if d.Chunk.Metadata.AdoptionDate != "" && d.Chunk.Metadata.AdoptionDate != domain.UnknownDate {
			point += " (adopted " + d.Chunk.Metadata.AdoptionDate + ")"
		}
		if d.Participation != nil {
			point += ": " + string(d.Participation.SigningStatus)
		}
		doc.KeyPoints = append(doc.KeyPoints, point)
	}
	return doc
}

func distinctCountries(q domain.RetrievalQuery) []string {
	seen := make(map[string]bool, 3)
	var out []string
	for _, c := range q.Countries() {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
