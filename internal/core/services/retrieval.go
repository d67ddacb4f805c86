package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/expansion"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/core/ranking"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// minCandidatePool is the smallest number of candidates pulled from each channel.
const minCandidatePool = 20

// RetrievalService runs hybrid treaty retrieval over the index.
type RetrievalService struct {
	index    *IndexService
	reranker *Reranker
}

// NewRetrievalService creates a retrieval service.
// The reranker is optional (can be nil).
func NewRetrievalService(index *IndexService, reranker *Reranker) *RetrievalService {
	return &RetrievalService{
		index:    index,
		reranker: reranker,
	}
}

// Search retrieves treaties for a scenario.
func (s *RetrievalService) Search(
	ctx context.Context, query domain.RetrievalQuery, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	logger.Section("Treaty Retrieval")

	if err := query.Validate(); err != nil {
		return domain.RetrievalResult{}, err
	}

	exp := expansion.Build(query)
	logger.Debug("Expanded %d base terms to %d terms (cap %d, truncated=%t)",
		len(exp.BaseTerms), len(exp.Terms), exp.Cap, exp.Truncated)

	rc := ranking.NewRuleContext(query)
	return s.run(ctx, exp.Text(), query.Scenario, &query, &rc, opts)
}

// SearchText retrieves treaties for free text. No expansion or scenario
// boosting is applied.
func (s *RetrievalService) SearchText(
	ctx context.Context, text string, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	logger.Section("Text Retrieval")

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.RetrievalResult{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidInput)
	}
	opts.ScenarioBoost = false

	rc := ranking.RuleContext{Scenario: strings.ToLower(text)}
	return s.run(ctx, text, text, nil, &rc, opts)
}

func (s *RetrievalService) run(
	ctx context.Context,
	searchText, rawQuery string,
	query *domain.RetrievalQuery,
	rc *ranking.RuleContext,
	opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	start := time.Now()

	if err := s.index.Initialize(ctx); err != nil {
		return domain.RetrievalResult{}, err
	}

	opts = opts.Normalised()
	pool := max(opts.TopK*4, minCandidatePool)
	strategy := s.effectiveStrategy(opts.Strategy)
	logger.Debug("TopK: %d, weight: %.2f, strategy: %s, pool: %d", opts.TopK, opts.SemanticWeight, strategy, pool)

	result := domain.RetrievalResult{
		Query:               searchText,
		TotalChunksSearched: s.index.Stats().Chunks,
	}

	var semantic, keyword []ranking.Scored
	var similarity, bm25 map[string]float64
	var semErr, kwErr error
	var wg sync.WaitGroup

	if strategy.RequiresEmbedding() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			embedStart := time.Now()
			vec, err := s.index.EmbedQuery(ctx, searchText)
			result.Timing.Embedding = time.Since(embedStart)
			if err != nil {
				semErr = err
				return
			}
			semantic, similarity, semErr = s.semanticChannel(ctx, vec, pool, rc)
		}()
	}
	if strategy != domain.FusionSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keyword, bm25, kwErr = s.keywordChannel(searchText, pool, rc)
		}()
	}
	wg.Wait()

	if kwErr != nil {
		return domain.RetrievalResult{}, fmt.Errorf("keyword search: %w", kwErr)
	}
	if semErr != nil {
		if errors.Is(semErr, context.Canceled) || errors.Is(semErr, context.DeadlineExceeded) {
			return domain.RetrievalResult{}, semErr
		}
		logger.Warn("Semantic search failed, using keyword results: %v", semErr)
		if keyword == nil {
			keyword, bm25, kwErr = s.keywordChannel(searchText, pool, rc)
			if kwErr != nil {
				return domain.RetrievalResult{}, fmt.Errorf("keyword search: %w", kwErr)
			}
		}
		strategy = domain.FusionKeyword
	}
	logger.Debug("Channel candidates: semantic=%d, keyword=%d", len(semantic), len(keyword))

	var merged []ranking.Scored
	switch strategy {
	case domain.FusionRRF:
		merged = ranking.FuseRRF(ranking.DefaultRRFK, semantic, keyword)
	case domain.FusionSemantic:
		merged = semantic
	case domain.FusionKeyword:
		merged = keyword
	default:
		merged = ranking.FuseLinear(semantic, keyword, opts.SemanticWeight)
	}

	docs := s.hydrate(merged, similarity, bm25)

	if opts.ScenarioBoost && query != nil {
		applyScenarioBoost(docs, query, rc)
		ranking.OrderByLeverage(docs)
	} else {
		ranking.OrderByScore(docs)
	}

	if len(docs) > opts.TopK {
		docs = docs[:opts.TopK]
	}
	result.Timing.Search = time.Since(start) - result.Timing.Embedding

	if opts.Rerank && s.reranker != nil {
		rerankStart := time.Now()
		docs = s.reranker.Rerank(ctx, rawQuery, docs)
		result.Timing.Rerank = time.Since(rerankStart)
	}

	result.Documents = docs
	result.Strategy = strategy
	result.Timing.Total = time.Since(start)
	logger.Info("Retrieved %d documents in %s", len(docs), result.Timing.Total)
	return result, nil
}

// effectiveStrategy degrades to keyword search when the index has no vectors.
func (s *RetrievalService) effectiveStrategy(requested domain.FusionStrategy) domain.FusionStrategy {
	if requested.RequiresEmbedding() && !s.index.CanEmbed() {
		logger.Debug("No embeddings available, degrading %s to keyword", requested)
		return domain.FusionKeyword
	}
	return requested
}

// semanticChannel scores vector hits with the relevance rule table.
// It also returns the raw cosine similarity per chunk.
func (s *RetrievalService) semanticChannel(
	ctx context.Context, vec []float32, pool int, rc *ranking.RuleContext,
) ([]ranking.Scored, map[string]float64, error) {
	hits, err := s.index.SearchVectors(ctx, vec, pool)
	if err != nil {
		return nil, nil, err
	}

	scorer := ranking.RelevanceScorer()
	out := make([]ranking.Scored, 0, len(hits))
	raw := make(map[string]float64, len(hits))
	for _, hit := range hits {
		chunk, ok := s.index.Chunk(hit.ChunkID)
		if !ok {
			continue
		}
		doc := domain.RetrievedDocument{Chunk: *chunk, Similarity: hit.Similarity}
		score, reason := scorer.Score(hit.Similarity, &doc, rc)
		out = append(out, ranking.Scored{ID: hit.ChunkID, Score: score, Reason: reason})
		raw[hit.ChunkID] = hit.Similarity
	}
	ranking.SortScored(out)
	return out, raw, nil
}

// keywordChannel ranks chunks by BM25 and applies the keyword rule table.
// Chunks that share no token with the query are not candidates. It also
// returns the normalised BM25 score per chunk.
func (s *RetrievalService) keywordChannel(
	text string, pool int, rc *ranking.RuleContext,
) ([]ranking.Scored, map[string]float64, error) {
	chunks, err := s.index.Chunks()
	if err != nil {
		return nil, nil, err
	}
	scores, err := s.index.KeywordScores(text)
	if err != nil {
		return nil, nil, err
	}

	raw := make([]ranking.Scored, 0, len(scores))
	for i, score := range scores {
		if score > 0 {
			raw = append(raw, ranking.Scored{ID: chunks[i].ID, Score: score})
		}
	}
	ranking.SortScored(raw)
	if len(raw) > pool {
		raw = raw[:pool]
	}
	ranking.MaxNormalise(raw)

	normalised := make(map[string]float64, len(raw))
	scorer := ranking.KeywordScorer()
	for i := range raw {
		normalised[raw[i].ID] = raw[i].Score
		chunk, _ := s.index.Chunk(raw[i].ID)
		doc := domain.RetrievedDocument{Chunk: *chunk, KeywordScore: raw[i].Score}
		raw[i].Score, raw[i].Reason = scorer.Score(raw[i].Score, &doc, rc)
	}
	ranking.SortScored(raw)
	return raw, normalised, nil
}

// hydrate turns fused candidates into retrieved documents.
func (s *RetrievalService) hydrate(
	merged []ranking.Scored, similarity, keywordScore map[string]float64,
) []domain.RetrievedDocument {
	docs := make([]domain.RetrievedDocument, 0, len(merged))
	for _, c := range merged {
		chunk, ok := s.index.Chunk(c.ID)
		if !ok {
			continue
		}
		docs = append(docs, domain.RetrievedDocument{
			Chunk:          *chunk,
			Similarity:     similarity[c.ID],
			KeywordScore:   keywordScore[c.ID],
			RelevanceScore: c.Score,
			Reason:         c.Reason,
		})
	}
	return docs
}

// applyScenarioBoost classifies participation and adds the scenario boosts.
func applyScenarioBoost(docs []domain.RetrievedDocument, q *domain.RetrievalQuery, rc *ranking.RuleContext) {
	scorer := ranking.ScenarioScorer()
	for i := range docs {
		p := ranking.Classify(docs[i].Chunk.Content, q.SelectedCountry, q.OffensiveCountry, q.DefensiveCountry)
		docs[i].Participation = &p

		score, reason := scorer.Score(docs[i].RelevanceScore, &docs[i], rc)
		docs[i].RelevanceScore = score
		docs[i].Reason = joinReasons(docs[i].Reason, reason)
	}
}

func joinReasons(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
