package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/prompts"
	"github.com/custodia-labs/treatyrag/internal/core/ranking"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

// Ensure Reranker accepts a prompt store.
var _ driven.PromptStoreAware = (*Reranker)(nil)

const (
	// minRerankCandidates is the candidate count at or below which reranking is skipped.
	minRerankCandidates = 3

	// rerankExcerptLength bounds each candidate in the rerank prompt.
	rerankExcerptLength = 400
)

// Reranker reorders candidates with a single batched LLM scoring call.
type Reranker struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewReranker creates a reranker. The llm may be nil, in which case
// Rerank returns its input unchanged.
func NewReranker(llm driven.LLMService) *Reranker {
	return &Reranker{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *Reranker) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// Rerank asks the LLM to score each document 1-10 against query and sorts by
// that score. Any failure returns docs in their original order.
func (r *Reranker) Rerank(ctx context.Context, query string, docs []domain.RetrievedDocument) []domain.RetrievedDocument {
	if r == nil || r.llm == nil || len(docs) <= minRerankCandidates {
		return docs
	}

	var candidates strings.Builder
	for i := range docs {
		fmt.Fprintf(&candidates, "[%d] %s\n", i+1, excerpt(docs[i].Chunk.Content, rerankExcerptLength))
	}

	prompt, err := prompts.Render(r.promptStore, driven.PromptRerank, query, candidates.String())
	if err != nil {
		logger.Warn("Rerank prompt unavailable: %v", err)
		return docs
	}

	logger.Debug("Reranking %d candidates with %s", len(docs), r.llm.ModelName())
	text, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   16 * len(docs),
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Rerank failed, keeping original order: %v", err)
		return docs
	}

	scores := ranking.ParseRerankScores(text, len(docs))
	out := make([]domain.RetrievedDocument, len(docs))
	copy(out, docs)
	for i := range out {
		out[i].RerankScore = scores[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})
	return out
}

// excerpt truncates s to at most n bytes on a rune boundary, adding an ellipsis.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
