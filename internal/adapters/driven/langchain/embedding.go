package langchain

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = "openai/text-embedding-3-small"

// EmbeddingService embeds text through a langchaingo embedder.
type EmbeddingService struct {
	embedder   *embeddings.EmbedderImpl
	model      string
	dimensions int
}

// NewEmbeddingService creates a gateway-backed embedding service.
// Batching is left to the caller, so the embedder sends each call as one request.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	cfg = cfg.withDefaults(DefaultEmbeddingModel)
	client, err := newClient(cfg, openai.WithEmbeddingModel(cfg.Model))
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(100),
		embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("%s: create embedder: %w", providerName, err)
	}
	return &EmbeddingService{embedder: embedder, model: cfg.Model}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: embed: %w", providerName, err)
	}
	s.observe(vector)
	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%s: embed batch: %w", providerName, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%s: got %d embeddings for %d inputs", providerName, len(vectors), len(texts))
	}
	s.observe(vectors[0])
	return vectors, nil
}

func (s *EmbeddingService) observe(v []float32) {
	if s.dimensions == 0 {
		s.dimensions = len(v)
	}
}

// Dimensions returns the vector size seen so far, 0 before the first call.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a single word.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, "ping"); err != nil {
		return err
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
