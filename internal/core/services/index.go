package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/treatyrag/internal/core/corpus"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/core/ranking"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// CorpusSource produces the parsed treaty records.
type CorpusSource func(ctx context.Context) ([]domain.TreatyRecord, domain.ParseReport, error)

// FileCorpus reads the corpus from a text file.
func FileCorpus(path string) CorpusSource {
	return func(_ context.Context) ([]domain.TreatyRecord, domain.ParseReport, error) {
		return corpus.LoadFile(path)
	}
}

// TextCorpus parses an in-memory corpus.
func TextCorpus(text string) CorpusSource {
	return func(_ context.Context) ([]domain.TreatyRecord, domain.ParseReport, error) {
		records, report := corpus.Parse(text)
		return records, report, nil
	}
}

// snapshot is the immutable state of a loaded index.
type snapshot struct {
	chunks []domain.Chunk
	byID   map[string]int
	bm25   *ranking.BM25
	stats  domain.IndexStats
}

// IndexService loads the treaty corpus once and serves it read-only.
type IndexService struct {
	source   CorpusSource
	chunker  *corpus.Chunker
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
	cache    driven.EmbeddingCache

	batchSize int
	limiter   *rate.Limiter

	group singleflight.Group
	state atomic.Pointer[snapshot]
}

// IndexOption configures the index service.
type IndexOption func(*IndexService)

// WithBatchSize sets the number of chunks per embedding request (1-100).
func WithBatchSize(n int) IndexOption {
	return func(s *IndexService) {
		if n > 0 && n <= domain.MaxEmbeddingBatchSize {
			s.batchSize = n
		}
	}
}

// WithBatchRate paces embedding requests at rps batches per second.
// A non-positive rate disables pacing.
func WithBatchRate(rps float64) IndexOption {
	return func(s *IndexService) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithEmbeddingCache persists chunk embeddings between runs.
func WithEmbeddingCache(cache driven.EmbeddingCache) IndexOption {
	return func(s *IndexService) {
		s.cache = cache
	}
}

// WithChunker replaces the default chunker.
func WithChunker(c *corpus.Chunker) IndexOption {
	return func(s *IndexService) {
		if c != nil {
			s.chunker = c
		}
	}
}

// NewIndexService creates an index over source.
// The embedder is optional (can be nil); without it the index is keyword-only.
func NewIndexService(
	source CorpusSource,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	opts ...IndexOption,
) *IndexService {
	s := &IndexService{
		source:    source,
		chunker:   corpus.NewChunker(),
		vectors:   vectors,
		embedder:  embedder,
		batchSize: domain.DefaultEmbeddingBatchSize,
		limiter:   rate.NewLimiter(rate.Limit(domain.DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads, chunks and embeds the corpus on first use.
// Concurrent callers share a single load, which is detached from any one
// caller's cancellation; each caller stops waiting when its own ctx is done.
// A failed load leaves the index empty so the next call starts over.
func (s *IndexService) Initialize(ctx context.Context) error {
	if s.state.Load() != nil {
		return nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("initialize", func() (any, error) {
		if s.state.Load() != nil {
			return nil, nil
		}
		snap, err := s.load(loadCtx)
		if err != nil {
			return nil, err
		}
		s.state.Store(snap)
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			logger.Debug("Index initialisation shared with a concurrent caller")
		}
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrIndexNotReady, ctx.Err())
	}
}

// Ready reports whether the index has been loaded.
func (s *IndexService) Ready() bool {
	return s.state.Load() != nil
}

func (s *IndexService) load(ctx context.Context) (*snapshot, error) {
	logger.Section("Index Initialisation")
	start := time.Now()

	records, report, err := s.source(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load corpus: %w", domain.ErrIndexInitialization, err)
	}
	logger.Info("Parsed %d records from %d lines (%d skipped)", report.Records, report.TotalLines, report.Skipped)
	for _, w := range report.Warnings {
		logger.Debug("Skipped line %d: %s", w.Line, w.Reason)
	}

	chunks := s.chunker.Chunk(records)
	logger.Debug("Chunked into %d chunks", len(chunks))

	chunks, err = s.Embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	embedded, dims := 0, 0
	for i := range chunks {
		if !chunks[i].HasEmbedding() {
			continue
		}
		if err := s.vectors.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
			return nil, fmt.Errorf("%w: index vector %s: %w", domain.ErrIndexInitialization, chunks[i].ID, err)
		}
		embedded++
		dims = len(chunks[i].Embedding)
	}

	contents := make([]string, len(chunks))
	byID := make(map[string]int, len(chunks))
	totalLen := 0
	for i := range chunks {
		contents[i] = chunks[i].Content
		byID[chunks[i].ID] = i
		totalLen += len(chunks[i].Content)
	}

	stats := domain.IndexStats{
		Initialized:  true,
		Records:      len(records),
		Chunks:       len(chunks),
		Embedded:     embedded,
		Dimensions:   dims,
		Parse:        report,
		LoadDuration: time.Since(start),
	}
	if len(chunks) > 0 {
		stats.AvgChunkLength = float64(totalLen) / float64(len(chunks))
	}

	logger.Info("Index ready: %d chunks, %d embedded, %s", stats.Chunks, stats.Embedded, stats.LoadDuration)
	return &snapshot{
		chunks: chunks,
		byID:   byID,
		bm25:   ranking.NewBM25(contents),
		stats:  stats,
	}, nil
}

// Embed returns chunks with embeddings populated, in input order.
// Batches run sequentially, paced by the rate limiter. Any batch failure
// fails the whole call so no partially embedded index is ever built.
// Without an embedding service the chunks are returned unchanged.
func (s *IndexService) Embed(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if s.embedder == nil {
		logger.Warn("Embedding service unavailable, index is keyword-only")
		return chunks, nil
	}

	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)

	model := s.embedder.ModelName()
	keys := make([]string, len(out))
	for i := range out {
		keys[i] = contentKey(out[i].Content)
	}

	pending := s.applyCached(ctx, model, out, keys)
	logger.Debug("Embedding %d chunks (%d cached) in batches of %d", len(pending), len(out)-len(pending), s.batchSize)

	fresh := make(map[string][]float32, len(pending))
	for start := 0; start < len(pending); start += s.batchSize {
		end := min(start+s.batchSize, len(pending))
		batch := pending[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: wait for embedding batch: %w", domain.ErrIndexInitialization, err)
		}

		texts := make([]string, len(batch))
		for i, idx := range batch {
			texts[i] = out[idx].Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: embed batch %d-%d: %w", domain.ErrIndexInitialization, start, end, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: embed batch %d-%d: got %d vectors for %d texts",
				domain.ErrIndexInitialization, start, end, len(vectors), len(batch))
		}
		for i, idx := range batch {
			out[idx].Embedding = vectors[i]
			fresh[keys[idx]] = vectors[i]
		}
		logger.Debug("Embedded batch %d-%d", start, end)
	}

	if s.cache != nil && len(fresh) > 0 {
		if err := s.cache.PutMany(ctx, model, fresh); err != nil {
			logger.Warn("Embedding cache write failed: %v", err)
		}
	}
	return out, nil
}

// applyCached fills embeddings from the cache and returns the indices still missing.
func (s *IndexService) applyCached(ctx context.Context, model string, chunks []domain.Chunk, keys []string) []int {
	var cached map[string][]float32
	if s.cache != nil {
		var err error
		cached, err = s.cache.GetMany(ctx, model, keys)
		if err != nil {
			logger.Warn("Embedding cache read failed: %v", err)
			cached = nil
		}
	}

	pending := make([]int, 0, len(chunks))
	for i := range chunks {
		if v, ok := cached[keys[i]]; ok && len(v) > 0 {
			chunks[i].Embedding = v
			continue
		}
		pending = append(pending, i)
	}
	return pending
}

func contentKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// EmbedQuery embeds a single query text. One round trip per call.
func (s *IndexService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vec, nil
}

// CanEmbed reports whether semantic search is possible.
func (s *IndexService) CanEmbed() bool {
	snap := s.state.Load()
	return s.embedder != nil && snap != nil && snap.stats.Embedded > 0
}

// Chunks returns the loaded chunks in corpus order.
func (s *IndexService) Chunks() ([]domain.Chunk, error) {
	snap := s.state.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}
	return snap.chunks, nil
}

// Chunk returns a loaded chunk by ID.
func (s *IndexService) Chunk(id string) (*domain.Chunk, bool) {
	snap := s.state.Load()
	if snap == nil {
		return nil, false
	}
	i, ok := snap.byID[id]
	if !ok {
		return nil, false
	}
	return &snap.chunks[i], true
}

// KeywordScores returns the BM25 score of every chunk for text, indexed like Chunks.
func (s *IndexService) KeywordScores(text string) ([]float64, error) {
	snap := s.state.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}
	return snap.bm25.Score(text), nil
}

// Stats describes the loaded index. Before initialisation only Initialized=false is set.
func (s *IndexService) Stats() domain.IndexStats {
	snap := s.state.Load()
	if snap == nil {
		return domain.IndexStats{}
	}
	return snap.stats
}

// SearchVectors returns the k chunks nearest to the query vector.
// An index without embeddings returns no hits.
func (s *IndexService) SearchVectors(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if s.state.Load() == nil {
		return nil, domain.ErrIndexNotReady
	}
	if s.vectors.Len() == 0 || len(query) == 0 {
		return nil, nil
	}
	hits, err := s.vectors.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return hits, nil
}
