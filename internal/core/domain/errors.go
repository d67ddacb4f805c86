package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Reranking, evaluation judging and briefing prose fall back to fixed text.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Semantic retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Index Errors.

	// ErrIndexNotReady indicates the treaty index has not been initialised.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrIndexInitialization indicates loading, chunking or embedding the corpus failed.
	// No partial index is kept; the next request retries from scratch.
	ErrIndexInitialization = errors.New("index initialization failed")

	// Completion Errors.

	// ErrEmptyCompletion indicates the LLM returned no content.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrMalformedJSON indicates a JSON-mode completion could not be decoded.
	ErrMalformedJSON = errors.New("malformed JSON completion")

	// ErrEvaluationTimeout indicates an evaluation run exceeded its budget.
	// The caller may retry.
	ErrEvaluationTimeout = errors.New("evaluation timed out")
)
