package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOpenRouter is any OpenAI-compatible gateway reached through langchaingo.
	AIProviderOpenRouter AIProvider = "openrouter"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderOpenRouter:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderOpenRouter
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOpenRouter:
		return "OpenRouter (OpenAI-compatible gateway)"
	default:
		return unknownDescription
	}
}

// VectorBackend selects the VectorIndex implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory scans every vector with exact cosine similarity.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendChromem stores vectors in an in-process chromem-go collection.
	VectorBackendChromem VectorBackend = "chromem"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendMemory || b == VectorBackendChromem
}

// CorpusSettings locates the treaty corpus.
type CorpusSettings struct {
	// Path is the corpus text file.
	Path string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and gateways).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// BatchSize is the number of chunks embedded per request (1-100).
	BatchSize int

	// RequestsPerSecond paces embedding batches.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and gateways).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds retriever defaults.
type RetrievalSettings struct {
	TopK           int
	SemanticWeight float64
	Fusion         FusionStrategy
	ScenarioBoost  bool
	Rerank         bool
}

// Options converts the settings into per-request options.
func (r RetrievalSettings) Options() RetrievalOptions {
	return RetrievalOptions{
		TopK:           r.TopK,
		SemanticWeight: r.SemanticWeight,
		Strategy:       r.Fusion,
		ScenarioBoost:  r.ScenarioBoost,
		Rerank:         r.Rerank,
	}.Normalised()
}

// EvaluationSettings holds evaluation defaults.
type EvaluationSettings struct {
	// FastMode reports placeholder metrics without LLM judging.
	FastMode bool

	// TimeoutSeconds bounds a whole evaluation run.
	TimeoutSeconds int
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus     CorpusSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Retrieval  RetrievalSettings
	Evaluation EvaluationSettings
	Server     ServerSettings

	// Vector is the vector index backend.
	Vector VectorBackend

	// CacheEmbeddings persists chunk embeddings between runs.
	CacheEmbeddings bool
}

// Evaluation and embedding defaults.
const (
	DefaultEmbeddingBatchSize   = 50
	MaxEmbeddingBatchSize       = 100
	DefaultRequestsPerSecond    = 2.0
	DefaultEvaluationTimeoutSec = 300
	DefaultServerAddr           = "127.0.0.1:8420"
)

// DefaultAppSettings returns settings with sensible defaults.
// AI features are left unconfigured until the user sets a provider.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{Path: "treaties.txt"},
		Embedding: EmbeddingSettings{
			BatchSize:         DefaultEmbeddingBatchSize,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		LLM: LLMSettings{},
		Retrieval: RetrievalSettings{
			TopK:           DefaultTopK,
			SemanticWeight: DefaultSemanticWeight,
			Fusion:         FusionLinear,
			ScenarioBoost:  true,
		},
		Evaluation: EvaluationSettings{
			TimeoutSeconds: DefaultEvaluationTimeoutSec,
		},
		Server:          ServerSettings{Addr: DefaultServerAddr},
		Vector:          VectorBackendMemory,
		CacheEmbeddings: true,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderOpenRouter,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOpenRouter,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "nomic-embed-text",
		AIProviderOpenAI:     "text-embedding-3-small",
		AIProviderOpenRouter: "openai/text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "llama3.2",
		AIProviderOpenAI:     "gpt-4o-mini",
		AIProviderAnthropic:  "claude-3-5-sonnet-latest",
		AIProviderOpenRouter: "openai/gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small":        1536,
		"text-embedding-3-large":        3072,
		"text-embedding-ada-002":        1536,
		"openai/text-embedding-3-small": 1536,
	}
}
