package services

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCorpusPath        = "corpus.path"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyEmbedRate         = "embedding.requests_per_second"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyRetrievalTopK     = "retrieval.top_k"
	keyRetrievalWeight   = "retrieval.semantic_weight"
	keyRetrievalFusion   = "retrieval.fusion"
	keyRetrievalBoost    = "retrieval.scenario_boost"
	keyRetrievalRerank   = "retrieval.rerank"
	keyEvalFastMode      = "evaluation.fast_mode"
	keyEvalTimeout       = "evaluation.timeout_seconds"
	keyVectorBackend     = "vector.backend"
	keyCacheEnabled      = "cache.enabled"
	keyServerAddr        = "server.addr"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// SettingKeys returns every key accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		keyCorpusPath,
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedBatchSize, keyEmbedRate,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
		keyRetrievalTopK, keyRetrievalWeight, keyRetrievalFusion, keyRetrievalBoost, keyRetrievalRerank,
		keyEvalFastMode, keyEvalTimeout,
		keyVectorBackend, keyCacheEnabled, keyServerAddr,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Path: s.getString(keyCorpusPath, defaults.Corpus.Path),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:           s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			SemanticWeight: s.getFloat(keyRetrievalWeight, defaults.Retrieval.SemanticWeight),
			Fusion:         s.getFusion(defaults.Retrieval.Fusion),
			ScenarioBoost:  s.getBool(keyRetrievalBoost, defaults.Retrieval.ScenarioBoost),
			Rerank:         s.getBool(keyRetrievalRerank, defaults.Retrieval.Rerank),
		},
		Evaluation: domain.EvaluationSettings{
			FastMode:       s.getBool(keyEvalFastMode, defaults.Evaluation.FastMode),
			TimeoutSeconds: s.getInt(keyEvalTimeout, defaults.Evaluation.TimeoutSeconds),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
		Vector:          s.getVectorBackend(defaults.Vector),
		CacheEmbeddings: s.getBool(keyCacheEnabled, defaults.CacheEmbeddings),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyCorpusPath, settings.Corpus.Path},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedRate, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalWeight, settings.Retrieval.SemanticWeight},
		{keyRetrievalFusion, settings.Retrieval.Fusion.String()},
		{keyRetrievalBoost, settings.Retrieval.ScenarioBoost},
		{keyRetrievalRerank, settings.Retrieval.Rerank},
		{keyEvalFastMode, settings.Evaluation.FastMode},
		{keyEvalTimeout, settings.Evaluation.TimeoutSeconds},
		{keyVectorBackend, string(settings.Vector)},
		{keyCacheEnabled, settings.CacheEmbeddings},
		{keyServerAddr, settings.Server.Addr},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// API keys are only written when set.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// Set parses and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	value = strings.TrimSpace(value)

	var parsed any
	var err error
	switch key {
	case keyCorpusPath, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyServerAddr:
		parsed = value
	case keyEmbedProvider, keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			err = fmt.Errorf("unknown provider %q", value)
		}
		parsed = value
	case keyRetrievalFusion:
		if !domain.FusionStrategy(value).IsValid() {
			err = fmt.Errorf("unknown fusion strategy %q", value)
		}
		parsed = value
	case keyVectorBackend:
		if !domain.VectorBackend(value).IsValid() {
			err = fmt.Errorf("unknown vector backend %q", value)
		}
		parsed = value
	case keyEmbedBatchSize:
		parsed, err = parseIntRange(value, 1, domain.MaxEmbeddingBatchSize)
	case keyRetrievalTopK:
		parsed, err = parseIntRange(value, 1, domain.MaxTopK)
	case keyEvalTimeout:
		parsed, err = parseIntRange(value, 1, 3600)
	case keyRetrievalWeight:
		parsed, err = parseFloatRange(value, 0, 1)
	case keyEmbedRate:
		parsed, err = parseFloatRange(value, 0, 1000)
	case keyRetrievalBoost, keyRetrievalRerank, keyEvalFastMode, keyCacheEnabled:
		parsed, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return s.configStore.Set(key, parsed)
}

func parseIntRange(value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return n, nil
}

func parseFloatRange(value string, lo, hi float64) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("must be between %g and %g", lo, hi)
	}
	return f, nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	settings.Embedding.BaseURL = providerBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	settings.LLM.BaseURL = providerBaseURL(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// providerBaseURL keeps a custom endpoint for local providers and gateways
// and clears it for fixed cloud APIs.
func providerBaseURL(provider domain.AIProvider, current string) string {
	switch {
	case provider.IsLocal():
		if current == "" {
			return defaultOllamaBaseURL
		}
		return current
	case provider == domain.AIProviderOpenRouter:
		return current
	default:
		return ""
	}
}

// Validate checks the current settings are coherent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if strings.TrimSpace(settings.Corpus.Path) == "" {
		errs = append(errs, errors.New("corpus path is not set"))
	}
	if !settings.Retrieval.Fusion.IsValid() {
		errs = append(errs, fmt.Errorf("invalid fusion strategy: %s", settings.Retrieval.Fusion))
	}
	if settings.Retrieval.Fusion.RequiresEmbedding() && settings.Embedding.Provider != "" &&
		!settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf(
			"fusion %q needs a configured embedding provider, %s is not usable",
			settings.Retrieval.Fusion, settings.Embedding.Provider.Description(),
		))
	}
	if settings.Retrieval.Rerank && !settings.LLM.IsConfigured() {
		errs = append(errs, errors.New("reranking requires an LLM provider to be configured"))
	}
	if !settings.Vector.IsValid() {
		errs = append(errs, fmt.Errorf("invalid vector backend: %s", settings.Vector))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getFusion(defaultVal domain.FusionStrategy) domain.FusionStrategy {
	fusion := domain.FusionStrategy(s.configStore.GetString(keyRetrievalFusion))
	if !fusion.IsValid() {
		return defaultVal
	}
	return fusion
}

func (s *SettingsService) getVectorBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
