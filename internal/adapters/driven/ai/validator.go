package ai

import (
	"fmt"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings and pings the configured service.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding rejects unknown providers, then pings the service.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config != nil && config.Provider != "" && !config.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, config.Provider)
	}
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM rejects unknown providers, then pings the service.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config != nil && config.Provider != "" && !config.Provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, config.Provider)
	}
	return ValidateLLMConfig(config)
}
