package ai

import (
	"os"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// envKeys maps providers to the environment variable holding their API key.
var envKeys = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:     "OPENAI_API_KEY",
	domain.AIProviderAnthropic:  "ANTHROPIC_API_KEY",
	domain.AIProviderOpenRouter: "OPENROUTER_API_KEY",
}

// EnvKey returns the environment variable consulted for a provider's API key.
func EnvKey(provider domain.AIProvider) string {
	return envKeys[provider]
}

// ApplyEnvKeys overrides configured API keys with values from the environment.
// Only the settings copy is changed; nothing is written back to the config file.
func ApplyEnvKeys(settings *domain.AppSettings) {
	if settings == nil {
		return
	}
	if key := lookupKey(settings.Embedding.Provider); key != "" {
		settings.Embedding.APIKey = key
	}
	if key := lookupKey(settings.LLM.Provider); key != "" {
		settings.LLM.APIKey = key
	}
}

func lookupKey(provider domain.AIProvider) string {
	name, ok := envKeys[provider]
	if !ok {
		return ""
	}
	return os.Getenv(name)
}
