package langchain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/treatyrag/internal/adapters/driven/llm"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL  = "https://openrouter.ai/api/v1"
	DefaultLLMModel = "openai/gpt-4o-mini"
	DefaultTimeout  = 120 * time.Second

	providerName = "openrouter"
)

// Config holds configuration shared by the gateway LLM and embedder.
type Config struct {
	// APIKey is the gateway key. A leading "Bearer " is stripped.
	APIKey string

	// BaseURL is the OpenAI-compatible endpoint (default: OpenRouter).
	BaseURL string

	// Model is the chat or embedding model name.
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

func (c Config) withDefaults(model string) Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.APIKey = strings.TrimPrefix(c.APIKey, "Bearer ")
	return c
}

func newClient(cfg Config, extra ...openai.Option) (*openai.LLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", providerName)
	}
	opts := append([]openai.Option{
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}, extra...)
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: create client: %w", providerName, err)
	}
	return client, nil
}

// LLMService generates completions through langchaingo.
type LLMService struct {
	client *openai.LLM
	model  string
}

// NewLLMService creates a gateway-backed LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	cfg = cfg.withDefaults(DefaultLLMModel)
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &LLMService{client: client, model: cfg.Model}, nil
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var messages []driven.ChatMessage
	if opts.System != "" {
		messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: opts.System})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: prompt})
	return s.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	})
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	resp, err := s.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", fmt.Errorf("%s: generate: %w", providerName, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return llm.Finish(providerName, "", opts.JSONMode)
	}
	return llm.Finish(providerName, resp.Choices[0].Content, opts.JSONMode)
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case driven.RoleSystem:
		return llms.ChatMessageTypeSystem
	case driven.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping sends a one-token completion; gateways differ in what else they expose.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.client.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "ping")},
		llms.WithMaxTokens(1))
	if err != nil {
		return fmt.Errorf("%s: ping failed: %w", providerName, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
