// Package llm holds the checks shared by the LLM provider adapters.
// Each provider lives in its own subpackage.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// Finish validates a raw completion.
// Blank output is domain.ErrEmptyCompletion. In JSON mode the text must hold
// a JSON object, optionally wrapped in a markdown code fence, otherwise the
// result is domain.ErrMalformedJSON. The returned text is trimmed and unfenced.
func Finish(provider, text string, jsonMode bool) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", provider, domain.ErrEmptyCompletion)
	}
	if !jsonMode {
		return text, nil
	}
	text = Unfence(text)
	if !strings.HasPrefix(text, "{") || !json.Valid([]byte(text)) {
		return "", fmt.Errorf("%s: %w", provider, domain.ErrMalformedJSON)
	}
	return text, nil
}

// Unfence strips a surrounding ``` or ```json fence.
func Unfence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

// StatusError describes a non-2xx provider response.
// 429 maps to domain.ErrRateLimited so callers can back off.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	if status == 429 {
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrRateLimited, status, msg)
	}
	return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
}
