package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrIndexNotReady", ErrIndexNotReady},
		{"ErrIndexInitialization", ErrIndexInitialization},
		{"ErrEmptyCompletion", ErrEmptyCompletion},
		{"ErrMalformedJSON", ErrMalformedJSON},
		{"ErrEvaluationTimeout", ErrEvaluationTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmptyCompletion, ErrMalformedJSON))
	assert.False(t, errors.Is(ErrIndexNotReady, ErrIndexInitialization))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("embed batch 3: %w", ErrIndexInitialization)
	assert.True(t, errors.Is(wrapped, ErrIndexInitialization))
	assert.Contains(t, wrapped.Error(), "index initialization failed")
}
