package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "set", "retrieval.top_k", "8")

	require.NoError(t, err)
	assert.Contains(t, out, "Set retrieval.top_k = 8")
	current, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, current.Retrieval.TopK)
}

func TestSettingsSet_MasksAPIKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "set", "embedding.api_key", "sk-1234567890abcdef")

	require.NoError(t, err)
	assert.Contains(t, out, "Set embedding.api_key = sk-1...cdef")
	assert.NotContains(t, out, "567890")
}

func TestSettingsSet_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown key", args: []string{"retrieval.colour", "blue"}},
		{name: "bad fusion", args: []string{"retrieval.fusion", "magic"}},
		{name: "missing value", args: []string{"retrieval.top_k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()

			_, err := execute(append([]string{"settings", "set"}, tt.args...)...)

			assert.Error(t, err)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, ts.settings.Set("corpus.path", "/data/treaties.txt"))
	require.NoError(t, ts.settings.Set("retrieval.fusion", "rrf"))

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Path: /data/treaties.txt")
	assert.Contains(t, out, "Fusion: rrf")
	assert.Contains(t, out, "[Evaluation]")
}

func TestSettings_DoesNotBuildServices(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	restore := failingServices()
	defer restore()
	settingsService = ts.settings

	_, err := execute("settings", "show")

	assert.NoError(t, err)
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: "****"},
		{input: "abc123", expected: "****"},
		{input: "12345678", expected: "****"},
		{input: "sk-1234567890abcdef", expected: "sk-1...cdef"},
		{input: "sk-ant-REDACTED", expected: "sk-a...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal int
		expected   int
	}{
		{name: "empty input returns default", input: "", defaultVal: 1, expected: 1},
		{name: "choice within range", input: "3", defaultVal: 1, expected: 3},
		{name: "zero returns default", input: "0", defaultVal: 1, expected: 1},
		{name: "above maximum returns default", input: "6", defaultVal: 1, expected: 1},
		{name: "not a number returns default", input: "abc", defaultVal: 2, expected: 2},
		{name: "negative returns default", input: "-1", defaultVal: 1, expected: 1},
		{name: "maximum is valid", input: "5", defaultVal: 1, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, 5, tt.defaultVal))
		})
	}
}
