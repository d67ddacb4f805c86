package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func TestParse_Mapping(t *testing.T) {
	cases, err := Parse([]byte(`
cases:
  - question: "  Which treaty bans chemical weapons? "
    expected_answer: The Chemical Weapons Convention.
    expected_treaties: ["Chemical Weapons Convention", "  "]
  - question: What governs the law of the sea?
`))
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "Which treaty bans chemical weapons?", cases[0].Question)
	assert.Equal(t, []string{"Chemical Weapons Convention"}, cases[0].ExpectedTreaties)
	assert.Empty(t, cases[1].ExpectedTreaties)
	assert.False(t, cases[0].Synthetic)
}

func TestParse_List(t *testing.T) {
	cases, err := Parse([]byte(`
- question: Q1
  expected_treaties: [A]
`))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, []string{"A"}, cases[0].ExpectedTreaties)
}

func TestParse_Invalid(t *testing.T) {
	inputs := map[string]string{
		"empty":            "",
		"scalar":           "just text",
		"missing question": "- expected_answer: x",
		"no cases":         "cases: []",
		"bad yaml":         "cases: [",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- question: Q\n"), 0o600))

	cases, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Len(t, cases, 1)

	_, err = NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
