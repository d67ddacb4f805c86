package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

type stubStore struct {
	prompts map[string]string
	err     error
}

func (s *stubStore) Load(name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.prompts[name], nil
}

func (s *stubStore) Reload() {}

func TestDefaults_CoverEveryPrompt(t *testing.T) {
	for _, name := range driven.AllPromptNames() {
		p, ok := Default(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, p, name)
	}
	assert.Len(t, Defaults(), len(driven.AllPromptNames()))
}

func TestDefaults_PlaceholderCounts(t *testing.T) {
	tests := map[string]int{
		driven.PromptRerank:             2,
		driven.PromptReasoning:          2,
		driven.PromptLegalAnalysis:      2,
		driven.PromptStrategicOptions:   2,
		driven.PromptBriefingDocument:   4,
		driven.PromptEvaluationAnswer:   2,
		driven.PromptFaithfulness:       2,
		driven.PromptAnswerRelevancy:    2,
		driven.PromptSyntheticQuestions: 2,
	}
	for name, want := range tests {
		p, _ := Default(name)
		got := strings.Count(p, "%s") + strings.Count(p, "%d")
		assert.Equal(t, want, got, name)
	}
}

func TestLoad_StoreOverrides(t *testing.T) {
	store := &stubStore{prompts: map[string]string{driven.PromptRerank: "custom %s %s"}}

	p, err := Load(store, driven.PromptRerank)

	require.NoError(t, err)
	assert.Equal(t, "custom %s %s", p)
}

func TestLoad_FallsBack(t *testing.T) {
	def, _ := Default(driven.PromptReasoning)

	p, err := Load(&stubStore{err: errors.New("disk gone")}, driven.PromptReasoning)
	require.NoError(t, err)
	assert.Equal(t, def, p)

	p, err = Load(nil, driven.PromptReasoning)
	require.NoError(t, err)
	assert.Equal(t, def, p)
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load(nil, "nope")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	out, err := Render(&stubStore{prompts: map[string]string{"x": "a=%s b=%d"}}, "x", "one", 2)

	require.NoError(t, err)
	assert.Equal(t, "a=one b=2", out)
}
