package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func TestEvaluateCmd_Defaults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.evaluation.report = domain.EvaluationReport{
		OverallScore: 0.625,
		Averages:     domain.RAGASMetrics{Faithfulness: 0.5, AnswerRelevancy: 0.75},
		Results: []domain.EvaluationResult{{
			TestCase: domain.TestCase{Question: "Which treaties ban nuclear tests?"},
			Metrics:  domain.RAGASMetrics{Faithfulness: 0.5, AnswerRelevancy: 0.75},
		}},
		Duration: 1500 * time.Millisecond,
	}

	out, err := execute("evaluate")

	require.NoError(t, err)
	opts := ts.evaluation.lastOpts
	assert.True(t, opts.IncludeBaseline)
	assert.False(t, opts.GenerateSynthetic)
	assert.Equal(t, defaultSyntheticCount, opts.SyntheticCount)
	assert.Equal(t, domain.DefaultTopK, opts.TopK)

	assert.Contains(t, out, "[1] Which treaties ban nuclear tests?")
	assert.Contains(t, out, "Overall score: 0.625")
	assert.Contains(t, out, "Completed in 1.5s")
	assert.NotContains(t, out, "placeholder")
}

func TestEvaluateCmd_SyntheticOnly(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.evaluation.report = domain.EvaluationReport{
		Generated: []domain.TestCase{{
			Question:         "What does the Outer Space Treaty prohibit?",
			ExpectedTreaties: []string{"Outer Space Treaty"},
			Synthetic:        true,
		}},
	}

	out, err := execute("evaluate", "--baseline=false", "--synthetic", "--count", "2")

	require.NoError(t, err)
	assert.False(t, ts.evaluation.lastOpts.IncludeBaseline)
	assert.True(t, ts.evaluation.lastOpts.GenerateSynthetic)
	assert.Equal(t, 2, ts.evaluation.lastOpts.SyntheticCount)
	assert.Contains(t, out, "Generated questions:")
	assert.Contains(t, out, "expects: Outer Space Treaty")
}

func TestEvaluateCmd_FastModeAndTestSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	cases := []domain.TestCase{{Question: "q1"}, {Question: "q2"}}
	ts.TestSets = &mockTestSets{cases: cases}
	ts.evaluation.report = domain.EvaluationReport{
		FastMode: true,
		Results:  []domain.EvaluationResult{{TestCase: cases[0]}},
	}

	out, err := execute("evaluate", "--fast", "--testset", "cases.yaml")

	require.NoError(t, err)
	assert.True(t, ts.evaluation.lastOpts.FastMode)
	assert.Equal(t, cases, ts.evaluation.lastOpts.TestSet)
	assert.Contains(t, out, "(fast mode, placeholder metrics)")
}

func TestEvaluateCmd_NothingRun(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("evaluate", "--baseline=false")

	require.NoError(t, err)
	assert.Contains(t, out, "No test cases were run.")
}

func TestEvaluateCmd_RejectsArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("evaluate", "extra")

	assert.Error(t, err)
}
