package domain

import "time"

// RAGASMetrics holds the four retrieval quality scores, each in [0, 1].
type RAGASMetrics struct {
	Faithfulness     float64 `json:"faithfulness"`
	AnswerRelevancy  float64 `json:"answerRelevancy"`
	ContextPrecision float64 `json:"contextPrecision"`
	ContextRecall    float64 `json:"contextRecall"`
}

// Mean returns the unweighted arithmetic mean of the four scores.
func (m RAGASMetrics) Mean() float64 {
	return (m.Faithfulness + m.AnswerRelevancy + m.ContextPrecision + m.ContextRecall) / 4
}

// PlaceholderMetrics are reported in fast mode, where no LLM judging runs.
func PlaceholderMetrics() RAGASMetrics {
	return RAGASMetrics{
		Faithfulness:     0.85,
		AnswerRelevancy:  0.80,
		ContextPrecision: 0.75,
		ContextRecall:    0.80,
	}
}

// TestCase is a single evaluation question.
type TestCase struct {
	Question         string   `json:"question" yaml:"question"`
	ExpectedAnswer   string   `json:"expectedAnswer,omitempty" yaml:"expected_answer"`
	ExpectedTreaties []string `json:"expectedTreaties,omitempty" yaml:"expected_treaties"`

	// Synthetic marks questions generated by the LLM.
	Synthetic bool `json:"synthetic,omitempty" yaml:"-"`
}

// EvaluationResult is the outcome of one test case.
type EvaluationResult struct {
	TestCase  TestCase     `json:"testCase"`
	Answer    string       `json:"answer"`
	Retrieved []string     `json:"retrieved"`
	Metrics   RAGASMetrics `json:"metrics"`
}

// EvaluationOptions configures an evaluation run.
type EvaluationOptions struct {
	// IncludeBaseline adds the built-in test cases.
	IncludeBaseline bool

	// GenerateSynthetic asks the LLM for extra questions drawn from the corpus.
	GenerateSynthetic bool

	// SyntheticCount is the number of synthetic questions requested.
	SyntheticCount int

	// TestSet adds caller-supplied test cases.
	TestSet []TestCase

	// FastMode skips all LLM calls and reports placeholder scores.
	FastMode bool

	// TopK is the retrieval depth per question.
	TopK int
}

// EvaluationReport aggregates an evaluation run.
type EvaluationReport struct {
	OverallScore float64            `json:"overallScore"`
	Averages     RAGASMetrics       `json:"averages"`
	Results      []EvaluationResult `json:"results"`
	Generated    []TestCase         `json:"generated,omitempty"`
	FastMode     bool               `json:"fastMode"`
	Duration     time.Duration      `json:"duration"`
}
