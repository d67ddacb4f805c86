package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/core/prompts"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

// Ensure EvaluationService implements the interface.
var _ driving.EvaluationService = (*EvaluationService)(nil)

const (
	// neutralJudgeScore is used when an LLM judgement is missing or unparseable.
	neutralJudgeScore = 0.5

	defaultSyntheticCount = 3
	maxSyntheticCount     = 20

	// syntheticSourceChunks is how many treaties are shown to the question generator.
	syntheticSourceChunks = 8

	evaluationContextLength = 600
)

// baselineTestSet is the built-in evaluation set.
var baselineTestSet = []domain.TestCase{
	{
		Question:         "Which treaty prohibits the development, production and stockpiling of chemical weapons?",
		ExpectedAnswer:   "The Chemical Weapons Convention prohibits chemical weapons and requires destruction of existing stockpiles.",
		ExpectedTreaties: []string{"Chemical Weapons"},
	},
	{
		Question:         "Which agreement commits states not to transfer nuclear weapons to non-nuclear-weapon states?",
		ExpectedAnswer:   "The Treaty on the Non-Proliferation of Nuclear Weapons.",
		ExpectedTreaties: []string{"Non-Proliferation of Nuclear Weapons"},
	},
	{
		Question:         "What convention governs how treaties between states are concluded, interpreted and terminated?",
		ExpectedAnswer:   "The Vienna Convention on the Law of Treaties.",
		ExpectedTreaties: []string{"Law of Treaties"},
	},
	{
		Question:         "Which convention defines maritime zones such as the territorial sea and exclusive economic zone?",
		ExpectedAnswer:   "The United Nations Convention on the Law of the Sea.",
		ExpectedTreaties: []string{"Law of the Sea"},
	},
	{
		Question:         "Which treaty protects the civil and political rights of individuals against their state?",
		ExpectedAnswer:   "The International Covenant on Civil and Political Rights.",
		ExpectedTreaties: []string{"Civil and Political Rights"},
	},
}

// BaselineTestSet returns a copy of the built-in evaluation set.
func BaselineTestSet() []domain.TestCase {
	out := make([]domain.TestCase, len(baselineTestSet))
	for i, tc := range baselineTestSet {
		tc.ExpectedTreaties = append([]string(nil), tc.ExpectedTreaties...)
		out[i] = tc
	}
	return out
}

// EvaluationService scores retrieval quality with RAGAS-style metrics.
type EvaluationService struct {
	retrieval   driving.RetrievalService
	index       driving.IndexService
	llm         driven.LLMService
	promptStore driven.PromptStore
	timeout     time.Duration
}

// NewEvaluationService creates an evaluation service.
// The llm is optional (can be nil); judged metrics then fall back to neutral scores.
func NewEvaluationService(
	retrieval driving.RetrievalService,
	index driving.IndexService,
	llm driven.LLMService,
	timeout time.Duration,
) *EvaluationService {
	if timeout <= 0 {
		timeout = time.Duration(domain.DefaultEvaluationTimeoutSec) * time.Second
	}
	return &EvaluationService{
		retrieval: retrieval,
		index:     index,
		llm:       llm,
		timeout:   timeout,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *EvaluationService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Evaluate runs the selected test cases.
//
// Cases come from opts.TestSet when given, otherwise from the baseline set
// when IncludeBaseline is set. Synthetic questions are appended when
// GenerateSynthetic is set; with no other cases selected the run only
// returns the generated questions. Fast mode skips scoring entirely and
// reports placeholder metrics.
func (s *EvaluationService) Evaluate(ctx context.Context, opts domain.EvaluationOptions) (domain.EvaluationReport, error) {
	logger.Section("Evaluation")
	start := time.Now()

	if opts.FastMode {
		logger.Info("Fast mode: returning placeholder metrics")
		placeholder := domain.PlaceholderMetrics()
		return domain.EvaluationReport{
			OverallScore: placeholder.Mean(),
			Averages:     placeholder,
			FastMode:     true,
			Duration:     time.Since(start),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var cases []domain.TestCase
	switch {
	case len(opts.TestSet) > 0:
		cases = append(cases, opts.TestSet...)
	case opts.IncludeBaseline:
		cases = BaselineTestSet()
	}

	report := domain.EvaluationReport{}
	if opts.GenerateSynthetic {
		generated, err := s.GenerateSynthetic(ctx, opts.SyntheticCount)
		if err != nil {
			if isDeadline(ctx, err) {
				return domain.EvaluationReport{}, s.timeoutError(err)
			}
			logger.Warn("Synthetic generation failed: %v", err)
		}
		report.Generated = generated
		if len(cases) == 0 {
			logger.Info("Synthetic-only run: %d questions generated", len(generated))
			report.Duration = time.Since(start)
			return report, nil
		}
		cases = append(cases, generated...)
	}

	if len(cases) == 0 {
		return domain.EvaluationReport{}, fmt.Errorf("%w: no test cases selected", domain.ErrInvalidInput)
	}

	logger.Info("Evaluating %d test cases", len(cases))
	for i, tc := range cases {
		result, err := s.evaluateCase(ctx, tc, opts.TopK)
		if err != nil {
			if isDeadline(ctx, err) {
				return domain.EvaluationReport{}, s.timeoutError(err)
			}
			return domain.EvaluationReport{}, fmt.Errorf("evaluate case %d: %w", i+1, err)
		}
		logger.Debug("Case %d: mean %.2f", i+1, result.Metrics.Mean())
		report.Results = append(report.Results, result)
	}

	report.Averages = averageMetrics(report.Results)
	report.OverallScore = report.Averages.Mean()
	report.Duration = time.Since(start)
	logger.Info("Overall score: %.3f in %s", report.OverallScore, report.Duration)
	return report, nil
}

func (s *EvaluationService) timeoutError(err error) error {
	return fmt.Errorf("%w after %s: %w", domain.ErrEvaluationTimeout, s.timeout, err)
}

func isDeadline(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func (s *EvaluationService) evaluateCase(ctx context.Context, tc domain.TestCase, topK int) (domain.EvaluationResult, error) {
	retrieved, err := s.retrieval.SearchText(ctx, tc.Question, domain.RetrievalOptions{
		TopK:     topK,
		Strategy: domain.FusionKeyword,
	})
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	answer := s.answer(ctx, tc.Question, retrieved.Documents)
	if err := ctx.Err(); err != nil {
		return domain.EvaluationResult{}, err
	}

	metrics := s.Score(ctx, tc.Question, answer, retrieved.Documents, tc.ExpectedTreaties)
	if err := ctx.Err(); err != nil {
		return domain.EvaluationResult{}, err
	}

	return domain.EvaluationResult{
		TestCase:  tc,
		Answer:    answer,
		Retrieved: retrieved.Titles(),
		Metrics:   metrics,
	}, nil
}

// answer generates an answer from the retrieved context. Without an LLM the
// best excerpt stands in for the answer.
func (s *EvaluationService) answer(ctx context.Context, question string, docs []domain.RetrievedDocument) string {
	fallback := ""
	if len(docs) > 0 {
		fallback = excerpt(docs[0].Chunk.Content, evaluationContextLength)
	}
	if s.llm == nil {
		return fallback
	}

	prompt, err := prompts.Render(s.promptStore, driven.PromptEvaluationAnswer, question, contextText(docs))
	if err != nil {
		return fallback
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 300, Temperature: 0})
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Debug("Answer generation failed: %v", err)
		return fallback
	}
	return strings.TrimSpace(text)
}

// Score computes all four metrics for one answer. The two judged metrics
// run concurrently.
func (s *EvaluationService) Score(
	ctx context.Context, question, answer string, retrieved []domain.RetrievedDocument, expected []string,
) domain.RAGASMetrics {
	contents := make([]string, len(retrieved))
	for i := range retrieved {
		contents[i] = retrieved[i].Chunk.Content
	}

	m := domain.RAGASMetrics{
		ContextPrecision: ContextPrecision(contents, expected),
		ContextRecall:    ContextRecall(contents, expected),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.Faithfulness = s.judge(ctx, driven.PromptFaithfulness, contextText(retrieved), answer)
	}()
	go func() {
		defer wg.Done()
		m.AnswerRelevancy = s.judge(ctx, driven.PromptAnswerRelevancy, question, answer)
	}()
	wg.Wait()
	return m
}

// judge asks the LLM for a 0-1 score. Any failure yields the neutral score.
func (s *EvaluationService) judge(ctx context.Context, name, first, second string) float64 {
	if s.llm == nil {
		return neutralJudgeScore
	}
	prompt, err := prompts.Render(s.promptStore, name, first, second)
	if err != nil {
		return neutralJudgeScore
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 10, Temperature: 0})
	if err != nil {
		logger.Debug("Judge %s failed: %v", name, err)
		return neutralJudgeScore
	}
	return ParseJudgeScore(text)
}

var scoreRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseJudgeScore reads the first number in text. Missing or out-of-range
// values give the neutral score 0.5.
func ParseJudgeScore(text string) float64 {
	m := scoreRe.FindString(text)
	if m == "" {
		return neutralJudgeScore
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 || v > 1 {
		return neutralJudgeScore
	}
	return v
}

// ContextPrecision is the fraction of retrieved contents naming at least one
// expected treaty. Nothing retrieved scores 0.
func ContextPrecision(retrieved, expected []string) float64 {
	if len(retrieved) == 0 {
		return 0
	}
	hits := 0
	for _, content := range retrieved {
		lower := strings.ToLower(content)
		for _, name := range expected {
			needle := strings.ToLower(strings.TrimSpace(name))
			if needle != "" && strings.Contains(lower, needle) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(retrieved))
}

// ContextRecall is the fraction of expected treaties found in at least one
// retrieved content. Blank names are ignored; no expected treaties scores 1.
func ContextRecall(retrieved, expected []string) float64 {
	total, found := 0, 0
	for _, name := range expected {
		needle := strings.ToLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		total++
		for _, content := range retrieved {
			if strings.Contains(strings.ToLower(content), needle) {
				found++
				break
			}
		}
	}
	if total == 0 {
		return 1
	}
	return float64(found) / float64(total)
}

func averageMetrics(results []domain.EvaluationResult) domain.RAGASMetrics {
	if len(results) == 0 {
		return domain.RAGASMetrics{}
	}
	var sum domain.RAGASMetrics
	for _, r := range results {
		sum.Faithfulness += r.Metrics.Faithfulness
		sum.AnswerRelevancy += r.Metrics.AnswerRelevancy
		sum.ContextPrecision += r.Metrics.ContextPrecision
		sum.ContextRecall += r.Metrics.ContextRecall
	}
	n := float64(len(results))
	return domain.RAGASMetrics{
		Faithfulness:     sum.Faithfulness / n,
		AnswerRelevancy:  sum.AnswerRelevancy / n,
		ContextPrecision: sum.ContextPrecision / n,
		ContextRecall:    sum.ContextRecall / n,
	}
}

// GenerateSynthetic asks the LLM for count question/answer/treaty triples
// drawn from the corpus.
func (s *EvaluationService) GenerateSynthetic(ctx context.Context, count int) ([]domain.TestCase, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if count <= 0 {
		count = defaultSyntheticCount
	}
	count = min(count, maxSyntheticCount)

	if err := s.index.Initialize(ctx); err != nil {
		return nil, err
	}
	chunks, err := s.index.Chunks()
	if err != nil {
		return nil, err
	}

	var source strings.Builder
	for _, c := range sampleMainChunks(chunks, syntheticSourceChunks) {
		fmt.Fprintf(&source, "- %s\n", excerpt(c.Content, evaluationContextLength))
	}

	prompt, err := prompts.Render(s.promptStore, driven.PromptSyntheticQuestions, count, source.String())
	if err != nil {
		return nil, err
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 200 * count, Temperature: 0.7})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn("Synthetic question generation failed: %v", err)
		return nil, nil
	}

	cases := ParseSyntheticQuestions(text)
	if len(cases) > count {
		cases = cases[:count]
	}
	logger.Debug("Parsed %d synthetic questions", len(cases))
	return cases, nil
}

// sampleMainChunks picks up to n main chunks spread evenly across the corpus.
func sampleMainChunks(chunks []domain.Chunk, n int) []domain.Chunk {
	var mains []domain.Chunk
	for _, c := range chunks {
		if c.Metadata.Kind == domain.ChunkKindMain {
			mains = append(mains, c)
		}
	}
	if len(mains) <= n {
		return mains
	}
	out := make([]domain.Chunk, 0, n)
	step := float64(len(mains)) / float64(n)
	for i := range n {
		out = append(out, mains[int(float64(i)*step)])
	}
	return out
}

var syntheticLineRe = regexp.MustCompile(
	`(?i)^\s*(?:[-*]\s*)?(?:\d+[.)]\s*)?(question|q|answer|a|expected answer|treaty|treaties)(?:\s*\d+)?\s*:\s*(.*)$`)

// ParseSyntheticQuestions reads "Question:", "Answer:" and "Treaty:" lines.
// A new Question line starts a new case; lines in any other shape are
// ignored, so malformed output yields no cases rather than an error.
func ParseSyntheticQuestions(text string) []domain.TestCase {
	var cases []domain.TestCase
	var current *domain.TestCase

	flush := func() {
		if current != nil && strings.TrimSpace(current.Question) != "" {
			cases = append(cases, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		m := syntheticLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "question", "q":
			flush()
			current = &domain.TestCase{Question: value, Synthetic: true}
		case "answer", "a", "expected answer":
			if current != nil {
				current.ExpectedAnswer = value
			}
		case "treaty", "treaties":
			if current != nil {
				current.ExpectedTreaties = append(current.ExpectedTreaties, splitTreaties(value)...)
			}
		}
	}
	flush()
	return cases
}

func splitTreaties(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// contextText formats retrieved documents as prompt context.
func contextText(docs []domain.RetrievedDocument) string {
	var b strings.Builder
	for i := range docs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, excerpt(docs[i].Chunk.Content, evaluationContextLength))
	}
	return b.String()
}
