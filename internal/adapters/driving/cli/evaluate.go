package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

const defaultSyntheticCount = 5

var (
	evalBaseline  bool
	evalSynthetic bool
	evalCount     int
	evalFast      bool
	evalTestSet   string
	evalTopK      int
	evalJSON      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score retrieval quality with RAGAS-style metrics",
	Long: `Runs a test set through retrieval and scores each case for faithfulness,
answer relevancy, context precision and context recall.

The built-in baseline set is used unless --testset names a YAML file.
--synthetic asks the LLM to write extra questions from the corpus; with
--baseline=false and no test set only the generated questions are returned.
--fast skips LLM judging and reports placeholder metrics.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().BoolVar(&evalBaseline, "baseline", true, "include the built-in baseline test set")
	evaluateCmd.Flags().BoolVar(&evalSynthetic, "synthetic", false, "generate synthetic questions from the corpus")
	evaluateCmd.Flags().IntVar(&evalCount, "count", defaultSyntheticCount, "number of synthetic questions")
	evaluateCmd.Flags().BoolVar(&evalFast, "fast", false, "skip LLM judging")
	evaluateCmd.Flags().StringVar(&evalTestSet, "testset", "", "YAML test set file")
	evaluateCmd.Flags().IntVarP(&evalTopK, "top-k", "n", domain.DefaultTopK, "treaties retrieved per question")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Evaluation == nil {
		return errors.New("evaluation service not configured")
	}

	opts := domain.EvaluationOptions{
		IncludeBaseline:   evalBaseline,
		GenerateSynthetic: evalSynthetic,
		SyntheticCount:    evalCount,
		FastMode:          evalFast || svc.Settings.Evaluation.FastMode,
		TopK:              evalTopK,
	}
	if evalTestSet != "" {
		if svc.TestSets == nil {
			return errors.New("test set loader not configured")
		}
		cases, err := svc.TestSets.Load(evalTestSet)
		if err != nil {
			return fmt.Errorf("load test set: %w", err)
		}
		opts.TestSet = cases
	}

	rep, err := svc.Evaluation.Evaluate(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evalJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	outputEvaluation(cmd, rep)
	return nil
}

func outputEvaluation(cmd *cobra.Command, rep domain.EvaluationReport) {
	if len(rep.Results) == 0 {
		if len(rep.Generated) == 0 {
			cmd.Println("No test cases were run.")
			return
		}
		cmd.Println("Generated questions:")
		for i, tc := range rep.Generated {
			cmd.Printf("  [%d] %s\n", i+1, tc.Question)
			for _, t := range tc.ExpectedTreaties {
				cmd.Printf("      expects: %s\n", t)
			}
		}
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range rep.Results {
		label := ""
		if r.TestCase.Synthetic {
			label = " (synthetic)"
		}
		cmd.Printf("  [%d] %s%s\n", i+1, r.TestCase.Question, label)
		m := r.Metrics
		cmd.Printf("      F %.2f  AR %.2f  CP %.2f  CR %.2f\n",
			m.Faithfulness, m.AnswerRelevancy, m.ContextPrecision, m.ContextRecall)
	}
	cmd.Println()

	a := rep.Averages
	cmd.Println("Averages:")
	cmd.Printf("  Faithfulness:      %.3f\n", a.Faithfulness)
	cmd.Printf("  Answer relevancy:  %.3f\n", a.AnswerRelevancy)
	cmd.Printf("  Context precision: %.3f\n", a.ContextPrecision)
	cmd.Printf("  Context recall:    %.3f\n", a.ContextRecall)
	cmd.Printf("Overall score: %.3f", rep.OverallScore)
	if rep.FastMode {
		cmd.Print(" (fast mode, placeholder metrics)")
	}
	cmd.Println()
	cmd.Printf("Completed in %s\n", rep.Duration.Round(time.Millisecond))
}
