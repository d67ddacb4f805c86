package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/report"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

var (
	briefingTopK    int
	briefingFast    bool
	briefingFormat  string
	briefingOutput  string
	briefingParties scenarioFlags
)

var briefingCmd = &cobra.Command{
	Use:   "briefing [scenario]",
	Short: "Generate an analyst briefing for a scenario",
	Long: `Generates a briefing for a geopolitical scenario.

Retrieves the relevant treaties, asks the LLM for reasoning, legal analysis
and strategic options, and assembles a classified briefing document with
quality metrics. Every LLM stage has a fixed fallback, so a briefing is
produced even without an LLM; check the warnings in the output.`,
	Example: `  treatyrag briefing "naval blockade of the strait" \
    --country Gammaria --offensive Alphaland --defensive Betavia --severity high`,
	Args: cobra.ExactArgs(1),
	RunE: runBriefing,
}

func init() {
	briefingCmd.Flags().IntVarP(&briefingTopK, "top-k", "n", domain.DefaultTopK, "number of treaties to cite")
	briefingCmd.Flags().BoolVar(&briefingFast, "fast", false, "skip LLM-judged quality metrics")
	briefingCmd.Flags().StringVarP(&briefingFormat, "format", "f", "text", "output format: text, json, markdown, html")
	briefingCmd.Flags().StringVarP(&briefingOutput, "output", "o", "", "write the briefing to a file")
	briefingParties.register(briefingCmd)
	rootCmd.AddCommand(briefingCmd)
}

func runBriefing(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Briefing == nil {
		return errors.New("briefing service not configured")
	}

	query := briefingParties.query(args[0])
	if err := query.Validate(); err != nil {
		return err
	}

	opts := domain.BriefingOptions{
		TopK:     briefingTopK,
		FastMode: briefingFast || svc.Settings.Evaluation.FastMode,
	}
	briefing, err := svc.Briefing.Generate(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("briefing failed: %w", err)
	}

	out, err := formatBriefing(briefing, briefingFormat)
	if err != nil {
		return err
	}

	if briefingOutput != "" {
		if err := os.WriteFile(briefingOutput, []byte(out), 0o600); err != nil {
			return fmt.Errorf("write briefing: %w", err)
		}
		cmd.Printf("Briefing written to %s\n", briefingOutput)
		return nil
	}
	cmd.Print(out)
	return nil
}

func formatBriefing(b *domain.Briefing, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal briefing: %w", err)
		}
		return string(data) + "\n", nil
	case "markdown", "md":
		return report.Markdown(b), nil
	case "html":
		return report.HTML(b)
	case "text", "":
		return briefingText(b), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, format)
	}
}

func briefingText(b *domain.Briefing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", b.Title)
	fmt.Fprintf(&sb, "Classification: %s\n\n", b.Classification)

	if b.Summary != "" {
		fmt.Fprintf(&sb, "Summary\n  %s\n\n", b.Summary)
	}
	writeItems(&sb, "Key points", b.KeyPoints)
	writeItems(&sb, "Recommendations", b.Recommendations)

	if len(b.Treaties) > 0 {
		sb.WriteString("Treaties\n")
		for i, t := range b.Treaties {
			fmt.Fprintf(&sb, "  [%d] %s (%.2f)\n", i+1, t.Title, t.RelevanceScore)
			if t.Participation != nil {
				fmt.Fprintf(&sb, "      Signing: %s\n", t.Participation.SigningStatus)
			}
		}
		sb.WriteString("\n")
	}

	m := b.Metrics
	fmt.Fprintf(&sb, "Metrics: faithfulness %.2f, relevancy %.2f, precision %.2f, recall %.2f\n",
		m.Faithfulness, m.AnswerRelevancy, m.ContextPrecision, m.ContextRecall)

	for _, w := range b.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	return sb.String()
}

func writeItems(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
	sb.WriteString("\n")
}
