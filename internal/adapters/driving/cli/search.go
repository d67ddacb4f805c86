package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

var (
	searchTopK    int
	searchFusion  string
	searchWeight  float64
	searchRerank  bool
	searchNoBoost bool
	searchJSON    bool
	searchParties scenarioFlags
)

var searchCmd = &cobra.Command{
	Use:   "search [scenario]",
	Short: "Retrieve treaties relevant to a scenario",
	Long: `Retrieves the treaties most relevant to a scenario.

Combines semantic (embedding) and keyword (BM25) search. When the parties
are given with --country, --offensive and --defensive, the query is expanded
with conflict vocabulary and results are boosted by which parties signed
each treaty. Without them the scenario is searched as plain text.

Falls back to keyword-only retrieval when no embedding service is configured.`,
	Example: `  treatyrag search "troops massed on the northern border" \
    --country Gammaria --offensive Alphaland --defensive Betavia --conflict territorial`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", domain.DefaultTopK, "number of treaties to return")
	searchCmd.Flags().StringVar(&searchFusion, "fusion", "", "fusion strategy: linear, rrf, semantic, keyword")
	searchCmd.Flags().Float64Var(&searchWeight, "weight", domain.DefaultSemanticWeight, "semantic weight for linear fusion (0-1)")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "rerank the final results with the LLM")
	searchCmd.Flags().BoolVar(&searchNoBoost, "no-boost", false, "disable scenario-aware boosting")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchParties.register(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Retrieval == nil {
		return errors.New("retrieval service not configured")
	}

	opts, err := searchOptions(cmd, svc.Settings.Retrieval.Options())
	if err != nil {
		return err
	}

	var result domain.RetrievalResult
	if searchParties.hasParties() {
		result, err = svc.Retrieval.Search(cmd.Context(), searchParties.query(args[0]), opts)
	} else {
		result, err = svc.Retrieval.SearchText(cmd.Context(), args[0], opts)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	return outputSearchTable(cmd, result)
}

// searchOptions overlays explicitly set flags on the configured defaults.
func searchOptions(cmd *cobra.Command, opts domain.RetrievalOptions) (domain.RetrievalOptions, error) {
	flags := cmd.Flags()
	if flags.Changed("top-k") {
		opts.TopK = searchTopK
	}
	if flags.Changed("weight") {
		if searchWeight < 0 || searchWeight > 1 {
			return opts, fmt.Errorf("%w: --weight must be between 0 and 1", domain.ErrInvalidInput)
		}
		opts.SemanticWeight = searchWeight
	}
	if searchFusion != "" {
		fusion := domain.FusionStrategy(strings.ToLower(searchFusion))
		if !fusion.IsValid() {
			return opts, fmt.Errorf("%w: unknown fusion strategy %q", domain.ErrInvalidInput, searchFusion)
		}
		opts.Strategy = fusion
	}
	if flags.Changed("rerank") {
		opts.Rerank = searchRerank
	}
	if searchNoBoost {
		opts.ScenarioBoost = false
	}
	return opts.Normalised(), nil
}

func outputSearchJSON(cmd *cobra.Command, result domain.RetrievalResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, result domain.RetrievalResult) error {
	if len(result.Documents) == 0 {
		cmd.Println("No treaties found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range result.Documents {
		doc := &result.Documents[i]
		meta := doc.Chunk.Metadata

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, meta.Title, doc.RelevanceScore)
		if meta.Section != "" {
			cmd.Printf("      Section: %s\n", meta.Section)
		}
		if meta.AdoptionDate != "" && meta.AdoptionDate != domain.UnknownDate {
			cmd.Printf("      Adopted: %s\n", meta.AdoptionDate)
		}
		if doc.Participation != nil {
			cmd.Printf("      Signing: %s\n", doc.Participation.SigningStatus)
		}
		if doc.Reason != "" {
			cmd.Printf("      Why: %s\n", doc.Reason)
		}
		cmd.Println()
	}

	cmd.Printf("Searched %d chunks with %s fusion in %s\n",
		result.TotalChunksSearched, result.Strategy, result.Timing.Total.Round(time.Millisecond))
	return nil
}
