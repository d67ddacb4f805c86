package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/core/corpus"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// maxWarningsShown bounds the parse warnings printed without --verbose.
const maxWarningsShown = 10

var corpusJSON bool

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the treaty corpus and index",
}

var corpusInspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Parse a corpus file and report what was kept",
	Long: `Parses a corpus file without embedding it and reports the records,
chunks and any lines that were dropped. Defaults to the configured corpus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCorpusInspect,
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Build the index and show its statistics",
	Long: `Loads, chunks and embeds the configured corpus, then prints index
statistics. Embeddings are read from the cache when it is enabled.`,
	Args: cobra.NoArgs,
	RunE: runCorpusStats,
}

func init() {
	corpusInspectCmd.Flags().BoolVar(&corpusJSON, "json", false, "output the report as JSON")
	corpusStatsCmd.Flags().BoolVar(&corpusJSON, "json", false, "output statistics as JSON")
	corpusCmd.AddCommand(corpusInspectCmd)
	corpusCmd.AddCommand(corpusStatsCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusInspect(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		settings, err := loadSettingsService()
		if err != nil {
			return err
		}
		current, err := settings.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		path = current.Corpus.Path
	}

	records, rep, err := corpus.LoadFile(path)
	if err != nil {
		return err
	}
	chunks := corpus.Chunk(records)

	if corpusJSON {
		return printJSON(cmd, struct {
			Path   string             `json:"path"`
			Chunks int                `json:"chunks"`
			Report domain.ParseReport `json:"report"`
		}{path, len(chunks), rep})
	}

	cmd.Printf("Corpus: %s\n", path)
	cmd.Printf("  Lines:   %d\n", rep.TotalLines)
	cmd.Printf("  Records: %d\n", rep.Records)
	cmd.Printf("  Chunks:  %d\n", len(chunks))
	cmd.Printf("  Skipped: %d\n", rep.Skipped)
	printWarnings(cmd, rep.Warnings)
	return nil
}

func runCorpusStats(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Index == nil {
		return errors.New("index service not configured")
	}

	if err := svc.Index.Initialize(cmd.Context()); err != nil {
		return err
	}
	stats := svc.Index.Stats()

	if corpusJSON {
		return printJSON(cmd, stats)
	}

	cmd.Println("Index:")
	cmd.Printf("  Records:          %d\n", stats.Records)
	cmd.Printf("  Chunks:           %d\n", stats.Chunks)
	cmd.Printf("  Embedded:         %d\n", stats.Embedded)
	cmd.Printf("  Dimensions:       %d\n", stats.Dimensions)
	cmd.Printf("  Avg chunk length: %.0f chars\n", stats.AvgChunkLength)
	cmd.Printf("  Load time:        %s\n", stats.LoadDuration.Round(time.Millisecond))
	if stats.Embedded == 0 {
		cmd.Println("  Semantic search disabled: no embeddings (keyword-only).")
	}
	printWarnings(cmd, stats.Parse.Warnings)
	return nil
}

func printWarnings(cmd *cobra.Command, warnings []domain.ParseWarning) {
	if len(warnings) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Dropped lines:")
	shown := warnings
	if !verbose && len(shown) > maxWarningsShown {
		shown = shown[:maxWarningsShown]
	}
	for _, w := range shown {
		cmd.Printf("  line %d: %s\n", w.Line, w.Reason)
	}
	if len(shown) < len(warnings) {
		cmd.Printf("  ... and %d more (use --verbose to list all)\n", len(warnings)-len(shown))
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
