package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for treatyrag.

Describe a scenario and the countries involved, browse the retrieved
treaties and turn them into a briefing without leaving the terminal.

Controls:
  Tab/↓, Shift+Tab/↑ - Move between fields
  ↑/k, ↓/j           - Navigate results
  Enter              - Search / Expand result
  b                  - Generate briefing
  Esc                - Back
  ?                  - Help
  Ctrl+C             - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var errNotTerminal = errors.New("the TUI needs an interactive terminal; use 'treatyrag search' instead")

// isTerminal is swapped out in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal() {
		return errNotTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := loadServices()
	if err != nil {
		return err
	}
	settings, err := loadSettingsService()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Retrieval: svc.Retrieval,
		Briefing:  svc.Briefing,
		Index:     svc.Index,
		Settings:  settings,
		Defaults:  svc.Settings.Retrieval.Options(),
		FastMode:  svc.Settings.Evaluation.FastMode,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	ctx := cmd.Context()
	startBackground(ctx, svc)

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
