package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// scenarioFlags collects the parties and classification of a scenario.
type scenarioFlags struct {
	selected  string
	offensive string
	defensive string
	severity  string
	timeFrame string
	conflict  string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.selected, "country", "", "country the briefing is prepared for")
	cmd.Flags().StringVar(&f.offensive, "offensive", "", "offensive (aggressor) country")
	cmd.Flags().StringVar(&f.defensive, "defensive", "", "defensive (victim) country")
	cmd.Flags().StringVar(&f.severity, "severity", "", "severity: low, medium, high, critical")
	cmd.Flags().StringVar(&f.timeFrame, "time-frame", "", "time frame: immediate, short_term, medium_term, long_term")
	cmd.Flags().StringVar(&f.conflict, "conflict", "", "conflict type, e.g. territorial, nuclear, trade")
}

// hasParties reports whether any country flag was given.
func (f *scenarioFlags) hasParties() bool {
	return f.selected != "" || f.offensive != "" || f.defensive != ""
}

func (f *scenarioFlags) query(scenario string) domain.RetrievalQuery {
	return domain.RetrievalQuery{
		Scenario:         strings.TrimSpace(scenario),
		SelectedCountry:  strings.TrimSpace(f.selected),
		OffensiveCountry: strings.TrimSpace(f.offensive),
		DefensiveCountry: strings.TrimSpace(f.defensive),
		Severity:         domain.Severity(strings.ToLower(f.severity)),
		TimeFrame:        domain.TimeFrame(strings.ToLower(f.timeFrame)),
		ConflictType:     domain.ConflictType(strings.ToLower(f.conflict)),
	}
}

func (f *scenarioFlags) reset() {
	*f = scenarioFlags{}
}
