package driving

import (
	"context"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// BriefingService produces policy briefings.
type BriefingService interface {
	// Generate retrieves treaties for the scenario and assembles a briefing.
	// Only invalid input is an error; every other failure falls back and
	// clears Briefing.Success.
	Generate(ctx context.Context, query domain.RetrievalQuery, opts domain.BriefingOptions) (*domain.Briefing, error)
}
