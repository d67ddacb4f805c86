// Package tui provides an interactive terminal user interface for treatyrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Retrieval answers scenario searches. Required.
	Retrieval driving.RetrievalService

	// Briefing generates briefings from the search view.
	Briefing driving.BriefingService

	// Index backs the index statistics view.
	Index driving.IndexService

	// Settings backs the settings view. Without it the view reports an error.
	Settings driving.SettingsService

	// Defaults configure every search.
	Defaults domain.RetrievalOptions

	// FastMode skips LLM-judged briefing metrics.
	FastMode bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
