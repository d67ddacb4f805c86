package mcp

import (
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Retrieval answers treaty searches. Required.
	Retrieval driving.RetrievalService

	// Briefing backs the generate_briefing tool.
	Briefing driving.BriefingService

	// Evaluation backs the evaluate_retrieval tool.
	Evaluation driving.EvaluationService

	// Index backs the stats and chunk resources.
	Index driving.IndexService

	// Defaults apply to searches that leave options unset.
	Defaults domain.RetrievalOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
