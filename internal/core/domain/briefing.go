package domain

import "time"

// Briefing classification levels.
const (
	ClassificationUnclassified = "UNCLASSIFIED"
	ClassificationConfidential = "CONFIDENTIAL"
	ClassificationSecret       = "SECRET"
)

// TreatyReference is a treaty cited by a briefing.
type TreatyReference struct {
	Title          string         `json:"title"`
	Section        string         `json:"section"`
	AdoptionDate   string         `json:"adoptionDate"`
	Excerpt        string         `json:"excerpt"`
	RelevanceScore float64        `json:"relevanceScore"`
	Reason         string         `json:"reason,omitempty"`
	Participation  *Participation `json:"participation,omitempty"`
}

// Briefing is a policy briefing for one scenario.
type Briefing struct {
	Title            string            `json:"title"`
	Classification   string            `json:"classification"`
	Query            RetrievalQuery    `json:"query"`
	Summary          string            `json:"summary"`
	KeyPoints        []string          `json:"keyPoints"`
	Recommendations  []string          `json:"recommendations"`
	Reasoning        string            `json:"reasoning"`
	LegalAnalysis    string            `json:"legalAnalysis"`
	StrategicOptions string            `json:"strategicOptions"`
	Treaties         []TreatyReference `json:"treaties"`
	Metrics          RAGASMetrics      `json:"metrics"`

	// Success is true only when every section came from the primary AI path.
	Success bool `json:"success"`

	// Warnings lists the stages that fell back.
	Warnings []string `json:"warnings,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// BriefingOptions configures briefing generation.
type BriefingOptions struct {
	// TopK is the number of treaties retrieved.
	TopK int

	// FastMode skips metric evaluation and reports placeholder scores.
	FastMode bool
}
