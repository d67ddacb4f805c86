package domain

import (
	"fmt"
	"strings"
)

// Severity is the urgency level of a scenario.
type Severity string

// Severity levels.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// TimeFrame is the horizon a response is expected within.
type TimeFrame string

// Time frames.
const (
	TimeFrameImmediate  TimeFrame = "immediate"
	TimeFrameShortTerm  TimeFrame = "short_term"
	TimeFrameMediumTerm TimeFrame = "medium_term"
	TimeFrameLongTerm   TimeFrame = "long_term"
)

// IsValid returns true if the time frame is recognised.
func (t TimeFrame) IsValid() bool {
	switch t {
	case TimeFrameImmediate, TimeFrameShortTerm, TimeFrameMediumTerm, TimeFrameLongTerm:
		return true
	default:
		return false
	}
}

// ConflictType classifies a scenario.
type ConflictType string

// Conflict types. The empty value means unclassified.
const (
	ConflictTerritorial   ConflictType = "territorial"
	ConflictTrade         ConflictType = "trade"
	ConflictNuclear       ConflictType = "nuclear"
	ConflictCyber         ConflictType = "cyber"
	ConflictEnvironmental ConflictType = "environmental"
	ConflictSpace         ConflictType = "space"
	ConflictDiplomatic    ConflictType = "diplomatic"
	ConflictEconomic      ConflictType = "economic"
	ConflictMilitary      ConflictType = "military"
)

// AllConflictTypes returns every recognised conflict type.
func AllConflictTypes() []ConflictType {
	return []ConflictType{
		ConflictTerritorial, ConflictTrade, ConflictNuclear,
		ConflictCyber, ConflictEnvironmental, ConflictSpace,
		ConflictDiplomatic, ConflictEconomic, ConflictMilitary,
	}
}

// IsValid returns true if the conflict type is recognised.
func (c ConflictType) IsValid() bool {
	for _, ct := range AllConflictTypes() {
		if c == ct {
			return true
		}
	}
	return false
}

// RetrievalQuery describes a crisis scenario between countries.
type RetrievalQuery struct {
	// Scenario is the free-text situation description.
	Scenario string `json:"scenario"`

	// SelectedCountry is the country the briefing is written for.
	SelectedCountry string `json:"selectedCountry"`

	// OffensiveCountry is the aggressor.
	OffensiveCountry string `json:"offensiveCountry"`

	// DefensiveCountry is the victim.
	DefensiveCountry string `json:"defensiveCountry"`

	Severity  Severity  `json:"severity"`
	TimeFrame TimeFrame `json:"timeFrame"`

	// ConflictType is optional.
	ConflictType ConflictType `json:"conflictType,omitempty"`
}

// Validate checks the query at the boundary.
// Severity and time frame are advisory and only rejected when set to an unknown value.
func (q RetrievalQuery) Validate() error {
	if strings.TrimSpace(q.Scenario) == "" {
		return fmt.Errorf("%w: scenario is required", ErrInvalidInput)
	}
	for name, country := range map[string]string{
		"selected country":  q.SelectedCountry,
		"offensive country": q.OffensiveCountry,
		"defensive country": q.DefensiveCountry,
	} {
		if strings.TrimSpace(country) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
		}
	}
	if q.Severity != "" && !q.Severity.IsValid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, q.Severity)
	}
	if q.TimeFrame != "" && !q.TimeFrame.IsValid() {
		return fmt.Errorf("%w: unknown time frame %q", ErrInvalidInput, q.TimeFrame)
	}
	if q.ConflictType != "" && !q.ConflictType.IsValid() {
		return fmt.Errorf("%w: unknown conflict type %q", ErrInvalidInput, q.ConflictType)
	}
	return nil
}

// Countries returns the selected, offensive and defensive countries in that order.
func (q RetrievalQuery) Countries() []string {
	return []string{q.SelectedCountry, q.OffensiveCountry, q.DefensiveCountry}
}
