package ranking

import (
	"strings"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// universalInstruments are treated as binding on every state.
// This over-approximates membership for multilateral treaties with partial uptake.
var universalInstruments = []string{
	"united nations",
	"geneva",
	"vienna convention",
	"nuclear non-proliferation",
	"chemical weapons",
	"world trade",
}

// IsUniversal reports whether content names a near-universal instrument.
func IsUniversal(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range universalInstruments {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Classify guesses which scenario countries are parties to the treaty in content.
// A country counts as a signatory when its name appears in the text, or when
// the text names a universal instrument. The signing status only looks at
// the offensive and defensive countries.
func Classify(content, selected, offensive, defensive string) domain.Participation {
	lower := strings.ToLower(content)
	universal := IsUniversal(lower)

	p := domain.Participation{
		SelectedSigned:  universal || mentions(lower, selected),
		OffensiveSigned: universal || mentions(lower, offensive),
		DefensiveSigned: universal || mentions(lower, defensive),
	}
	p.BothPartiesSigned = p.OffensiveSigned && p.DefensiveSigned

	switch {
	case p.BothPartiesSigned:
		p.SigningStatus = domain.SigningBoth
	case p.OffensiveSigned:
		p.SigningStatus = domain.SigningAggressorOnly
	case p.DefensiveSigned:
		p.SigningStatus = domain.SigningVictimOnly
	default:
		p.SigningStatus = domain.SigningNeither
	}
	return p
}

func mentions(lowerContent, country string) bool {
	country = strings.ToLower(strings.TrimSpace(country))
	return country != "" && strings.Contains(lowerContent, country)
}

// leverageTier orders signing statuses: mutual treaties first, then
// treaties binding the aggressor, then those binding the victim.
func leverageTier(p *domain.Participation) int {
	if p == nil {
		return 4
	}
	switch p.SigningStatus {
	case domain.SigningBoth:
		return 0
	case domain.SigningAggressorOnly:
		return 1
	case domain.SigningVictimOnly:
		return 2
	default:
		return 3
	}
}

// OrderByLeverage sorts documents by signing tier, then by relevance score.
// Documents without a participation classification sort last.
func OrderByLeverage(docs []domain.RetrievedDocument) {
	sortStable(docs, func(a, b *domain.RetrievedDocument) bool {
		ta, tb := leverageTier(a.Participation), leverageTier(b.Participation)
		if ta != tb {
			return ta < tb
		}
		return a.RelevanceScore > b.RelevanceScore
	})
}

// OrderByScore sorts documents by relevance score, best first.
func OrderByScore(docs []domain.RetrievedDocument) {
	sortStable(docs, func(a, b *domain.RetrievedDocument) bool {
		return a.RelevanceScore > b.RelevanceScore
	})
}
