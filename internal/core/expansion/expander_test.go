package expansion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func query() domain.RetrievalQuery {
	return domain.RetrievalQuery{
		Scenario:         "Naval standoff near disputed islands raises risk of war",
		SelectedCountry:  "Japan",
		OffensiveCountry: "China",
		DefensiveCountry: "Philippines",
		Severity:         domain.SeverityCritical,
		TimeFrame:        domain.TimeFrameImmediate,
		ConflictType:     domain.ConflictTerritorial,
	}
}

func TestBuild_BaseTerms(t *testing.T) {
	e := Build(query())

	require.Len(t, e.BaseTerms, 5)
	assert.Equal(t, "conflict between China and Philippines", e.BaseTerms[0])
	assert.Equal(t, "Japan perspective on international relations", e.BaseTerms[1])
	assert.Equal(t, "critical severity international law treaty obligations", e.BaseTerms[2])
	assert.Equal(t, "bilateral agreement between China and Philippines", e.BaseTerms[3])
	assert.Equal(t, "Naval standoff near disputed islands raises risk of war", e.BaseTerms[4])
}

func TestBuild_RespectsCap(t *testing.T) {
	e := Build(query())

	assert.Equal(t, 50, e.Cap)
	assert.True(t, e.Truncated)
	assert.Len(t, e.Terms, 50)
}

func TestBuild_CapProperty(t *testing.T) {
	queries := []domain.RetrievalQuery{
		query(),
		{Scenario: "x", SelectedCountry: "A", OffensiveCountry: "B", DefensiveCountry: "C"},
		{Scenario: strings.Repeat("treaty war conflict ", 40), SelectedCountry: "United States",
			OffensiveCountry: "Russia", DefensiveCountry: "Ukraine", Severity: domain.SeverityHigh,
			TimeFrame: domain.TimeFrameLongTerm, ConflictType: domain.ConflictNuclear},
	}
	for _, q := range queries {
		e := Build(q)
		assert.LessOrEqual(t, len(e.Terms), TermCap(len(e.BaseTerms)))
	}
}

func TestBuild_NoDuplicatesOrEmpties(t *testing.T) {
	e := Build(query())

	seen := map[string]bool{}
	for _, term := range e.Terms {
		assert.NotEmpty(t, term)
		assert.False(t, seen[term], "duplicate %q", term)
		seen[term] = true
	}
}

func TestBuild_Deterministic(t *testing.T) {
	assert.Equal(t, BuildText(query()), BuildText(query()))
}

func TestBuild_SmallQueryNotTruncated(t *testing.T) {
	q := domain.RetrievalQuery{
		Scenario:         "fishing rights",
		SelectedCountry:  "Alphaland",
		OffensiveCountry: "Betavia",
		DefensiveCountry: "Alphaland",
	}

	e := Build(q)

	assert.False(t, e.Truncated)
	text := e.Text()
	assert.Contains(t, text, "Betavia's")
	assert.Contains(t, text, "peace treaty")
	assert.Contains(t, text, "bilateral accord between Betavia and Alphaland")
	assert.Contains(t, text, "medium severity international law agreement obligations")
	assert.Contains(t, text, "war between Betavia and Alphaland")
}

func TestBuild_RegionalAndConflictTerms(t *testing.T) {
	q := query()
	q.Severity = domain.SeverityLow
	terms := Build(q).Terms

	assert.Contains(t, terms, "Asia Pacific regional security")
	assert.Contains(t, terms, "territorial integrity")
}

func TestTermCap(t *testing.T) {
	assert.Equal(t, 50, TermCap(5))
	assert.Equal(t, 50, TermCap(16))
	assert.Equal(t, 51, TermCap(17))
}

func TestCountryVariants(t *testing.T) {
	assert.Contains(t, CountryVariants("United States"), "USA")
	assert.Contains(t, CountryVariants("china"), "PRC")
	assert.Equal(t, []string{"Alphaland", "Alphaland's"}, CountryVariants(" Alphaland "))
	assert.Nil(t, CountryVariants(""))
}

func TestPriority(t *testing.T) {
	tests := []struct {
		term string
		want float64
	}{
		{"treaty", 2.0},
		{"Bilateral treaty", 3.8},
		{"urgent", 0},
		{"USA", 0.5},
		{strings.Repeat("x", 50) + " treaty", 1.4},
		{strings.Repeat("é", 40) + " treaty", 2.0},
		{"sovereignty", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.InDelta(t, tt.want, Priority(tt.term), 1e-9)
		})
	}
}

func TestTruncate_KeepsHighestInOriginalOrder(t *testing.T) {
	terms := []string{"urgent", "treaty", "USA", "Bilateral treaty", "rapid"}

	got := truncate(terms, 3)

	assert.Equal(t, []string{"treaty", "USA", "Bilateral treaty"}, got)
}
