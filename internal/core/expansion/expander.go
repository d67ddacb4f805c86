// Package expansion builds the expanded retrieval query text for a scenario.
//
// Expansion adds regional, conflict-type, synonym, country-variant, legal
// document and urgency terms to a small set of base terms, then truncates
// the list by a priority heuristic so the embedding is not diluted.
package expansion

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// MinTermCap is the lowest term cap regardless of base term count.
const MinTermCap = 50

// longTermLength is the length above which a term is penalised.
const longTermLength = 50

// Expansion is the result of expanding a query.
type Expansion struct {
	// BaseTerms are the terms built directly from the query.
	BaseTerms []string

	// Terms are the surviving terms in expansion order.
	Terms []string

	// Cap is the maximum number of terms that was applied.
	Cap int

	// Truncated is true when terms were dropped to respect Cap.
	Truncated bool
}

// Text joins the terms with spaces. This is the text that is embedded.
func (e Expansion) Text() string {
	return strings.Join(e.Terms, " ")
}

// Build expands a retrieval query.
func Build(q domain.RetrievalQuery) Expansion {
	base := baseTerms(q)

	terms := append([]string(nil), base...)
	terms = append(terms, regionalTerms(q)...)
	terms = append(terms, conflictPhrases[q.ConflictType]...)
	terms = append(terms, synonymVariants(base)...)
	for _, c := range q.Countries() {
		terms = append(terms, CountryVariants(c)...)
	}
	terms = append(terms, legalDocumentTypes...)
	terms = append(terms, severityTerms[q.Severity]...)
	terms = append(terms, timeFrameTerms[q.TimeFrame]...)

	terms = dedupe(terms)
	limit := TermCap(len(base))
	truncated := len(terms) > limit
	if truncated {
		terms = truncate(terms, limit)
	}

	return Expansion{BaseTerms: base, Terms: terms, Cap: limit, Truncated: truncated}
}

// BuildText expands a query and returns the joined text.
func BuildText(q domain.RetrievalQuery) string {
	return Build(q).Text()
}

// TermCap returns max(3*baseCount, MinTermCap).
func TermCap(baseCount int) int {
	if c := 3 * baseCount; c > MinTermCap {
		return c
	}
	return MinTermCap
}

func baseTerms(q domain.RetrievalQuery) []string {
	severity := q.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}
	return []string{
		fmt.Sprintf("conflict between %s and %s", q.OffensiveCountry, q.DefensiveCountry),
		fmt.Sprintf("%s perspective on international relations", q.SelectedCountry),
		fmt.Sprintf("%s severity international law treaty obligations", severity),
		fmt.Sprintf("bilateral agreement between %s and %s", q.OffensiveCountry, q.DefensiveCountry),
		strings.TrimSpace(q.Scenario),
	}
}

func regionalTerms(q domain.RetrievalQuery) []string {
	var terms []string
	for _, c := range []string{q.OffensiveCountry, q.DefensiveCountry} {
		region, ok := countryRegions[strings.ToLower(strings.TrimSpace(c))]
		if !ok {
			continue
		}
		terms = append(terms, region, region+" regional security")
	}
	return terms
}

// synonymVariants substitutes each matching dictionary key in each base
// term, producing one variant per synonym.
func synonymVariants(base []string) []string {
	var out []string
	for _, term := range base {
		lower := strings.ToLower(term)
		for _, syn := range synonyms {
			if !strings.Contains(lower, syn.key) {
				continue
			}
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(syn.key))
			for _, alt := range syn.alts {
				out = append(out, re.ReplaceAllLiteralString(term, alt))
			}
		}
	}
	return out
}

// CountryVariants returns the known alternative names of a country, or its
// possessive form when the country is not in the lookup.
func CountryVariants(country string) []string {
	name := strings.TrimSpace(country)
	if name == "" {
		return nil
	}
	if v, ok := countryVariants[strings.ToLower(name)]; ok {
		return v
	}
	return []string{name, name + "'s"}
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Priority scores a term for truncation: +2 for a high-priority keyword,
// +1 for a medium-priority keyword, +0.5 for a leading capital, x0.7 when
// longer than 50 characters, then +0.3 per matched keyword beyond the first.
func Priority(term string) float64 {
	lower := strings.ToLower(term)
	high := countMatches(lower, highPriority)
	medium := countMatches(lower, mediumPriority)

	score := 0.0
	if high > 0 {
		score += 2.0
	}
	if medium > 0 {
		score += 1.0
	}
	if r := []rune(term); len(r) > 0 && unicode.IsUpper(r[0]) {
		score += 0.5
	}
	if utf8.RuneCountInString(term) > longTermLength {
		score *= 0.7
	}
	if extra := high + medium - 1; extra > 0 {
		score += 0.3 * float64(extra)
	}
	return score
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// truncate keeps the limit highest-priority terms and returns them in
// their original order. Equal priorities favour earlier terms.
func truncate(terms []string, limit int) []string {
	idx := make([]int, len(terms))
	scores := make([]float64, len(terms))
	for i, t := range terms {
		idx[i] = i
		scores[i] = Priority(t)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	keep := idx[:limit]
	sort.Ints(keep)
	out := make([]string, 0, limit)
	for _, i := range keep {
		out = append(out, terms[i])
	}
	return out
}
