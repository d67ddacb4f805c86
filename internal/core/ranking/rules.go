package ranking

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// RuleContext carries the scenario a rule table is evaluated against.
type RuleContext struct {
	// Countries are the distinct, lowercased scenario countries.
	Countries []string

	// Scenario is the lowercased scenario text.
	Scenario string

	ConflictType domain.ConflictType
}

// NewRuleContext prepares a context from a retrieval query.
func NewRuleContext(q domain.RetrievalQuery) RuleContext {
	seen := make(map[string]bool, 3)
	var countries []string
	for _, c := range q.Countries() {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		countries = append(countries, c)
	}
	return RuleContext{
		Countries:    countries,
		Scenario:     strings.ToLower(q.Scenario),
		ConflictType: q.ConflictType,
	}
}

// Rule is a named additive boost. Hits returns how many times the rule
// fires for a document; the boost applied is Delta*Hits.
type Rule struct {
	Name  string
	Delta float64
	Hits  func(doc *domain.RetrievedDocument, rc *RuleContext) int
}

// Scorer combines a weighted base score with a rule table.
type Scorer struct {
	// Weight scales the base score.
	Weight float64

	Rules []Rule

	// Clamp bounds the result to [0, 1].
	Clamp bool
}

// Score returns Weight*base plus every fired boost, and the reason string
// listing the rules that fired.
func (s Scorer) Score(base float64, doc *domain.RetrievedDocument, rc *RuleContext) (float64, string) {
	score := base * s.Weight
	var reasons []string
	for _, r := range s.Rules {
		hits := r.Hits(doc, rc)
		if hits <= 0 {
			continue
		}
		score += r.Delta * float64(hits)
		if hits > 1 {
			reasons = append(reasons, fmt.Sprintf("%s x%d", r.Name, hits))
		} else {
			reasons = append(reasons, r.Name)
		}
	}
	if s.Clamp {
		score = clamp01(score)
	}
	return score, strings.Join(reasons, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var yearRe = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)

// AdoptionYear extracts the first four-digit year from a free-text date, or 0.
func AdoptionYear(date string) int {
	m := yearRe.FindString(date)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

func countryHits(doc *domain.RetrievedDocument, rc *RuleContext) int {
	content := strings.ToLower(doc.Chunk.Content)
	n := 0
	for _, c := range rc.Countries {
		if strings.Contains(content, c) {
			n++
		}
	}
	return n
}

func sectionHas(terms ...string) func(*domain.RetrievedDocument, *RuleContext) int {
	return func(doc *domain.RetrievedDocument, _ *RuleContext) int {
		section := strings.ToLower(doc.Chunk.Metadata.Section)
		for _, t := range terms {
			if strings.Contains(section, t) {
				return 1
			}
		}
		return 0
	}
}

func contentHasAny(content string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(content, t) {
			return true
		}
	}
	return false
}

func boolHit(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

// RelevanceScorer scores semantic candidates: similarity*0.4 plus
// country, section, date and participation boosts, clamped to [0, 1].
func RelevanceScorer() Scorer {
	return Scorer{Weight: 0.4, Rules: RelevanceRules(), Clamp: true}
}

// RelevanceRules is the boost table of the semantic channel.
func RelevanceRules() []Rule {
	return []Rule{
		{Name: "country mentioned", Delta: 0.15, Hits: countryHits},
		{Name: "peace/security section", Delta: 0.10, Hits: sectionHas("peace", "security")},
		{Name: "disarmament section", Delta: 0.12, Hits: sectionHas("disarmament", "arms")},
		{Name: "human rights section", Delta: 0.08, Hits: sectionHas("human rights")},
		{Name: "adopted after 1990", Delta: 0.05, Hits: func(doc *domain.RetrievedDocument, _ *RuleContext) int {
			return boolHit(AdoptionYear(doc.Chunk.Metadata.AdoptionDate) > 1990)
		}},
		{Name: "near-universal participation", Delta: 0.08, Hits: func(doc *domain.RetrievedDocument, _ *RuleContext) int {
			parties := doc.Chunk.Metadata.Parties
			return boolHit(strings.Contains(parties, "193") || strings.Contains(parties, "190"))
		}},
	}
}

// keywordPhrases are the fixed phrases of the lightweight keyword path.
var keywordPhrases = []string{
	"peace treaty", "ceasefire", "non-aggression", "mutual defense",
	"security council", "territorial integrity", "dispute settlement",
}

// KeywordScorer scores keyword candidates: normalised BM25 plus
// country and fixed-phrase boosts, clamped to [0, 1].
func KeywordScorer() Scorer {
	return Scorer{Weight: 1, Rules: KeywordRules(), Clamp: true}
}

// KeywordRules is the boost table of the keyword channel.
func KeywordRules() []Rule {
	return []Rule{
		{Name: "country mentioned", Delta: 0.15, Hits: countryHits},
		{Name: "key phrase", Delta: 0.05, Hits: func(doc *domain.RetrievedDocument, _ *RuleContext) int {
			content := strings.ToLower(doc.Chunk.Content)
			n := 0
			for _, p := range keywordPhrases {
				if strings.Contains(content, p) {
					n++
				}
			}
			return n
		}},
	}
}

// conflictLexicon maps each conflict type to the words that signal it.
var conflictLexicon = map[domain.ConflictType][]string{
	domain.ConflictNuclear:       {"nuclear", "atomic", "non-proliferation", "warhead", "radiological"},
	domain.ConflictTrade:         {"trade", "tariff", "commerce", "export", "import"},
	domain.ConflictTerritorial:   {"territorial", "border", "boundary", "sovereignty", "maritime"},
	domain.ConflictEnvironmental: {"environment", "climate", "pollution", "biodiversity", "ozone"},
	domain.ConflictCyber:         {"cyber", "digital", "information security", "computer"},
	domain.ConflictSpace:         {"outer space", "space", "satellite", "celestial", "orbit"},
	domain.ConflictDiplomatic:    {"diplomatic", "consular", "embassy", "envoy"},
	domain.ConflictEconomic:      {"economic", "investment", "sanction", "financial"},
	domain.ConflictMilitary:      {"military", "armed", "weapons", "troops", "arms"},
}

// conflictDeltas weights conflict types by how decisive a match is.
var conflictDeltas = map[domain.ConflictType]float64{
	domain.ConflictNuclear:       0.4,
	domain.ConflictTerritorial:   0.3,
	domain.ConflictTrade:         0.3,
	domain.ConflictMilitary:      0.3,
	domain.ConflictEnvironmental: 0.3,
	domain.ConflictCyber:         0.3,
	domain.ConflictSpace:         0.3,
	domain.ConflictDiplomatic:    0.2,
	domain.ConflictEconomic:      0.2,
}

// ConflictKeywords returns the lexicon for a conflict type.
func ConflictKeywords(ct domain.ConflictType) []string {
	return conflictLexicon[ct]
}

// ScenarioScorer adds the scenario-aware post boosts to an existing score.
func ScenarioScorer() Scorer {
	return Scorer{Weight: 1, Rules: ScenarioRules()}
}

// ScenarioRules is the post-boost table: conflict-type matches, country
// mentions, universal instruments and the participation tier.
func ScenarioRules() []Rule {
	types := domain.AllConflictTypes()
	sort.SliceStable(types, func(i, j int) bool {
		return conflictDeltas[types[i]] > conflictDeltas[types[j]]
	})

	rules := make([]Rule, 0, len(types)+5)
	for _, ct := range types {
		rules = append(rules, Rule{
			Name:  string(ct) + " match",
			Delta: conflictDeltas[ct],
			Hits:  conflictHit(ct),
		})
	}
	return append(rules,
		Rule{Name: "scenario country", Delta: 0.2, Hits: func(doc *domain.RetrievedDocument, rc *RuleContext) int {
			return boolHit(countryHits(doc, rc) > 0)
		}},
		Rule{Name: "universal instrument", Delta: 0.2, Hits: func(doc *domain.RetrievedDocument, _ *RuleContext) int {
			content := strings.ToLower(doc.Chunk.Content)
			return boolHit(contentHasAny(content, []string{"united nations", "geneva", "vienna"}))
		}},
		participationRule("both parties signed", 0.6, func(p *domain.Participation) bool {
			return p.SigningStatus == domain.SigningBoth
		}),
		participationRule("one party signed", 0.4, func(p *domain.Participation) bool {
			return p.SigningStatus == domain.SigningAggressorOnly || p.SigningStatus == domain.SigningVictimOnly
		}),
		participationRule("no party signed", 0.2, func(p *domain.Participation) bool {
			return p.SigningStatus == domain.SigningNeither
		}),
	)
}

// conflictHit fires when the scenario is of this type, either declared or
// recognised from its text, and the chunk speaks to the same type.
func conflictHit(ct domain.ConflictType) func(*domain.RetrievedDocument, *RuleContext) int {
	words := conflictLexicon[ct]
	return func(doc *domain.RetrievedDocument, rc *RuleContext) int {
		if rc.ConflictType != ct && !contentHasAny(rc.Scenario, words) {
			return 0
		}
		return boolHit(contentHasAny(strings.ToLower(doc.Chunk.Content), words))
	}
}

func participationRule(name string, delta float64, match func(*domain.Participation) bool) Rule {
	return Rule{Name: name, Delta: delta, Hits: func(doc *domain.RetrievedDocument, _ *RuleContext) int {
		if doc.Participation == nil {
			return 0
		}
		return boolHit(match(doc.Participation))
	}}
}

func sortStable(docs []domain.RetrievedDocument, less func(a, b *domain.RetrievedDocument) bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		return less(&docs[i], &docs[j])
	})
}
