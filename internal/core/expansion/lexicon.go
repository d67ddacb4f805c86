package expansion

import "github.com/custodia-labs/treatyrag/internal/core/domain"

// countryRegions maps lowercased country names to their region.
var countryRegions = map[string]string{
	"united states":  "North America",
	"canada":         "North America",
	"mexico":         "Latin America",
	"brazil":         "Latin America",
	"argentina":      "Latin America",
	"venezuela":      "Latin America",
	"colombia":       "Latin America",
	"united kingdom": "Western Europe",
	"france":         "Western Europe",
	"germany":        "Western Europe",
	"italy":          "Western Europe",
	"spain":          "Western Europe",
	"poland":         "Eastern Europe",
	"ukraine":        "Eastern Europe",
	"russia":         "Eastern Europe",
	"belarus":        "Eastern Europe",
	"serbia":         "Balkans",
	"kosovo":         "Balkans",
	"turkey":         "Middle East",
	"iran":           "Middle East",
	"iraq":           "Middle East",
	"israel":         "Middle East",
	"saudi arabia":   "Middle East",
	"syria":          "Middle East",
	"egypt":          "North Africa",
	"ethiopia":       "Horn of Africa",
	"sudan":          "Horn of Africa",
	"nigeria":        "West Africa",
	"south africa":   "Southern Africa",
	"india":          "South Asia",
	"pakistan":       "South Asia",
	"afghanistan":    "South Asia",
	"china":          "Asia Pacific",
	"japan":          "Asia Pacific",
	"south korea":    "Asia Pacific",
	"north korea":    "Asia Pacific",
	"taiwan":         "Asia Pacific",
	"vietnam":        "Asia Pacific",
	"philippines":    "Asia Pacific",
	"indonesia":      "Asia Pacific",
	"australia":      "Asia Pacific",
}

// conflictPhrases are appended when a conflict type is declared.
var conflictPhrases = map[domain.ConflictType][]string{
	domain.ConflictTerritorial:   {"territorial integrity", "border dispute", "maritime boundary delimitation", "sovereignty claims"},
	domain.ConflictTrade:         {"trade dispute settlement", "tariff agreement", "most favoured nation", "World Trade Organization rules"},
	domain.ConflictNuclear:       {"nuclear non-proliferation", "arms control verification", "nuclear test ban", "IAEA safeguards"},
	domain.ConflictCyber:         {"cyber security cooperation", "critical infrastructure protection", "information security norms"},
	domain.ConflictEnvironmental: {"transboundary pollution", "climate change obligations", "shared water resources"},
	domain.ConflictSpace:         {"outer space treaty", "peaceful uses of outer space", "satellite interference"},
	domain.ConflictDiplomatic:    {"diplomatic relations", "consular relations", "diplomatic immunity"},
	domain.ConflictEconomic:      {"economic sanctions", "investment protection", "financial cooperation"},
	domain.ConflictMilitary:      {"use of force", "collective self-defence", "armed attack", "ceasefire arrangements"},
}

// synonym is a domain term and the words substituted for it.
type synonym struct {
	key  string
	alts []string
}

// synonyms are applied in order so expansion output is deterministic.
var synonyms = []synonym{
	{"treaty", []string{"agreement", "convention", "accord", "pact"}},
	{"agreement", []string{"treaty", "accord", "protocol"}},
	{"convention", []string{"treaty", "covenant"}},
	{"conflict", []string{"war", "dispute", "hostilities"}},
	{"war", []string{"armed conflict", "hostilities"}},
	{"dispute", []string{"conflict", "disagreement"}},
	{"diplomatic", []string{"negotiation", "relations"}},
	{"negotiation", []string{"diplomacy", "mediation"}},
	{"peace", []string{"security", "ceasefire"}},
	{"security", []string{"defence", "alliance"}},
	{"alliance", []string{"coalition", "partnership"}},
	{"obligation", []string{"commitment", "duty"}},
	{"violation", []string{"breach", "infringement"}},
	{"sovereignty", []string{"territorial integrity", "independence"}},
	{"united nations", []string{"UN", "UN Charter"}},
	{"security council", []string{"UNSC"}},
	{"international court of justice", []string{"ICJ", "World Court"}},
	{"nato", []string{"North Atlantic Treaty Organization"}},
}

// countryVariants lists official names, abbreviations and possessives.
var countryVariants = map[string][]string{
	"united states":  {"United States of America", "USA", "US", "America", "American", "United States'"},
	"united kingdom": {"UK", "Great Britain", "Britain", "British", "United Kingdom's"},
	"russia":         {"Russian Federation", "Russian", "Russia's", "USSR"},
	"china":          {"People's Republic of China", "PRC", "Chinese", "China's"},
	"taiwan":         {"Republic of China", "ROC", "Taiwan's"},
	"north korea":    {"Democratic People's Republic of Korea", "DPRK", "North Korea's"},
	"south korea":    {"Republic of Korea", "ROK", "South Korea's"},
	"iran":           {"Islamic Republic of Iran", "Iranian", "Iran's"},
	"france":         {"French Republic", "French", "France's"},
	"germany":        {"Federal Republic of Germany", "German", "Germany's"},
	"india":          {"Republic of India", "Indian", "India's"},
	"pakistan":       {"Islamic Republic of Pakistan", "Pakistani", "Pakistan's"},
	"ukraine":        {"Ukrainian", "Ukraine's"},
	"israel":         {"State of Israel", "Israeli", "Israel's"},
	"japan":          {"Japanese", "Japan's"},
}

// legalDocumentTypes broaden recall for every scenario.
var legalDocumentTypes = []string{
	"bilateral treaty",
	"multilateral convention",
	"peace treaty",
	"arms control agreement",
	"mutual defense pact",
	"non-aggression pact",
	"trade agreement",
	"human rights convention",
	"ceasefire agreement",
	"security council resolution",
	"memorandum of understanding",
	"international protocol",
}

var severityTerms = map[domain.Severity][]string{
	domain.SeverityLow:      {"monitoring", "preventive diplomacy"},
	domain.SeverityMedium:   {"escalation risk", "mediation"},
	domain.SeverityHigh:     {"urgent", "serious threat", "crisis response"},
	domain.SeverityCritical: {"urgent", "critical", "emergency", "imminent threat"},
}

var timeFrameTerms = map[domain.TimeFrame][]string{
	domain.TimeFrameImmediate:  {"rapid response", "emergency measures"},
	domain.TimeFrameShortTerm:  {"rapid", "near-term measures"},
	domain.TimeFrameMediumTerm: {"sustained engagement", "confidence building"},
	domain.TimeFrameLongTerm:   {"strategic", "long-term stability"},
}

// highPriority and mediumPriority drive truncation scoring.
var (
	highPriority = []string{
		"treaty", "war", "conflict", "diplomatic", "military",
		"security", "peace", "convention", "agreement", "nuclear",
	}
	mediumPriority = []string{
		"bilateral", "multilateral", "sovereignty", "territorial", "alliance",
		"obligation", "violation", "sanction", "protocol", "negotiation",
	}
)
