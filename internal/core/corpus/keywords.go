package corpus

import (
	"regexp"
	"sort"
	"strings"
)

const minKeywordLength = 4

var nonWordRe = regexp.MustCompile(`\W+`)

var stopwords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "against": true,
	"also": true, "among": true, "been": true, "before": true, "being": true,
	"between": true, "both": true, "but": true, "by": true, "could": true,
	"does": true, "during": true, "each": true, "from": true, "further": true,
	"have": true, "having": true, "here": true, "into": true, "itself": true,
	"many": true, "more": true, "most": true, "must": true, "only": true,
	"other": true, "over": true, "same": true, "shall": true, "should": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "until": true,
	"upon": true, "very": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true, "with": true,
	"within": true, "would": true, "your": true, "established": true,
}

// ExtractKeywords returns up to n salient words of text.
// Words are lowercased, split on non-word characters, kept when longer than
// three characters and not a stopword, then ranked by frequency with ties
// going to the earlier word.
func ExtractKeywords(text string, n int) []string {
	if n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, tok := range nonWordRe.Split(strings.ToLower(text), -1) {
		if len(tok) < minKeywordLength || stopwords[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
