package ranking

import (
	"regexp"
	"strconv"
	"strings"
)

// Rerank score bounds. Candidates the model does not score get the default.
const (
	RerankMinScore     = 1.0
	RerankMaxScore     = 10.0
	RerankDefaultScore = 5.0
)

var rerankLineRe = regexp.MustCompile(`^\s*\[?(\d+)\]?\s*[:.)=-]\s*(-?\d+(?:\.\d+)?)`)

// ParseRerankScores reads "<index>: <score>" lines for n candidates numbered
// from 1. Unparsed, missing or out-of-range entries keep the default score.
func ParseRerankScores(text string, n int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = RerankDefaultScore
	}

	for _, line := range strings.Split(text, "\n") {
		m := rerankLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		score, err := strconv.ParseFloat(m[2], 64)
		if err != nil || score < RerankMinScore || score > RerankMaxScore {
			continue
		}
		scores[idx-1] = score
	}
	return scores
}
