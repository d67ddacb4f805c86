package ranking

import (
	"math"
	"strings"
	"unicode"
)

// BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75

	minTokenLength = 3
)

// Tokenize lowercases text and splits it on anything that is not a letter
// or digit, keeping tokens longer than two characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// BM25 is an Okapi BM25 model over a fixed document set.
// It is safe for concurrent use once built.
type BM25 struct {
	k1     float64
	b      float64
	tf     []map[string]int
	length []int
	df     map[string]int
	avgLen float64
}

// BM25Option configures a BM25 model.
type BM25Option func(*BM25)

// WithK1 sets term-frequency saturation.
func WithK1(k1 float64) BM25Option {
	return func(m *BM25) {
		if k1 > 0 {
			m.k1 = k1
		}
	}
}

// WithB sets document-length normalisation.
func WithB(b float64) BM25Option {
	return func(m *BM25) {
		if b >= 0 && b <= 1 {
			m.b = b
		}
	}
}

// NewBM25 indexes docs. Scores returned later are indexed like docs.
func NewBM25(docs []string, opts ...BM25Option) *BM25 {
	m := &BM25{
		k1:     DefaultK1,
		b:      DefaultB,
		tf:     make([]map[string]int, len(docs)),
		length: make([]int, len(docs)),
		df:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}

	total := 0
	for i, doc := range docs {
		tokens := Tokenize(doc)
		freq := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freq[tok]++
		}
		for tok := range freq {
			m.df[tok]++
		}
		m.tf[i] = freq
		m.length[i] = len(tokens)
		total += len(tokens)
	}
	if len(docs) > 0 {
		m.avgLen = float64(total) / float64(len(docs))
	}
	return m
}

// Len returns the number of indexed documents.
func (m *BM25) Len() int {
	return len(m.tf)
}

// AvgLength returns the average document length in tokens.
func (m *BM25) AvgLength() float64 {
	return m.avgLen
}

// idf is the non-negative BM25+ style inverse document frequency.
func (m *BM25) idf(term string) float64 {
	n := float64(len(m.tf))
	df := float64(m.df[term])
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Score returns one score per document for query.
// Scores are never negative. A document sharing no term with the query
// scores exactly 0, as does every document when the query has no tokens.
func (m *BM25) Score(query string) []float64 {
	scores := make([]float64, len(m.tf))
	terms := uniqueTokens(query)
	if len(terms) == 0 || m.avgLen == 0 {
		return scores
	}

	for _, term := range terms {
		if m.df[term] == 0 {
			continue
		}
		idf := m.idf(term)
		for i, freq := range m.tf {
			f := float64(freq[term])
			if f == 0 {
				continue
			}
			norm := 1 - m.b + m.b*float64(m.length[i])/m.avgLen
			scores[i] += idf * f * (m.k1 + 1) / (f + m.k1*norm)
		}
	}
	return scores
}

func uniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
