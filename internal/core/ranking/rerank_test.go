package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRerankScores(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []float64
	}{
		{"well formed", "1: 9\n2: 3\n3: 7.5\n4: 1", 4, []float64{9, 3, 7.5, 1}},
		{"missing entries default", "2: 8", 4, []float64{5, 8, 5, 5}},
		{"bracketed and dotted", "[1] - 6\n2. 4\n3) 10", 3, []float64{6, 4, 10}},
		{"out of range ignored", "1: 11\n2: 0\n9: 9", 2, []float64{5, 5}},
		{"prose ignored", "Here are the scores you asked for.\n1: 2", 2, []float64{2, 5}},
		{"garbage", "no scores at all", 3, []float64{5, 5, 5}},
		{"empty", "", 0, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRerankScores(tt.text, tt.n))
		})
	}
}
