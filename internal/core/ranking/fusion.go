package ranking

import (
	"sort"
	"strings"
)

// DefaultRRFK is the reciprocal rank fusion constant.
const DefaultRRFK = 60

// Scored is a candidate in one ranked channel.
type Scored struct {
	ID     string
	Score  float64
	Reason string
}

// fused accumulates scores per ID while remembering first-seen order.
type fused struct {
	order  []string
	byID   map[string]*Scored
	reason map[string][]string
}

func newFused(capacity int) *fused {
	return &fused{
		order:  make([]string, 0, capacity),
		byID:   make(map[string]*Scored, capacity),
		reason: make(map[string][]string, capacity),
	}
}

func (f *fused) add(id string, score float64, reason string) {
	s, ok := f.byID[id]
	if !ok {
		s = &Scored{ID: id}
		f.byID[id] = s
		f.order = append(f.order, id)
	}
	s.Score += score
	if reason != "" {
		f.reason[id] = append(f.reason[id], reason)
	}
}

func (f *fused) results() []Scored {
	out := make([]Scored, 0, len(f.order))
	for _, id := range f.order {
		s := *f.byID[id]
		s.Reason = strings.Join(f.reason[id], "; ")
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// FuseLinear combines two channels as semantic*weight + keyword*(1-weight).
// Both channels are expected to carry scores in [0, 1]. Candidates present in
// both channels have their weighted scores summed and reasons concatenated.
// Results are sorted by fused score, ties keeping first-seen order.
func FuseLinear(semantic, keyword []Scored, weight float64) []Scored {
	f := newFused(len(semantic) + len(keyword))
	for _, s := range semantic {
		f.add(s.ID, s.Score*weight, s.Reason)
	}
	for _, s := range keyword {
		f.add(s.ID, s.Score*(1-weight), s.Reason)
	}
	return f.results()
}

// FuseRRF combines ranked lists with reciprocal rank fusion.
// Each list must already be sorted best first; a candidate at 0-based rank r
// contributes 1/(k+r+1).
func FuseRRF(k int, lists ...[]Scored) []Scored {
	if k <= 0 {
		k = DefaultRRFK
	}
	capacity := 0
	for _, l := range lists {
		capacity += len(l)
	}

	f := newFused(capacity)
	for _, list := range lists {
		for rank, s := range list {
			f.add(s.ID, 1.0/float64(k+rank+1), s.Reason)
		}
	}
	return f.results()
}

// SortScored orders a channel best first, ties keeping input order.
func SortScored(list []Scored) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
}

// MaxNormalise divides every score by the largest one so the best candidate
// scores 1. A list whose best score is not positive is returned unchanged.
func MaxNormalise(list []Scored) {
	maxScore := 0.0
	for _, s := range list {
		if s.Score > maxScore {
			maxScore = s.Score
		}
	}
	if maxScore <= 0 {
		return
	}
	for i := range list {
		list[i].Score /= maxScore
	}
}
