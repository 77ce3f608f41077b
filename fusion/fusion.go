// Package fusion merges independently ranked retrieval results into a
// single list using weighted reciprocal rank fusion.
package fusion

import "sort"

// DefaultK is the reciprocal-rank smoothing constant. It discounts the
// dominance of rank-1 hits and controls how quickly influence decays with
// rank.
const DefaultK = 60

// Candidate is a single retrievable text unit returned by one retriever
// for one query. Score semantics are local to the producing retriever,
// higher is better.
type Candidate struct {
	ID    string
	Text  string
	Score float64
}

// List is the output of one retriever, sorted best-first by its producer.
type List struct {
	Candidates []Candidate
	Weight     float64
}

type Engine struct {
	k int
}

func NewEngine(k int) *Engine {
	if k <= 0 {
		k = DefaultK
	}

	return &Engine{k: k}
}

// Fuse merges the given lists into one list ordered by descending fused
// score. A candidate at 0-based rank r in a list with weight w contributes
// w/(k+r+1); contributions are summed across lists. Candidates are
// deduplicated by id, keeping the text of the first list that produced
// them. Ties break by first-seen order, so the result is deterministic.
// The result is not truncated; top-N is the caller's concern.
func (e *Engine) Fuse(lists ...List) []Candidate {
	type fused struct {
		candidate Candidate
		score     float64
		seen      int
	}

	byID := make(map[string]*fused)
	order := make([]*fused, 0)

	for _, list := range lists {
		weight := list.Weight
		if weight == 0 {
			weight = 1.0
		}
		for rank, candidate := range list.Candidates {
			contribution := weight / float64(e.k+rank+1)
			entry, ok := byID[candidate.ID]
			if !ok {
				entry = &fused{candidate: candidate, seen: len(order)}
				byID[candidate.ID] = entry
				order = append(order, entry)
			}
			entry.score += contribution
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].seen < order[j].seen
	})

	result := make([]Candidate, 0, len(order))
	for _, entry := range order {
		candidate := entry.candidate
		candidate.Score = entry.score
		result = append(result, candidate)
	}

	return result
}
