package search

import (
	"math"
	"sort"

	"github.com/campscout/campsearch/internal/domain"
)

// candidate pairs a corpus index with its processed score on the 0-1 scale.
type candidate struct {
	index int
	score float64
}

// aggregate sorts surviving candidates by descending score, keeps the first
// (highest-scoring) review per distinct place name, and truncates to topK.
// Results carry the raw review text for display and the score converted to
// a 0-100 percentage rounded to one decimal, capped below 100.
func (e *Engine) aggregate(cands []candidate, topK int) []domain.Result {
	sortCandidatesDesc(cands)

	results := make([]domain.Result, 0, topK)
	seen := make(map[string]struct{}, topK)
	for _, c := range cands {
		d := &e.docs[c.index]
		if _, dup := seen[d.entry.PlaceName]; dup {
			continue
		}
		seen[d.entry.PlaceName] = struct{}{}
		results = append(results, domain.Result{
			PlaceName:  d.entry.PlaceName,
			Location:   d.entry.Location,
			ReviewText: d.entry.RawText,
			Relevance:  e.displayScore(c.score),
		})
		if len(results) >= topK {
			break
		}
	}
	return results
}

// displayScore converts a 0-1 score to the capped, rounded display
// percentage.
func (e *Engine) displayScore(score float64) float64 {
	pct := math.Min(score*100, e.params.DisplayCap)
	return math.Round(pct*10) / 10
}

// sortCandidatesDesc orders candidates by descending score, ties by corpus
// order.
func sortCandidatesDesc(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].index < cands[j].index
	})
}

// sortByRating orders corpus indices by place rating, stable on corpus
// order for equal ratings.
func sortByRating(order []int, docs []doc, desc bool) {
	sort.SliceStable(order, func(i, j int) bool {
		ri, rj := docs[order[i]].entry.Rating, docs[order[j]].entry.Rating
		if desc {
			return ri > rj
		}
		return ri < rj
	})
}
