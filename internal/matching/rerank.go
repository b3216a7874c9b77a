// internal/matching/rerank.go
package matching

import (
	"math"

	"match-workers/internal/models"
)

const (
	DefaultLambda    = 0.7
	DefaultOutputCap = 12
)

// MMRReranker greedily trades relevance against sector diversity.
type MMRReranker struct {
	lambda float64
	limit  int
}

// NewMMRReranker clamps lambda to [0,1]; a non-positive limit falls back to DefaultOutputCap.
func NewMMRReranker(lambda float64, limit int) *MMRReranker {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	if limit <= 0 {
		limit = DefaultOutputCap
	}
	return &MMRReranker{lambda: lambda, limit: limit}
}

func (r *MMRReranker) Name() string { return "mmr" }

// Rerank seeds the output with the best-scoring suggestion, then repeatedly picks the remaining item
// maximizing lambda*relevance + (1-lambda)*diversity. The input slice is not modified.
func (r *MMRReranker) Rerank(items []models.MatchSuggestion) []models.MatchSuggestion {
	if len(items) == 0 {
		return []models.MatchSuggestion{}
	}

	n := min(r.limit, len(items))
	selected := make([]int, 0, n)
	selectedSet := make(map[int]struct{}, n)

	seed := 0
	for i := range items {
		if items[i].Score > items[seed].Score {
			seed = i
		}
	}
	selected = append(selected, seed)
	selectedSet[seed] = struct{}{}

	for len(selected) < n {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i := range items {
			if _, taken := selectedSet[i]; taken {
				continue
			}
			relevance := float64(items[i].Score) / 100
			mmr := r.lambda*relevance + (1-r.lambda)*r.diversity(items, i, selected)
			if mmr > bestScore {
				bestScore = mmr
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected = append(selected, bestIdx)
		selectedSet[bestIdx] = struct{}{}
	}

	out := make([]models.MatchSuggestion, 0, len(selected))
	for _, idx := range selected {
		out = append(out, items[idx])
	}
	return out
}

// diversity is the minimum sector distance from candidate to any already selected item.
func (r *MMRReranker) diversity(items []models.MatchSuggestion, candidate int, selected []int) float64 {
	d := 1.0
	for _, s := range selected {
		d = math.Min(d, 1-Jaccard(items[candidate].Preview.Sectors, items[s].Preview.Sectors))
	}
	return d
}
