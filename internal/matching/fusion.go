// internal/matching/fusion.go
package matching

import (
	"math"
	"sort"

	"match-workers/internal/models"
)

type fused struct {
	suggestion models.MatchSuggestion
	scoreSum   int
	count      int
	bestScore  int
	seen       map[string]struct{}
}

// Fuse merges suggestion lists keyed by candidate id. Duplicate scores are averaged, reasons are
// concatenated without repeats up to MaxReasons, and the next action comes from the highest-scoring
// duplicate. The result is sorted by merged score, descending.
func Fuse(lists ...[]models.MatchSuggestion) []models.MatchSuggestion {
	order := make([]string, 0)
	byID := make(map[string]*fused)

	for _, list := range lists {
		for _, s := range list {
			f, ok := byID[s.CandidateID]
			if !ok {
				f = &fused{
					suggestion: s.Clone(),
					bestScore:  s.Score,
					seen:       make(map[string]struct{}),
				}
				f.suggestion.Reasons = make([]string, 0, MaxReasons)
				byID[s.CandidateID] = f
				order = append(order, s.CandidateID)
			} else if s.Score > f.bestScore {
				f.bestScore = s.Score
				f.suggestion.NextBestAction = s.NextBestAction
			}
			f.scoreSum += s.Score
			f.count++
			for _, r := range s.Reasons {
				if len(f.suggestion.Reasons) >= MaxReasons {
					break
				}
				if _, dup := f.seen[r]; dup {
					continue
				}
				f.seen[r] = struct{}{}
				f.suggestion.Reasons = append(f.suggestion.Reasons, r)
			}
		}
	}

	out := make([]models.MatchSuggestion, 0, len(order))
	for _, id := range order {
		f := byID[id]
		f.suggestion.Score = int(math.Round(float64(f.scoreSum) / float64(f.count)))
		out = append(out, f.suggestion)
	}
	SortByScore(out)
	return out
}

// SortByScore orders suggestions by score, descending. Ties keep their relative order.
func SortByScore(s []models.MatchSuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
}
