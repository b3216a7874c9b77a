// internal/matching/suggestion.go
package matching

import (
	"time"

	"match-workers/internal/models"
)

// BuildSuggestion scores candidate for requester and assembles the full suggestion record.
func BuildSuggestion(requester, candidate *models.Profile, w models.Weights, now time.Time) models.MatchSuggestion {
	components := ComputeComponents(requester, candidate, now)
	return models.MatchSuggestion{
		CandidateID:    candidate.UserID,
		Score:          Aggregate(components, w),
		Reasons:        BuildReasons(requester, candidate, components),
		Overlaps:       BuildOverlaps(requester, candidate),
		NextBestAction: NextBestAction(requester, candidate),
		Preview:        models.NewPreview(candidate),
		Components:     &components,
	}
}

// Explanation is the pairwise view returned by Explain.
type Explanation struct {
	Eligible       bool                   `json:"eligible"`
	Score          int                    `json:"compatibilityScore"`
	Components     models.ScoreComponents `json:"components"`
	Reasons        []string               `json:"reasons"`
	Overlaps       models.Overlaps        `json:"overlaps"`
	NextBestAction string                 `json:"nextBestAction"`
	DistanceKm     float64                `json:"distanceKm"`
}

// Explain scores a single pair without running the ranking pipeline.
func Explain(requester, candidate *models.Profile, w models.Weights, now time.Time) (*Explanation, error) {
	if requester == nil || candidate == nil {
		return nil, ErrMissingRequester
	}
	if err := ValidateWeights(w); err != nil {
		return nil, err
	}
	s := BuildSuggestion(requester, candidate, w, now)
	return &Explanation{
		Eligible:       Eligible(requester, candidate),
		Score:          s.Score,
		Components:     *s.Components,
		Reasons:        s.Reasons,
		Overlaps:       s.Overlaps,
		NextBestAction: s.NextBestAction,
		DistanceKm:     Distance(requester, candidate),
	}, nil
}
