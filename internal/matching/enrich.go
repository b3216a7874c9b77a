// internal/matching/enrich.go
package matching

import (
	"context"
	"errors"
	"math"
	"time"

	"match-workers/internal/models"
)

const (
	aiBaseWeight = 0.7
	aiWeight     = 0.3

	aiStrongThreshold = 0.8
	aiGoodThreshold   = 0.6

	ReasonAIStrong = "AI: strong compatibility detected"
	ReasonAIGood   = "AI: good semantic alignment"
)

var ErrEnrichmentTimeout = errors.New("ENRICHMENT_TIMEOUT")

// Enricher is an optional, best-effort stage that may adjust scores and reasons.
// Implementations must not retain the slice they receive.
type Enricher interface {
	Enrich(ctx context.Context, requester *models.Profile, suggestions []models.MatchSuggestion) ([]models.MatchSuggestion, error)
}

// EnricherFunc adapts a function to the Enricher interface.
type EnricherFunc func(ctx context.Context, requester *models.Profile, suggestions []models.MatchSuggestion) ([]models.MatchSuggestion, error)

func (f EnricherFunc) Enrich(ctx context.Context, requester *models.Profile, suggestions []models.MatchSuggestion) ([]models.MatchSuggestion, error) {
	return f(ctx, requester, suggestions)
}

// ApplyAIScores blends per-candidate AI scores in [0,1] into the base scores and re-sorts.
// Candidates without an AI score keep their base score.
func ApplyAIScores(suggestions []models.MatchSuggestion, ai map[string]float64) []models.MatchSuggestion {
	out := make([]models.MatchSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		s = s.Clone()
		score, ok := ai[s.CandidateID]
		if !ok {
			out = append(out, s)
			continue
		}
		score = clamp01(score)
		s.Score = int(math.Round(aiBaseWeight*float64(s.Score) + aiWeight*score*100))
		switch {
		case score > aiStrongThreshold:
			s.Reasons = append([]string{ReasonAIStrong}, s.Reasons...)
		case score > aiGoodThreshold:
			s.Reasons = append(s.Reasons, ReasonAIGood)
		}
		if len(s.Reasons) > MaxReasons {
			s.Reasons = s.Reasons[:MaxReasons]
		}
		out = append(out, s)
	}
	SortByScore(out)
	return out
}

type enrichResult struct {
	suggestions []models.MatchSuggestion
	err         error
}

// runEnricher invokes e under a hard timeout. Any failure, including an enricher that ignores
// cancellation, yields the input unchanged together with the error.
func runEnricher(ctx context.Context, e Enricher, timeout time.Duration, requester *models.Profile, in []models.MatchSuggestion) ([]models.MatchSuggestion, error) {
	if e == nil || len(in) == 0 {
		return in, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snapshot := make([]models.MatchSuggestion, len(in))
	for i := range in {
		snapshot[i] = in[i].Clone()
	}

	done := make(chan enrichResult, 1)
	go func() {
		out, err := e.Enrich(ctx, requester, snapshot)
		done <- enrichResult{suggestions: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return in, ErrEnrichmentTimeout
	case res := <-done:
		if res.err != nil {
			return in, res.err
		}
		if len(res.suggestions) == 0 {
			return in, nil
		}
		return res.suggestions, nil
	}
}
