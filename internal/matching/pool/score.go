// internal/matching/pool/score.go
package pool

import (
	"math"

	"match-workers/internal/matching"
)

const recencyWindowDays = 30.0

// Score rates candidate against target for one pool, recency bonus included, capped at 1.
func Score(kind ScoringKind, target, candidate *Ticket) float64 {
	a, b := target.SearchFields, candidate.SearchFields

	var base float64
	switch kind {
	case ScoreSector:
		base = matching.Jaccard(a.Sectors, b.Sectors)
	case ScoreGeo:
		d := matching.Haversine(a.GeoLatitude, a.GeoLongitude, b.GeoLatitude, b.GeoLongitude)
		r := math.Min(a.MobilityRadius, b.MobilityRadius)
		switch {
		case d > r:
			base = 0
		case r <= 0:
			base = 1
		default:
			base = math.Exp(-d / r)
		}
	case ScoreSkills:
		base = (matching.Jaccard(a.Offers, b.Seeks) + matching.Jaccard(b.Offers, a.Seeks)) / 2
	case ScorePremium:
		base = (matching.Jaccard(a.Values, b.Values) + matching.Jaccard(a.Languages, b.Languages)) / 2
	}

	bonus := (recentness(a.LastActive) + recentness(b.LastActive)) / 2
	return math.Min(1, base*(0.8+0.2*bonus))
}

func recentness(days int) float64 {
	return math.Max(0, 1-float64(days)/recencyWindowDays)
}
