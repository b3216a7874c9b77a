// internal/matching/components.go
package matching

import (
	"math"
	"time"

	"match-workers/internal/models"
)

const freshnessHalfLifeDays = 30.0

// PersonalityScore blends trait cosine similarity (60%) with extraversion and agreeableness closeness (20% each).
func PersonalityScore(a, b *models.Profile) float64 {
	va := a.Personality.Vector()
	vb := b.Personality.Vector()

	var dot, na, nb float64
	for i := range va {
		dot += va[i] * vb[i]
		na += va[i] * va[i]
		nb += vb[i] * vb[i]
	}
	cos := 0.0
	if na > 0 && nb > 0 {
		cos = dot / (math.Sqrt(na) * math.Sqrt(nb))
	}

	extraversion := 1 - math.Abs(va[2]-vb[2])
	agreeableness := 1 - math.Abs(va[3]-vb[3])

	return clamp01(0.6*cos + 0.2*extraversion + 0.2*agreeableness)
}

func ValuesScore(a, b *models.Profile) float64 {
	return Jaccard(a.Values, b.Values)
}

// SectorScore is 0 without a shared sector, 0.8 with one and 1 when a shared sector is niche.
func SectorScore(a, b *models.Profile) float64 {
	shared := Intersect(a.Sectors, b.Sectors)
	if len(shared) == 0 {
		return 0
	}
	if Overlaps(shared, models.NicheSectors) {
		return 1.0
	}
	return 0.8
}

// CompetenceScore rewards bidirectional supply and demand fit.
func CompetenceScore(a, b *models.Profile) float64 {
	return (Jaccard(a.Offers, b.Seeks) + Jaccard(b.Offers, a.Seeks)) / 2
}

func LocationScore(a, b *models.Profile) float64 {
	if anyRemote(a, b) {
		return 1.0
	}
	d := Distance(a, b)
	r := maxRadius(a, b)
	if d > r {
		return 0
	}
	if r <= 0 {
		return 1.0
	}
	return math.Exp(-d / r)
}

func AvailabilityScore(a, b *models.Profile) float64 {
	slots := Jaccard(a.Availability.TimeSlots, b.Availability.TimeSlots)
	formats := Jaccard(a.Availability.Formats, b.Availability.Formats)
	return (slots + formats) / 2
}

// BehaviorScore multiplies the pair's mean engagement by its mean reliability.
func BehaviorScore(a, b *models.Profile) float64 {
	engagement := (engagementRate(a.Activity.Signals) + engagementRate(b.Activity.Signals)) / 2
	reliability := (reliabilityRate(a.Activity.Signals) + reliabilityRate(b.Activity.Signals)) / 2
	return clamp01(engagement * reliability)
}

// FreshnessScore decays with the candidate's inactivity only.
func FreshnessScore(candidate *models.Profile, now time.Time) float64 {
	return math.Exp(-candidate.DaysSinceSeen(now) / freshnessHalfLifeDays)
}

// ComputeComponents evaluates all eight components for the (a, b) pair, b being the candidate.
func ComputeComponents(a, b *models.Profile, now time.Time) models.ScoreComponents {
	return models.ScoreComponents{
		Personality:  PersonalityScore(a, b),
		Values:       ValuesScore(a, b),
		Sector:       SectorScore(a, b),
		Competence:   CompetenceScore(a, b),
		Location:     LocationScore(a, b),
		Availability: AvailabilityScore(a, b),
		Behavior:     BehaviorScore(a, b),
		Freshness:    FreshnessScore(b, now),
	}
}

func engagementRate(s models.Signals) float64 {
	if s.Replies <= 0 {
		return 0.5
	}
	return clamp01(float64(s.Replies) / float64(s.Views+1))
}

func reliabilityRate(s models.Signals) float64 {
	return math.Max(0, 1-0.1*float64(s.NoShows))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
