// internal/matching/reasons.go
package matching

import (
	"fmt"
	"math"
	"strings"

	"match-workers/internal/models"
)

const (
	MaxReasons = 4

	nearbyKm                = 10.0
	locationReasonThreshold = 0.8
	personalityThreshold    = 0.7
)

// BuildReasons derives up to four explanations, in fixed priority order, from an already computed breakdown.
func BuildReasons(a, b *models.Profile, c models.ScoreComponents) []string {
	reasons := make([]string, 0, MaxReasons)

	if shared := Intersect(a.Values, b.Values); len(shared) >= 2 {
		names := make([]string, 0, 3)
		for _, v := range shared[:min(3, len(shared))] {
			names = append(names, string(v))
		}
		reasons = append(reasons, fmt.Sprintf("%d shared values: %s", len(shared), strings.Join(names, ", ")))
	}

	supply := Intersect(a.Offers, b.Seeks)
	demand := Intersect(b.Offers, a.Seeks)
	switch {
	case len(supply) > 0:
		reasons = append(reasons, "Complementary skills: "+supply[0])
	case len(demand) > 0:
		reasons = append(reasons, "Complementary skills: "+demand[0])
	}

	if c.Location > locationReasonThreshold {
		d := Distance(a, b)
		if d < nearbyKm {
			reasons = append(reasons, fmt.Sprintf("%d km away", int(math.Round(d))))
		} else if anyRemote(a, b) {
			reasons = append(reasons, "Remote-compatible")
		}
	}

	if slots := Intersect(a.Availability.TimeSlots, b.Availability.TimeSlots); len(slots) > 0 {
		reasons = append(reasons, "Available "+strings.Replace(string(slots[0]), "_", " ", 1))
	}

	if sectors := Intersect(a.Sectors, b.Sectors); len(sectors) > 0 {
		reasons = append(reasons, "Sector "+string(sectors[0]))
	}

	if c.Personality > personalityThreshold {
		reasons = append(reasons, "Complementary personalities")
	}

	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}
	return reasons
}

// BuildOverlaps summarizes shared values, what a supplies to b, and what b supplies to a.
func BuildOverlaps(a, b *models.Profile) models.Overlaps {
	return models.Overlaps{
		SharedValues: nonNil(Intersect(a.Values, b.Values)),
		Supply:       nonNil(Intersect(a.Offers, b.Seeks)),
		Demand:       nonNil(Intersect(b.Offers, a.Seeks)),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
