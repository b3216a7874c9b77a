// internal/matching/actions.go
package matching

import "match-workers/internal/models"

const (
	ActionCoffee       = "Propose a coffee this week"
	ActionVideoCall    = "Schedule a video call"
	ActionMentoring    = "Ask for a mentoring session"
	ActionIntroduction = "Send an introduction message"

	ActionPoolHighQuality = "High-quality match, reach out quickly"
	ActionPoolExplore     = "Explore this profile"
)

// NextBestAction picks a first step from the meeting formats both profiles accept.
func NextBestAction(a, b *models.Profile) string {
	shared := Intersect(a.Availability.Formats, b.Availability.Formats)
	switch {
	case contains(shared, models.FormatCoffee):
		return ActionCoffee
	case contains(shared, models.FormatVideoCall):
		return ActionVideoCall
	case contains(shared, models.FormatMentoring):
		return ActionMentoring
	default:
		return ActionIntroduction
	}
}

// PoolAction is the next action attached to pool-derived suggestions.
func PoolAction(score float64) string {
	if score > 80 {
		return ActionPoolHighQuality
	}
	return ActionPoolExplore
}

func contains[T comparable](items []T, v T) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}
