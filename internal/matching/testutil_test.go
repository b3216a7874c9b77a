// internal/matching/testutil_test.go
package matching

import (
	"time"

	"match-workers/internal/models"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// newTestProfile returns an open, Paris-based, non-remote profile that is eligible against another default profile.
func newTestProfile(id string) *models.Profile {
	return &models.Profile{
		UserID: id,
		Identity: models.Identity{
			FirstName: "User",
			LastName:  id,
			Headline:  "Founder",
			Languages: []string{"fr", "en"},
		},
		Location: models.Location{
			City:     "Paris",
			Country:  "FR",
			Lat:      48.8566,
			Lng:      2.3522,
			RadiusKm: 30,
		},
		Availability: models.Availability{
			TimeSlots: []models.TimeSlot{models.SlotMonMorning, models.SlotWeekend},
			Formats:   []models.Format{models.FormatCoffee, models.FormatVideoCall},
		},
		Sectors: []models.Sector{models.SectorSaaS},
		Skills: models.Skills{
			Hard:      []string{"Go"},
			Seniority: models.SeniorityIntermediate,
		},
		Values: []models.Value{models.ValueTransparency, models.ValueInnovation},
		Personality: models.Personality{
			Openness: 60, Conscientiousness: 60, Extraversion: 60, Agreeableness: 60, EmotionalStability: 60,
			Source: models.PersonalitySelfAssessment,
		},
		Offers: []string{"Backend Go"},
		Seeks:  []string{"UX Research"},
		Preferences: models.Preferences{
			RadiusKm:   30,
			Visibility: models.VisibilityPublic,
		},
		Activity: models.Activity{LastSeen: testNow.Add(-24 * time.Hour)},
		State:    models.State{OpenToMatching: true},
	}
}

func suggestion(id string, score int, sectors ...models.Sector) models.MatchSuggestion {
	return models.MatchSuggestion{
		CandidateID:    id,
		Score:          score,
		Reasons:        []string{},
		NextBestAction: ActionIntroduction,
		Preview:        models.ProfilePreview{Sectors: sectors},
	}
}

func ids(s []models.MatchSuggestion) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		out = append(out, x.CandidateID)
	}
	return out
}
