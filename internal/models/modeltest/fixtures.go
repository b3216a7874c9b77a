// internal/models/modeltest/fixtures.go

// Package modeltest provides valid profile fixtures for tests in other packages.
package modeltest

import (
	"time"

	"match-workers/internal/models"
)

// Now is the reference time fixtures are built around.
var Now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// Profile returns a complete, valid profile located in Paris, open to matching and seen
// 36 hours before Now.
func Profile(id string) *models.Profile {
	return &models.Profile{
		UserID:   id,
		Identity: models.Identity{FirstName: "User", LastName: id, Languages: []string{"fr", "en"}},
		Location: models.Location{Lat: 48.8566, Lng: 2.3522, RadiusKm: 30},
		Availability: models.Availability{
			TimeSlots: []models.TimeSlot{models.SlotMonMorning, models.SlotThuEvening},
			Formats:   []models.Format{models.FormatCoffee},
		},
		Sectors: []models.Sector{models.SectorSaaS},
		Skills:  models.Skills{Hard: []string{"Go"}, Seniority: models.SenioritySenior},
		Values:  []models.Value{models.ValueTransparency, models.ValueInnovation},
		Personality: models.Personality{
			Openness: 60, Conscientiousness: 55, Extraversion: 50, Agreeableness: 65, EmotionalStability: 70,
		},
		Offers:   []string{"Backend Go"},
		Seeks:    []string{"UX Research"},
		Activity: models.Activity{LastSeen: Now.Add(-36 * time.Hour)},
		State:    models.State{OpenToMatching: true},
		Version:  1,
	}
}

// Profiles returns one Profile per id.
func Profiles(ids ...string) []*models.Profile {
	out := make([]*models.Profile, len(ids))
	for i, id := range ids {
		out[i] = Profile(id)
	}
	return out
}
