// internal/matching/pool/helpers_test.go
package pool

import (
	"time"

	"match-workers/internal/models"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newProfile(id string) *models.Profile {
	return &models.Profile{
		UserID:   id,
		Identity: models.Identity{FirstName: "User", LastName: id, Languages: []string{"fr", "en"}},
		Location: models.Location{Lat: 48.8566, Lng: 2.3522, RadiusKm: 30},
		Availability: models.Availability{
			TimeSlots: []models.TimeSlot{models.SlotMonMorning},
			Formats:   []models.Format{models.FormatCoffee},
		},
		Sectors:  []models.Sector{models.SectorSaaS},
		Skills:   models.Skills{Seniority: models.SenioritySenior},
		Values:   []models.Value{models.ValueTransparency, models.ValueInnovation},
		Offers:   []string{"Backend Go"},
		Seeks:    []string{"UX Research"},
		Activity: models.Activity{LastSeen: testNow.Add(-36 * time.Hour)},
		State:    models.State{OpenToMatching: true},
	}
}

func fixedNow() time.Time { return testNow }
