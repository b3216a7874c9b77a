// internal/profiles/helpers_test.go
package profiles

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"match-workers/internal/common/logger"
	"match-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestRepository(t *testing.T, db *sql.DB, rdb *redis.Client) *Repository {
	return NewRepository(DefaultConfig(), db, rdb, logger.NewTestLogger(t))
}

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
		Values:   []models.Value{models.ValueTransparency},
		Offers:   []string{"Backend Go"},
		Seeks:    []string{"UX Research"},
		Activity: models.Activity{LastSeen: testNow.Add(-36 * time.Hour)},
		State:    models.State{OpenToMatching: true},
		Version:  1,
	}
}

func profileJSON(t *testing.T, id string) []byte {
	data, err := json.Marshal(newProfile(id))
	require.NoError(t, err)
	return data
}
