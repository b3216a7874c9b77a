// internal/matching/components_test.go
package matching

import (
	"math"
	"testing"
	"time"

	"match-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Set and Geo Helpers
// ==========================

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard([]string{}, []string{}))
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, nil))
	assert.Equal(t, 1.0, Jaccard([]string{"a", "b"}, []string{"b", "a"}))
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, []string{"b"}))
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
	assert.Equal(t, 1.0, Jaccard([]string{"a", "a"}, []string{"a"}))
}

func TestIntersect_KeepsOrderAndDedups(t *testing.T) {
	assert.Equal(t, []string{"c", "a"}, Intersect([]string{"c", "x", "a", "c"}, []string{"a", "c"}))
	assert.Nil(t, Intersect([]string{"a"}, []string{}))
}

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 0, Haversine(48.8566, 2.3522, 48.8566, 2.3522), 1e-9)
	// Paris to Bordeaux is roughly 500 km
	assert.InDelta(t, 500, Haversine(48.8566, 2.3522, 44.8378, -0.5792), 5)
}

// ==========================
// Components
// ==========================

func TestPersonalityScore_IdenticalVectors(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")
	for _, p := range []*models.Profile{a, b} {
		p.Personality = models.Personality{Openness: 80, Conscientiousness: 80, Extraversion: 80, Agreeableness: 80, EmotionalStability: 80}
	}
	assert.InDelta(t, 1.0, PersonalityScore(a, b), 1e-9)
}

func TestPersonalityScore_ZeroVector(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")
	a.Personality = models.Personality{}
	b.Personality = models.Personality{}
	// cosine is 0 for zero vectors, both complements are 1
	assert.InDelta(t, 0.4, PersonalityScore(a, b), 1e-9)
}

func TestValuesScore(t *testing.T) {
	a := newTestProfile("a")
	assert.Equal(t, 1.0, ValuesScore(a, a))

	b := newTestProfile("b")
	b.Values = []models.Value{models.ValueAutonomy}
	assert.Equal(t, 0.0, ValuesScore(a, b))

	b.Values = nil
	a.Values = nil
	assert.Equal(t, 0.0, ValuesScore(a, b))
}

func TestSectorScore(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")

	b.Sectors = []models.Sector{models.SectorFinTech}
	assert.Equal(t, 0.0, SectorScore(a, b))

	b.Sectors = []models.Sector{models.SectorSaaS}
	assert.Equal(t, 0.8, SectorScore(a, b))

	a.Sectors = []models.Sector{models.SectorSaaS, models.SectorHealthTech}
	b.Sectors = []models.Sector{models.SectorHealthTech}
	assert.Equal(t, 1.0, SectorScore(a, b))
}

func TestCompetenceScore_Complementary(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")
	a.Offers, a.Seeks = []string{"Backend Go"}, []string{"UX Research"}
	b.Offers, b.Seeks = []string{"UX Research"}, []string{"Backend Go"}
	assert.Equal(t, 1.0, CompetenceScore(a, b))

	b.Seeks = []string{"Sales"}
	assert.Equal(t, 0.5, CompetenceScore(a, b))
}

func TestLocationScore(t *testing.T) {
	paris := newTestProfile("paris")
	bordeaux := newTestProfile("bordeaux")
	bordeaux.Location.Lat, bordeaux.Location.Lng = 44.8378, -0.5792

	t.Run("remote bypass either side", func(t *testing.T) {
		bordeaux.Location.Remote = true
		assert.Equal(t, 1.0, LocationScore(paris, bordeaux))
		assert.Equal(t, 1.0, LocationScore(bordeaux, paris))
		bordeaux.Location.Remote = false
	})

	t.Run("beyond radius decays to zero", func(t *testing.T) {
		lyon := newTestProfile("lyon")
		lyon.Location.Lat, lyon.Location.Lng = 45.7640, 4.8357
		assert.Equal(t, 0.0, LocationScore(paris, lyon))
	})

	t.Run("exponential decay within radius", func(t *testing.T) {
		near := newTestProfile("near")
		near.Location.Lat = 48.8566 + 0.09 // about 10 km north
		d := Distance(paris, near)
		assert.InDelta(t, math.Exp(-d/30), LocationScore(paris, near), 1e-9)
	})

	t.Run("same point with zero radius", func(t *testing.T) {
		a := newTestProfile("a")
		b := newTestProfile("b")
		a.Location.RadiusKm, b.Location.RadiusKm = 0, 0
		assert.Equal(t, 1.0, LocationScore(a, b))
	})
}

func TestAvailabilityScore(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")
	assert.Equal(t, 1.0, AvailabilityScore(a, b))

	b.Availability.TimeSlots = []models.TimeSlot{models.SlotFriEvening}
	assert.Equal(t, 0.5, AvailabilityScore(a, b))
}

func TestBehaviorScore(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")
	// no replies: default engagement 0.5, full reliability
	assert.Equal(t, 0.5, BehaviorScore(a, b))

	a.Activity.Signals = models.Signals{Views: 9, Replies: 10}
	b.Activity.Signals = models.Signals{NoShows: 20}
	// engagement (1 + 0.5)/2, reliability (1 + 0)/2
	assert.InDelta(t, 0.375, BehaviorScore(a, b), 1e-9)
}

func TestFreshnessScore(t *testing.T) {
	b := newTestProfile("b")
	b.Activity.LastSeen = testNow
	assert.Equal(t, 1.0, FreshnessScore(b, testNow))

	b.Activity.LastSeen = testNow.Add(-30 * 24 * time.Hour)
	assert.InDelta(t, math.Exp(-1), FreshnessScore(b, testNow), 1e-9)

	b.Activity.LastSeen = testNow.Add(time.Hour)
	assert.Equal(t, 1.0, FreshnessScore(b, testNow))
}

func TestComputeComponents_AllWithinUnitRange(t *testing.T) {
	a := newTestProfile("a")
	b := newTestProfile("b")
	b.Activity.Signals = models.Signals{Views: 0, Replies: 50, NoShows: 3}
	c := ComputeComponents(a, b, testNow)
	for _, v := range []float64{c.Personality, c.Values, c.Sector, c.Competence, c.Location, c.Availability, c.Behavior, c.Freshness} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
