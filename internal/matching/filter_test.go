// internal/matching/filter_test.go
package matching

import (
	"testing"

	"match-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(req, cand *models.Profile)
		expected bool
	}{
		{
			name:     "baseline pair is eligible",
			mutate:   func(req, cand *models.Profile) {},
			expected: true,
		},
		{
			name:     "self match excluded",
			mutate:   func(req, cand *models.Profile) { cand.UserID = req.UserID },
			expected: false,
		},
		{
			name:     "candidate closed to matching",
			mutate:   func(req, cand *models.Profile) { cand.State.OpenToMatching = false },
			expected: false,
		},
		{
			name:     "requester blocks candidate",
			mutate:   func(req, cand *models.Profile) { req.State.BlockedIDs = []string{cand.UserID} },
			expected: false,
		},
		{
			name:     "candidate blocks requester",
			mutate:   func(req, cand *models.Profile) { cand.State.BlockedIDs = []string{req.UserID} },
			expected: false,
		},
		{
			name:     "no shared language",
			mutate:   func(req, cand *models.Profile) { cand.Identity.Languages = []string{"de"} },
			expected: false,
		},
		{
			name: "too far without remote",
			mutate: func(req, cand *models.Profile) {
				cand.Location.Lat, cand.Location.Lng = 44.8378, -0.5792
			},
			expected: false,
		},
		{
			name: "far away but remote",
			mutate: func(req, cand *models.Profile) {
				cand.Location.Lat, cand.Location.Lng = 44.8378, -0.5792
				cand.Location.Remote = true
			},
			expected: true,
		},
		{
			name: "larger radius of the two applies",
			mutate: func(req, cand *models.Profile) {
				cand.Location.Lat, cand.Location.Lng = 45.7640, 4.8357
				cand.Location.RadiusKm = 500
			},
			expected: true,
		},
		{
			name: "no shared format or slot",
			mutate: func(req, cand *models.Profile) {
				cand.Availability.Formats = []models.Format{models.FormatCofounding}
				cand.Availability.TimeSlots = []models.TimeSlot{models.SlotFriEvening}
			},
			expected: false,
		},
		{
			name: "shared slot alone is enough",
			mutate: func(req, cand *models.Profile) {
				cand.Availability.Formats = []models.Format{models.FormatCofounding}
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newTestProfile("alice")
			cand := newTestProfile("bob")
			tt.mutate(req, cand)
			assert.Equal(t, tt.expected, Eligible(req, cand))
		})
	}
}

func TestFilterCandidates_SelfAndBlocks(t *testing.T) {
	req := newTestProfile("alice")
	self := newTestProfile("alice")
	blocked := newTestProfile("bob")
	blocked.State.BlockedIDs = []string{"alice"}
	ok := newTestProfile("carol")

	out := FilterCandidates(req, []*models.Profile{self, blocked, ok, nil})

	assert.Len(t, out, 1)
	assert.Equal(t, "carol", out[0].UserID)

	// block symmetry: carol blocked by alice is excluded from alice's list and alice from carol's
	req.State.BlockedIDs = []string{"carol"}
	assert.Empty(t, FilterCandidates(req, []*models.Profile{ok}))
	assert.Empty(t, FilterCandidates(ok, []*models.Profile{req}))
}

func TestFilterCandidates_Empty(t *testing.T) {
	assert.Empty(t, FilterCandidates(newTestProfile("alice"), nil))
}
