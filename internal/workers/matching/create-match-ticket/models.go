// internal/workers/matching/create-match-ticket/models.go
package creatematchticket

import (
	"time"

	"match-workers/internal/models"
)

// Input carries either a new or updated profile, or just a userId to re-register the
// stored profile.
type Input struct {
	UserID  string          `json:"userId"`
	Profile *models.Profile `json:"profile,omitempty"`
}

type Output struct {
	TicketID  string    `json:"ticketId"`
	UserID    string    `json:"userId"`
	Pools     []string  `json:"pools"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	Persisted bool      `json:"persisted"`
	Indexed   bool      `json:"indexed"`
}
