// internal/workers/matching/refresh-match-suggestions/models.go
package refreshmatchsuggestions

import (
	"time"

	"match-workers/internal/models"
)

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	models.MatchingResponse
	RequestedAt    time.Time `json:"requestedAt"`
	CandidateCount int       `json:"candidateCount"`
	DroppedCount   int       `json:"droppedCount"`
}
