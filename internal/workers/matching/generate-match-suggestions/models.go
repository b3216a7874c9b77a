// internal/workers/matching/generate-match-suggestions/models.go
package generatematchsuggestions

import "match-workers/internal/models"

// Input accepts either a userId to load or an inline profile. Candidates and seenIds are
// loaded from the profile store when omitted.
type Input struct {
	UserID     string            `json:"userId"`
	Profile    *models.Profile   `json:"profile,omitempty"`
	Candidates []*models.Profile `json:"candidates,omitempty"`
	SeenIDs    []string          `json:"seenIds,omitempty"`
	Weights    *models.Weights   `json:"weights,omitempty"`
	Lambda     *float64          `json:"lambda,omitempty"`
	Epsilon    *float64          `json:"epsilon,omitempty"`
}

type Output struct {
	models.MatchingResponse
	CandidateSource string `json:"candidateSource"`
	CandidateCount  int    `json:"candidateCount"`
}

// Candidate sources reported on the output.
const (
	SourceInput    = "input"
	SourceSearch   = "search"
	SourceDatabase = "database"
)
