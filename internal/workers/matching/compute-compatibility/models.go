// internal/workers/matching/compute-compatibility/models.go
package computecompatibility

import (
	"match-workers/internal/matching"
	"match-workers/internal/models"
)

type Input struct {
	UserID           string          `json:"userId"`
	CandidateID      string          `json:"candidateId"`
	UserProfile      *models.Profile `json:"userProfile,omitempty"`
	CandidateProfile *models.Profile `json:"candidateProfile,omitempty"`
	Weights          *models.Weights `json:"weights,omitempty"`
}

type Output struct {
	UserID      string `json:"userId"`
	CandidateID string `json:"candidateId"`
	matching.Explanation
}
