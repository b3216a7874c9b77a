// internal/workers/matching/record-match-feedback/models.go
package recordmatchfeedback

import (
	"time"

	"match-workers/internal/models"
)

type Input struct {
	models.FeedbackEvent
}

type Output struct {
	FeedbackID string              `json:"feedbackId"`
	UserID     string              `json:"userId"`
	TargetID   string              `json:"targetId"`
	Event      models.FeedbackType `json:"event"`
	RecordedAt time.Time           `json:"recordedAt"`
}
