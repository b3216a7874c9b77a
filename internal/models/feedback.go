// internal/models/feedback.go
package models

import "time"

type FeedbackType string

const (
	FeedbackLike             FeedbackType = "like"
	FeedbackPass             FeedbackType = "pass"
	FeedbackMessage          FeedbackType = "message"
	FeedbackMeetingConfirmed FeedbackType = "meeting_confirmed"
	FeedbackNoShow           FeedbackType = "no_show"
)

var AllFeedbackTypes = []FeedbackType{
	FeedbackLike, FeedbackPass, FeedbackMessage, FeedbackMeetingConfirmed, FeedbackNoShow,
}

func (f FeedbackType) Valid() bool { return contains(AllFeedbackTypes, f) }

// FeedbackEvent is recorded as-is; the matching core never reads it back except as a "seen" marker.
type FeedbackEvent struct {
	ID        string       `json:"id,omitempty"`
	UserID    string       `json:"userId"`
	TargetID  string       `json:"targetId"`
	Event     FeedbackType `json:"event"`
	Timestamp time.Time    `json:"timestamp"`
}
