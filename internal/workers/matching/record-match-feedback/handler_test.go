// internal/workers/matching/record-match-feedback/handler_test.go
package recordmatchfeedback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/models"
	"match-workers/internal/profiles"
	"match-workers/internal/workers/matching/jobs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewTestLogger(t)
	repo := profiles.NewRepository(profiles.DefaultConfig(), db, rdb, log)
	return NewHandler(&Config{Timeout: 5 * time.Second}, repo, log), mock, mr
}

func newInput(userID, targetID string, event models.FeedbackType) *Input {
	return &Input{FeedbackEvent: models.FeedbackEvent{UserID: userID, TargetID: targetID, Event: event}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RecordsEveryEventType(t *testing.T) {
	for _, event := range models.AllFeedbackTypes {
		t.Run(string(event), func(t *testing.T) {
			handler, mock, mr := setupHandler(t)
			mock.ExpectExec("INSERT INTO match_feedback").
				WithArgs(sqlmock.AnyArg(), "alice", "bob", string(event), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))

			output, err := handler.Execute(context.Background(), newInput("alice", "bob", event))
			require.NoError(t, err)
			assert.NotEmpty(t, output.FeedbackID)
			assert.Equal(t, event, output.Event)
			assert.False(t, output.RecordedAt.IsZero())

			members, err := mr.Members("match:seen:alice")
			require.NoError(t, err)
			assert.Equal(t, []string{"bob"}, members)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_DecodesJobVariables(t *testing.T) {
	handler, mock, _ := setupHandler(t)
	ts := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)

	var input Input
	require.NoError(t, json.Unmarshal([]byte(
		`{"id":"fb-1","userId":"alice","targetId":"bob","event":"meeting_confirmed","timestamp":"2025-03-09T18:30:00Z"}`,
	), &input))

	mock.ExpectExec("INSERT INTO match_feedback").
		WithArgs("fb-1", "alice", "bob", "meeting_confirmed", ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := handler.Execute(context.Background(), &input)
	require.NoError(t, err)
	assert.Equal(t, "fb-1", output.FeedbackID)
	assert.Equal(t, ts, output.RecordedAt)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(mock sqlmock.Sqlmock)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "unknown event",
			input:    newInput("alice", "bob", "superlike"),
			wantCode: apperrors.ErrCodeInvalidFeedback,
		},
		{
			name:     "missing target",
			input:    newInput("alice", "", models.FeedbackLike),
			wantCode: apperrors.ErrCodeInvalidFeedback,
		},
		{
			name:     "feedback about self",
			input:    newInput("alice", "alice", models.FeedbackLike),
			wantCode: apperrors.ErrCodeInvalidFeedback,
		},
		{
			name:  "insert fails",
			input: newInput("alice", "bob", models.FeedbackPass),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO match_feedback").WillReturnError(errors.New("connection reset"))
			},
			wantCode: apperrors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock, _ := setupHandler(t)
			if tt.setup != nil {
				tt.setup(mock)
			}

			_, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			stdErr := jobs.Classify(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}
