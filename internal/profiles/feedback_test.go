// internal/profiles/feedback_test.go
package profiles

import (
	"context"
	"errors"
	"testing"

	"match-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFeedback(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)

	mock.ExpectExec("INSERT INTO match_feedback").
		WithArgs(sqlmock.AnyArg(), "alice", "bob", "like", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ev, err := repo.RecordFeedback(context.Background(), &models.FeedbackEvent{
		UserID: "alice", TargetID: "bob", Event: models.FeedbackLike,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())

	members, err := mr.Members("match:seen:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, members)
	assert.Positive(t, mr.TTL("match:seen:alice"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFeedback_KeepsGivenIDAndTimestamp(t *testing.T) {
	db, mock := setupMockDB(t)
	_, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)

	mock.ExpectExec("INSERT INTO match_feedback").
		WithArgs("ev-1", "alice", "bob", "no_show", testNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ev, err := repo.RecordFeedback(context.Background(), &models.FeedbackEvent{
		ID: "ev-1", UserID: "alice", TargetID: "bob", Event: models.FeedbackNoShow, Timestamp: testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "ev-1", ev.ID)
	assert.Equal(t, testNow, ev.Timestamp)
}

func TestRecordFeedback_InsertFails(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)

	mock.ExpectExec("INSERT INTO match_feedback").WillReturnError(errors.New("disk full"))

	_, err := repo.RecordFeedback(context.Background(), &models.FeedbackEvent{
		UserID: "alice", TargetID: "bob", Event: models.FeedbackPass,
	})
	assert.ErrorIs(t, err, ErrInsertFailed)
	assert.False(t, mr.Exists("match:seen:alice"))
}

func TestSeenIDs_FromCache(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)

	_, err := mr.SAdd("match:seen:alice", "bob", "carol")
	require.NoError(t, err)

	ids, err := repo.SeenIDs(context.Background(), "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeenIDs_FallsBackToDatabaseAndBackfills(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)

	mock.ExpectQuery("SELECT DISTINCT target_id FROM match_feedback").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"target_id"}).AddRow("bob").AddRow("dave"))

	ids, err := repo.SeenIDs(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "dave"}, ids)

	members, err := mr.Members("match:seen:alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "dave"}, members)
}

func TestSeenIDs_NoFeedback(t *testing.T) {
	db, mock := setupMockDB(t)
	_, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)

	mock.ExpectQuery("SELECT DISTINCT target_id").
		WillReturnRows(sqlmock.NewRows([]string{"target_id"}))

	ids, err := repo.SeenIDs(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}
