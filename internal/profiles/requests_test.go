// internal/profiles/requests_test.go
package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"match-workers/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCache_RoundTrip(t *testing.T) {
	db, _ := setupMockDB(t)
	mr, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)
	ctx := context.Background()

	w := models.DefaultWeights()
	lambda := 0.5
	req := &StoredRequest{
		UserID:       "alice",
		CandidateIDs: []string{"bob", "carol"},
		Weights:      &w,
		Lambda:       &lambda,
		CreatedAt:    testNow,
	}
	require.NoError(t, repo.SaveRequest(ctx, req))
	assert.Equal(t, 24*time.Hour, mr.TTL("match:request:alice"))

	got, err := repo.LoadRequest(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, req.CandidateIDs, got.CandidateIDs)
	assert.Equal(t, w, *got.Weights)
	assert.Equal(t, 0.5, *got.Lambda)
	assert.Nil(t, got.Epsilon)
}

func TestRequestCache_ExpiredRequestIsNotFound(t *testing.T) {
	db, _ := setupMockDB(t)
	mr, rdb := setupRedis(t)
	repo := newTestRepository(t, db, rdb)
	ctx := context.Background()

	require.NoError(t, repo.SaveRequest(ctx, &StoredRequest{UserID: "alice", CandidateIDs: []string{"bob"}}))
	mr.FastForward(25 * time.Hour)

	_, err := repo.LoadRequest(ctx, "alice")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRequestCache_RedisError(t *testing.T) {
	db, _ := setupMockDB(t)
	rdb, rmock := redismock.NewClientMock()
	repo := newTestRepository(t, db, rdb)

	rmock.ExpectGet("match:request:alice").SetErr(errors.New("redis down"))

	_, err := repo.LoadRequest(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrCacheFailed)
}
