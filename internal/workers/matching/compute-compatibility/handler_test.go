// internal/workers/matching/compute-compatibility/handler_test.go
package computecompatibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/matching"
	"match-workers/internal/models"
	"match-workers/internal/models/modeltest"
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

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
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
	cfg := matching.DefaultConfig()
	cfg.Now = func() time.Time { return modeltest.Now }
	engine, err := matching.NewEngine(cfg, nil, nil, log)
	require.NoError(t, err)

	repo := profiles.NewRepository(profiles.DefaultConfig(), db, rdb, log)
	return NewHandler(createTestConfig(), engine, repo, log), mock
}

func profileRow(t *testing.T, p *models.Profile) []byte {
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return data
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_WithProvidedProfiles(t *testing.T) {
	tests := []struct {
		name           string
		user           func() *models.Profile
		candidate      func() *models.Profile
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:      "close profiles sharing coffee",
			user:      func() *models.Profile { return modeltest.Profile("alice") },
			candidate: func() *models.Profile { return modeltest.Profile("bob") },
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Eligible)
				assert.InDelta(t, 0, output.DistanceKm, 1e-9)
				assert.Equal(t, "Propose a coffee this week", output.NextBestAction)
				assert.Equal(t, 1.0, output.Components.Values)
				assert.Equal(t, []models.Value{models.ValueTransparency, models.ValueInnovation}, output.Overlaps.SharedValues)
				assert.NotEmpty(t, output.Reasons)
				assert.LessOrEqual(t, len(output.Reasons), matching.MaxReasons)
			},
		},
		{
			name: "out of range is scored but not eligible",
			user: func() *models.Profile { return modeltest.Profile("alice") },
			candidate: func() *models.Profile {
				p := modeltest.Profile("bob")
				p.Location.Lat, p.Location.Lng = 45.7640, 4.8357
				return p
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.False(t, output.Eligible)
				assert.InDelta(t, 392, output.DistanceKm, 5)
				assert.Equal(t, 0.0, output.Components.Location)
				assert.GreaterOrEqual(t, output.Score, 0)
				assert.LessOrEqual(t, output.Score, 100)
			},
		},
		{
			name: "remote candidate ignores distance",
			user: func() *models.Profile { return modeltest.Profile("alice") },
			candidate: func() *models.Profile {
				p := modeltest.Profile("bob")
				p.Location.Lat, p.Location.Lng = 45.7640, 4.8357
				p.Location.Remote = true
				return p
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Eligible)
				assert.Equal(t, 1.0, output.Components.Location)
			},
		},
		{
			name: "no shared format falls back to introduction",
			user: func() *models.Profile { return modeltest.Profile("alice") },
			candidate: func() *models.Profile {
				p := modeltest.Profile("bob")
				p.Availability.Formats = []models.Format{models.FormatCowork}
				return p
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "Send an introduction message", output.NextBestAction)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := setupHandler(t)

			output, err := handler.Execute(context.Background(), &Input{
				UserProfile:      tt.user(),
				CandidateProfile: tt.candidate(),
			})
			require.NoError(t, err)
			assert.Equal(t, "alice", output.UserID)
			assert.Equal(t, "bob", output.CandidateID)
			tt.validateOutput(t, output)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_LoadsProfilesByID(t *testing.T) {
	handler, mock := setupHandler(t)

	mock.ExpectQuery("SELECT data FROM profiles").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(profileRow(t, modeltest.Profile("alice"))))
	mock.ExpectQuery("SELECT data FROM profiles").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(profileRow(t, modeltest.Profile("bob"))))

	output, err := handler.Execute(context.Background(), &Input{UserID: "alice", CandidateID: "bob"})
	require.NoError(t, err)
	assert.True(t, output.Eligible)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RequestWeightsOverrideDefaults(t *testing.T) {
	handler, _ := setupHandler(t)

	far := modeltest.Profile("bob")
	far.Location.Lat, far.Location.Lng = 45.7640, 4.8357

	base, err := handler.Execute(context.Background(), &Input{
		UserProfile:      modeltest.Profile("alice"),
		CandidateProfile: far,
	})
	require.NoError(t, err)

	w := models.DefaultWeights()
	w.Values += 1
	tuned, err := handler.Execute(context.Background(), &Input{
		UserProfile:      modeltest.Profile("alice"),
		CandidateProfile: far,
		Weights:          &w,
	})
	require.NoError(t, err)

	assert.Equal(t, base.Components, tuned.Components)
	assert.Greater(t, tuned.Score, base.Score)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	negative := models.DefaultWeights()
	negative.Sector = -0.5

	invalid := modeltest.Profile("bob")
	invalid.Personality.Openness = 140

	tests := []struct {
		name     string
		input    *Input
		setup    func(mock sqlmock.Sqlmock)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "missing user",
			input:    &Input{CandidateProfile: modeltest.Profile("bob")},
			wantCode: apperrors.ErrCodeInvalidParameters,
		},
		{
			name:     "missing candidate",
			input:    &Input{UserProfile: modeltest.Profile("alice")},
			wantCode: apperrors.ErrCodeInvalidParameters,
		},
		{
			name:  "unknown candidate",
			input: &Input{UserProfile: modeltest.Profile("alice"), CandidateID: "ghost"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT data FROM profiles").WillReturnError(sql.ErrNoRows)
			},
			wantCode: apperrors.ErrCodeProfileNotFound,
		},
		{
			name:     "invalid candidate",
			input:    &Input{UserProfile: modeltest.Profile("alice"), CandidateProfile: invalid},
			wantCode: apperrors.ErrCodeProfileValidationFailed,
		},
		{
			name: "negative weights",
			input: &Input{
				UserProfile:      modeltest.Profile("alice"),
				CandidateProfile: modeltest.Profile("bob"),
				Weights:          &negative,
			},
			wantCode: apperrors.ErrCodeInvalidWeights,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := setupHandler(t)
			if tt.setup != nil {
				tt.setup(mock)
			}

			_, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, jobs.Classify(err).Code)
		})
	}
}
