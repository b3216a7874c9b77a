package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"match-workers/internal/models"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: match-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    port: 5432
    database: matching
    user: matcher
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  generate-match-suggestions:
    enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Defaults
// ==========================

func TestLoadFromFile_MatchingDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	m := cfg.Matching
	assert.Equal(t, models.DefaultWeights(), m.Weights)
	assert.Equal(t, 0.7, m.Lambda)
	assert.Equal(t, 0.2, m.Epsilon)
	assert.Equal(t, 12, m.OutputCap)
	assert.Equal(t, 0.3, m.PoolThreshold)
	assert.Equal(t, 20, m.PoolCap)
	assert.Equal(t, 24*time.Hour, m.TicketTTL)
	assert.Equal(t, "memory", m.TicketStore)
	assert.Equal(t, "@every 15m", m.PurgeSchedule)
	assert.Equal(t, 2*time.Second, m.Enrichment.Timeout)
	assert.False(t, m.Enrichment.Enabled)

	assert.Equal(t, "profiles", cfg.Database.Elasticsearch.ProfileIndex)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, "match-workers", cfg.Observability.ServiceName)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, "generate-match-suggestions")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)

	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
	assert.Equal(t, 30*time.Second, GetDuration(w.Timeout))
}

// ==========================
// Overrides
// ==========================

func TestLoadFromFile_ZeroWeightIsKept(t *testing.T) {
	body := baseYAML + `
matching:
  weights:
    freshness: 0
    location: 0.5
  ticket_store: redis
  ticket_ttl: 1h
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Matching.Weights.Freshness)
	assert.Equal(t, 0.5, cfg.Matching.Weights.Location)
	assert.Equal(t, 0.20, cfg.Matching.Weights.Personality)
	assert.Equal(t, "redis", cfg.Matching.TicketStore)
	assert.Equal(t, time.Hour, cfg.Matching.TicketTTL)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("MATCH_TEST_GENAI_KEY", "s3cret")
	body := baseYAML + "apis:\n  genai:\n    api_key: ${MATCH_TEST_GENAI_KEY}\n"

	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.APIs.GenAI.APIKey)
	assert.Equal(t, 60000, cfg.APIs.GenAI.Timeout)
}

// ==========================
// Validation
// ==========================

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  string
	}{
		{"negative weight", "matching:\n  weights:\n    sector: -0.1\n", "matching.weights.sector"},
		{"lambda above one", "matching:\n  lambda: 1.5\n", "matching.lambda"},
		{"negative epsilon", "matching:\n  epsilon: -0.1\n", "matching.epsilon"},
		{"threshold above one", "matching:\n  pool_threshold: 2\n", "matching.pool_threshold"},
		{"zero output cap", "matching:\n  output_cap: 0\n", "output_cap"},
		{"unknown ticket store", "matching:\n  ticket_store: etcd\n", "matching.ticket_store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, baseYAML+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingRequired(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "app:\n  name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address is required")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
