package database

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"match-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Postgres
// ==========================

func TestPostgres_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range schema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	client := &PostgresClient{DB: db}
	require.NoError(t, client.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_MigrateStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS profiles").WillReturnError(errors.New("permission denied"))

	client := &PostgresClient{DB: db}
	err = client.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration step 1")
}

func TestPostgres_CloseNil(t *testing.T) {
	assert.NoError(t, (&PostgresClient{}).Close())
}

// ==========================
// Redis
// ==========================

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

// ==========================
// Elasticsearch
// ==========================

type fakeES struct {
	mu       sync.Mutex
	exists   bool
	created  string
	requests []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if f.exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.created = string(body)
		f.exists = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newFakeES(t *testing.T) (*fakeES, *ElasticsearchClient) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	return fake, client
}

func TestElasticsearch_Ping(t *testing.T) {
	_, client := newFakeES(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestElasticsearch_EnsureProfileIndex(t *testing.T) {
	fake, client := newFakeES(t)
	ctx := context.Background()

	require.NoError(t, client.EnsureProfileIndex(ctx, "profiles"))
	assert.Contains(t, fake.created, `"geo_point"`)

	// Second call finds the index and creates nothing.
	fake.created = ""
	require.NoError(t, client.EnsureProfileIndex(ctx, "profiles"))
	assert.Empty(t, fake.created)
	assert.Equal(t, []string{"HEAD /profiles", "PUT /profiles", "HEAD /profiles"}, fake.requests)
}
