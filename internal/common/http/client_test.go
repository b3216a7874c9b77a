// internal/common/http/client_test.go
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer server.Close()

	c := NewClient(time.Second, WithHeader("Authorization", "Bearer k"))
	var out map[string]string
	err := c.DoJSON(context.Background(), "POST", server.URL, map[string]string{"msg": "hi"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "hi", out["echo"])
}

func TestClient_DoJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClient(time.Second, WithRetries(2, time.Millisecond))
	var out struct{ OK bool }
	require.NoError(t, c.DoJSON(context.Background(), "POST", server.URL, nil, &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoJSON_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(time.Second, WithRetries(3, time.Millisecond))
	err := c.DoJSON(context.Background(), "POST", server.URL, nil, nil)

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_DoJSON_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewClient(time.Second, WithRetries(3, time.Millisecond)).DoJSON(ctx, "GET", server.URL, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
