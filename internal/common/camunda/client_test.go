package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"match-workers/internal/common/config"
	"match-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(n int) *RetryConfig {
	return &RetryConfig{MaxRetries: n, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

// ==========================
// Retry
// ==========================

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), logger.NewTestLogger(t), "dial", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), logger.NewTestLogger(t), "dial", func(context.Context) error {
		calls++
		return errors.New("permission denied")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "dial failed")
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(4), logger.NewTestLogger(t), "dial", func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour}

	err := Retry(ctx, rc, logger.NewTestLogger(t), "dial", func(context.Context) error {
		cancel()
		return errors.New("i/o timeout")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// ==========================
// Helpers
// ==========================

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(errors.New("context deadline exceeded")))
	assert.True(t, IsRetryableError(errors.New("dial tcp: connection reset by peer")))
	assert.False(t, IsRetryableError(errors.New("NOT_FOUND: no such process")))
}

func TestConfigFromApp(t *testing.T) {
	cc := ConfigFromApp(config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 1500})
	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.ConnectionTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)
}
