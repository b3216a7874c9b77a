package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"match-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJob(t *testing.T) {
	s := New(logger.NewTestLogger(t), time.Second)
	var runs atomic.Int32

	require.NoError(t, s.Add("purge", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestScheduler_JobErrorDoesNotStopSchedule(t *testing.T) {
	s := New(logger.NewTestLogger(t), 0)
	var runs atomic.Int32

	require.NoError(t, s.Add("flaky", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("store unavailable")
	}))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 4*time.Second, 20*time.Millisecond)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(logger.NewTestLogger(t), 0)
	err := s.Add("purge", "every now and then", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule purge")
}

func TestScheduler_NilJob(t *testing.T) {
	s := New(logger.NewTestLogger(t), 0)
	assert.Error(t, s.Add("purge", "@every 1m", nil))
}

func TestScheduler_ReplaceAndNext(t *testing.T) {
	s := New(logger.NewTestLogger(t), 0)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("purge", "@every 1h", noop))
	require.NoError(t, s.Add("purge", "@every 15m", noop))
	assert.Len(t, s.cron.Entries(), 1)

	s.Start()
	defer s.Stop()

	next, ok := s.Next("purge")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), next, 5*time.Second)

	_, ok = s.Next("missing")
	assert.False(t, ok)
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	s := New(logger.NewTestLogger(t), 0)
	started := make(chan struct{})
	var cancelled atomic.Bool

	require.NoError(t, s.Add("slow", "@every 1s", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job never started")
	}
	s.Stop()
	assert.True(t, cancelled.Load())
}
