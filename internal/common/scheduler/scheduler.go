// internal/common/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"match-workers/internal/common/logger"

	"github.com/robfig/cron/v3"
)

// Job is a unit of periodic background work.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on cron specs. A run that is still in progress when its next
// tick fires is skipped.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	logger  logger.Logger
	entries map[string]cron.EntryID
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. timeout bounds each run; zero means no bound.
func New(log logger.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  log,
		entries: make(map[string]cron.EntryID),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers job under name, replacing any job already registered with that name.
// spec accepts standard 5-field cron expressions and descriptors such as "@every 15m".
func (s *Scheduler) Add(name, spec string, job Job) error {
	if job == nil {
		return errors.New("job must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	if old, ok := s.entries[name]; ok {
		s.cron.Remove(old)
	}
	s.entries[name] = id
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("scheduled job failed", map[string]interface{}{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	s.logger.Debug("scheduled job completed", map[string]interface{}{
		"job":      name,
		"duration": time.Since(start).String(),
	})
}

// Next returns the next activation time for name.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start begins cron execution.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("cron: "+msg, fields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	f := fields(keysAndValues)
	f["error"] = err.Error()
	c.log.Error("cron: "+msg, f)
}

func fields(kv []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
