// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"match-workers/internal/common/config"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

// JobHandler is implemented by every worker package's Handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// WorkerGroup opens job workers against one Zeebe client and closes them together.
type WorkerGroup struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

// NewWorkerGroup creates an empty group. obs may be nil.
func NewWorkerGroup(client zbc.Client, obs *observability.Observability, log logger.Logger) *WorkerGroup {
	return &WorkerGroup{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled. It reports whether a worker was opened.
func (g *WorkerGroup) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		g.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := g.client.NewJobWorker().
		JobType(taskType).
		Handler(g.Instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType + "-worker").
		Open()

	g.mu.Lock()
	if old, ok := g.workers[taskType]; ok {
		old.Close()
	}
	g.workers[taskType] = jw
	g.mu.Unlock()

	g.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Instrument wraps handler in a span and records the job count and duration for taskType.
func (g *WorkerGroup) Instrument(taskType string, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := g.obs.StartSpan(context.Background(), "job "+taskType,
			attribute.String("job.type", taskType),
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer observability.EndSpan(span, nil)

		handler.Handle(client, job)

		g.obs.RecordJobProcessed(ctx, taskType)
		g.obs.RecordJobDuration(ctx, time.Since(start), taskType)
	}
}

// Running returns the number of open workers.
func (g *WorkerGroup) Running() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.workers)
}

// Close stops every worker and waits for in-flight jobs to finish.
func (g *WorkerGroup) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for taskType, jw := range g.workers {
		g.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
	}
	g.workers = make(map[string]worker.JobWorker)
}
