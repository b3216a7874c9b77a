// internal/common/camunda/worker_test.go
package camunda

import (
	"testing"

	"match-workers/internal/common/config"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	keys []int64
}

func (h *recordingHandler) Handle(_ worker.JobClient, job entities.Job) {
	h.keys = append(h.keys, job.Key)
}

func newJob(key int64) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: key, Type: "generate-match-suggestions"}}
}

func TestWorkerGroup_InstrumentCallsHandler(t *testing.T) {
	for _, obs := range []*observability.Observability{nil, observability.New("worker-test")} {
		g := NewWorkerGroup(nil, obs, logger.NewTestLogger(t))
		h := &recordingHandler{}

		wrapped := g.Instrument("generate-match-suggestions", h)
		wrapped(nil, newJob(7))
		wrapped(nil, newJob(8))

		assert.Equal(t, []int64{7, 8}, h.keys)
		obs.Shutdown()
	}
}

func TestWorkerGroup_DisabledWorkerIsNotStarted(t *testing.T) {
	g := NewWorkerGroup(nil, nil, logger.NewTestLogger(t))

	started := g.Start("record-match-feedback", config.WorkerConfig{Enabled: false}, &recordingHandler{})
	assert.False(t, started)
	assert.Equal(t, 0, g.Running())
	g.Close()
}
