// internal/workers/matching/refresh-match-suggestions/handler.go
package refreshmatchsuggestions

import (
	"context"
	"encoding/json"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/validation"
	"match-workers/internal/matching"
	"match-workers/internal/models"
	"match-workers/internal/profiles"
	"match-workers/internal/workers/matching/jobs"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "refresh-match-suggestions"
)

type Handler struct {
	config     *Config
	engine     *matching.Engine
	profiles   *profiles.Repository
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, engine *matching.Engine, repo *profiles.Repository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		profiles:   repo,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	done := jobs.Track(TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInputParsingFailedError(err)
		done(stdErr)
		h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	done(err)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, jobs.Classify(err))
		return
	}

	h.completeJob(client, job, output)
}

// execute replays the last request for the user against freshly loaded profiles. Candidates
// deleted or invalidated since then are dropped; the new seen set is applied.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, apperrors.NewInvalidParametersError("userId is required")
	}

	stored, err := h.profiles.LoadRequest(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	requester, err := h.profiles.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProfile(requester); err != nil {
		return nil, err
	}

	loaded, err := h.profiles.GetMany(ctx, stored.CandidateIDs)
	if err != nil {
		return nil, err
	}
	candidates := make([]*models.Profile, 0, len(loaded))
	for _, c := range loaded {
		if err := validation.ValidateProfile(c); err != nil {
			h.logger.Warn("skipping invalid candidate", map[string]interface{}{
				"candidateId": c.UserID,
				"error":       err.Error(),
			})
			continue
		}
		candidates = append(candidates, c)
	}

	seen, err := h.profiles.SeenIDs(ctx, input.UserID)
	if err != nil {
		h.logger.Warn("seen ids unavailable, diversity stats treat every profile as new", map[string]interface{}{
			"userId": input.UserID,
			"error":  err.Error(),
		})
	}

	resp, err := h.engine.Refresh(ctx, matching.Request{
		Requester:  requester,
		Candidates: candidates,
		Weights:    stored.Weights,
		Lambda:     stored.Lambda,
		Epsilon:    stored.Epsilon,
		SeenIDs:    seen,
	})
	if err != nil {
		return nil, err
	}

	dropped := len(stored.CandidateIDs) - len(candidates)
	h.logger.Info("match suggestions refreshed", map[string]interface{}{
		"userId":      input.UserID,
		"candidates":  len(candidates),
		"dropped":     dropped,
		"suggestions": len(resp.Suggestions),
	})

	return &Output{
		MatchingResponse: *resp,
		RequestedAt:      stored.CreatedAt,
		CandidateCount:   len(candidates),
		DroppedCount:     dropped,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
