// internal/workers/matching/compute-compatibility/handler.go
package computecompatibility

import (
	"context"
	"encoding/json"
	"fmt"
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
	TaskType = "compute-compatibility"
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	requester, err := h.resolve(ctx, "user", input.UserID, input.UserProfile)
	if err != nil {
		return nil, err
	}
	candidate, err := h.resolve(ctx, "candidate", input.CandidateID, input.CandidateProfile)
	if err != nil {
		return nil, err
	}

	explanation, err := h.engine.Explain(requester, candidate, input.Weights)
	if err != nil {
		return nil, err
	}

	h.logger.Info("compatibility computed", map[string]interface{}{
		"userId":      requester.UserID,
		"candidateId": candidate.UserID,
		"score":       explanation.Score,
		"eligible":    explanation.Eligible,
	})

	return &Output{
		UserID:      requester.UserID,
		CandidateID: candidate.UserID,
		Explanation: *explanation,
	}, nil
}

// resolve returns the inline profile when given, otherwise loads it by id.
func (h *Handler) resolve(ctx context.Context, role, id string, inline *models.Profile) (*models.Profile, error) {
	p := inline
	if p == nil {
		if id == "" {
			return nil, apperrors.NewInvalidParametersError(fmt.Sprintf("%sId or %sProfile is required", role, role))
		}
		var err error
		if p, err = h.profiles.Get(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := validation.ValidateProfile(p); err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	return p, nil
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
