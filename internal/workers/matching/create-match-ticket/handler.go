// internal/workers/matching/create-match-ticket/handler.go
package creatematchticket

import (
	"context"
	"encoding/json"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/validation"
	"match-workers/internal/matching/pool"
	"match-workers/internal/models"
	"match-workers/internal/profiles"
	"match-workers/internal/workers/matching/jobs"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-match-ticket"
)

type Handler struct {
	config     *Config
	matchmaker *pool.Matchmaker
	profiles   *profiles.Repository
	search     *profiles.Search
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. search may be nil, in which case profiles are not indexed.
func NewHandler(config *Config, mm *pool.Matchmaker, repo *profiles.Repository, search *profiles.Search, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		matchmaker: mm,
		profiles:   repo,
		search:     search,
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

// execute stores an inline profile, registers its ticket and indexes it for candidate
// prefetch. Every step is idempotent so a retried job converges.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile, persisted, err := h.loadProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	ticket, err := h.matchmaker.Register(ctx, profile)
	if err != nil {
		return nil, err
	}

	indexed := false
	if h.search != nil {
		if err := h.search.Index(ctx, profile); err != nil {
			return nil, err
		}
		indexed = true
	}

	admitted := make([]string, 0, len(h.matchmaker.Pools()))
	for _, def := range h.matchmaker.Pools() {
		if def.Admits(ticket) {
			admitted = append(admitted, def.Name)
		}
	}

	h.logger.Info("match ticket registered", map[string]interface{}{
		"userId":    profile.UserID,
		"ticketId":  ticket.ID,
		"pools":     admitted,
		"persisted": persisted,
		"indexed":   indexed,
	})

	return &Output{
		TicketID:  ticket.ID,
		UserID:    ticket.UserID,
		Pools:     admitted,
		Tags:      ticket.Tags,
		CreatedAt: ticket.CreatedAt,
		Persisted: persisted,
		Indexed:   indexed,
	}, nil
}

func (h *Handler) loadProfile(ctx context.Context, input *Input) (*models.Profile, bool, error) {
	if input.Profile == nil {
		if input.UserID == "" {
			return nil, false, apperrors.NewInvalidParametersError("userId or profile is required")
		}
		p, err := h.profiles.Get(ctx, input.UserID)
		if err != nil {
			return nil, false, err
		}
		if err := validation.ValidateProfile(p); err != nil {
			return nil, false, err
		}
		return p, false, nil
	}

	if input.UserID != "" && input.Profile.UserID != input.UserID {
		return nil, false, apperrors.NewInvalidParametersError("userId does not match profile.userId")
	}
	if err := validation.ValidateProfile(input.Profile); err != nil {
		return nil, false, err
	}
	written, err := h.profiles.Save(ctx, input.Profile)
	if err != nil {
		return nil, false, err
	}
	return input.Profile, written, nil
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
