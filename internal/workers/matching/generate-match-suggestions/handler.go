// internal/workers/matching/generate-match-suggestions/handler.go
package generatematchsuggestions

import (
	"context"
	"encoding/json"
	"errors"
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
	TaskType = "generate-match-suggestions"
)

type Handler struct {
	config     *Config
	engine     *matching.Engine
	profiles   *profiles.Repository
	search     *profiles.Search
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. search may be nil, in which case candidates are listed from Postgres.
func NewHandler(config *Config, engine *matching.Engine, repo *profiles.Repository, search *profiles.Search, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	requester, err := h.loadRequester(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProfile(requester); err != nil {
		return nil, err
	}

	candidates, source, err := h.loadCandidates(ctx, requester, input.Candidates)
	if err != nil {
		return nil, err
	}

	seen := input.SeenIDs
	if seen == nil {
		seen, err = h.profiles.SeenIDs(ctx, requester.UserID)
		if err != nil {
			h.logger.Warn("seen ids unavailable, diversity stats treat every profile as new", map[string]interface{}{
				"userId": requester.UserID,
				"error":  err.Error(),
			})
		}
	}

	resp, err := h.engine.Rank(ctx, matching.Request{
		Requester:  requester,
		Candidates: candidates,
		Weights:    input.Weights,
		Lambda:     input.Lambda,
		Epsilon:    input.Epsilon,
		SeenIDs:    seen,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.UserID
	}
	stored := &profiles.StoredRequest{
		UserID:       requester.UserID,
		CandidateIDs: ids,
		Weights:      input.Weights,
		Lambda:       input.Lambda,
		Epsilon:      input.Epsilon,
		CreatedAt:    resp.GeneratedAt,
	}
	if err := h.profiles.SaveRequest(ctx, stored); err != nil {
		h.logger.Warn("failed to cache request, refresh will be unavailable", map[string]interface{}{
			"userId": requester.UserID,
			"error":  err.Error(),
		})
	}

	h.logger.Info("match suggestions generated", map[string]interface{}{
		"userId":          requester.UserID,
		"candidateSource": source,
		"candidates":      len(candidates),
		"suggestions":     len(resp.Suggestions),
	})

	return &Output{
		MatchingResponse: *resp,
		CandidateSource:  source,
		CandidateCount:   len(candidates),
	}, nil
}

func (h *Handler) loadRequester(ctx context.Context, input *Input) (*models.Profile, error) {
	if input.Profile != nil {
		if input.UserID != "" && input.Profile.UserID != input.UserID {
			return nil, apperrors.NewInvalidParametersError("userId does not match profile.userId")
		}
		return input.Profile, nil
	}
	if input.UserID == "" {
		return nil, apperrors.NewInvalidParametersError("userId or profile is required")
	}
	return h.profiles.Get(ctx, input.UserID)
}

// loadCandidates prefers inline candidates, then an Elasticsearch prefetch resolved through the
// repository, then a plain Postgres listing when search is unavailable or fails.
func (h *Handler) loadCandidates(ctx context.Context, requester *models.Profile, inline []*models.Profile) ([]*models.Profile, string, error) {
	if len(inline) > 0 {
		return h.validCandidates(inline), SourceInput, nil
	}

	if h.search != nil {
		ids, err := h.search.CandidateIDs(ctx, requester, h.config.PrefetchRadiusKm, h.config.CandidateLimit)
		if err == nil {
			candidates, err := h.profiles.GetMany(ctx, ids)
			if err != nil {
				return nil, "", err
			}
			return h.validCandidates(candidates), SourceSearch, nil
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, "", err
		}
		h.logger.Warn("candidate prefetch failed, falling back to database listing", map[string]interface{}{
			"userId": requester.UserID,
			"error":  err.Error(),
		})
	}

	candidates, err := h.profiles.ListOpen(ctx, requester.UserID, h.config.CandidateLimit)
	if err != nil {
		return nil, "", err
	}
	return h.validCandidates(candidates), SourceDatabase, nil
}

// validCandidates drops candidates that fail validation instead of failing the whole request.
func (h *Handler) validCandidates(in []*models.Profile) []*models.Profile {
	out := make([]*models.Profile, 0, len(in))
	for _, c := range in {
		if err := validation.ValidateProfile(c); err != nil {
			h.logger.Warn("skipping invalid candidate", map[string]interface{}{
				"candidateId": candidateID(c),
				"error":       err.Error(),
			})
			continue
		}
		out = append(out, c)
	}
	return out
}

func candidateID(p *models.Profile) string {
	if p == nil {
		return ""
	}
	return p.UserID
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
