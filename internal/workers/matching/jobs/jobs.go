// internal/workers/matching/jobs/jobs.go
package jobs

import (
	"errors"
	"strings"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/metrics"
	"match-workers/internal/common/validation"
	"match-workers/internal/matching"
	"match-workers/internal/matching/pool"
	"match-workers/internal/profiles"
)

// Classify maps the sentinel errors of the matching packages onto StandardErrors so the
// ErrorHandler can decide between retrying the job and throwing a BPMN error.
func Classify(err error) *apperrors.StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return stdErr
	}

	switch {
	case errors.Is(err, profiles.ErrProfileNotFound), errors.Is(err, matching.ErrMissingRequester):
		return apperrors.NewProfileNotFoundError(detail(err, profiles.ErrProfileNotFound))
	case errors.Is(err, validation.ErrProfileInvalid):
		return apperrors.NewProfileValidationFailedError(detail(err, validation.ErrProfileInvalid))
	case errors.Is(err, validation.ErrFeedbackInvalid):
		return apperrors.NewInvalidFeedbackError(detail(err, validation.ErrFeedbackInvalid))
	case errors.Is(err, matching.ErrNegativeWeight):
		return apperrors.NewInvalidWeightsError(err)
	case errors.Is(err, matching.ErrInvalidParameter):
		return apperrors.NewInvalidParametersError(detail(err, matching.ErrInvalidParameter))
	case errors.Is(err, profiles.ErrRequestNotFound):
		return apperrors.NewRequestNotFoundError(detail(err, profiles.ErrRequestNotFound))
	case errors.Is(err, profiles.ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError("candidate_prefetch")
	case errors.Is(err, profiles.ErrSearchFailed):
		return apperrors.NewCandidateSearchFailedError(err)
	case errors.Is(err, profiles.ErrQueryFailed):
		return apperrors.NewQueryExecutionFailedError("profiles", err)
	case errors.Is(err, profiles.ErrInsertFailed):
		return apperrors.NewDatabaseInsertFailedError(err)
	case errors.Is(err, profiles.ErrCacheFailed):
		return apperrors.NewCacheFailedError(err)
	case errors.Is(err, pool.ErrTicketStore):
		return apperrors.NewTicketStoreFailedError(err)
	case errors.Is(err, matching.ErrEnrichmentTimeout):
		return apperrors.NewEnrichmentTimeoutError()
	}
	return apperrors.NewInternalError(err)
}

func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// Track marks a job as active and returns the function that records its outcome.
func Track(taskType string) func(err error) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func(err error) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}
	}
}
