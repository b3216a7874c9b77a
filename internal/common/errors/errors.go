// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProfileNotFound         ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeInvalidWeights          ErrorCode = "INVALID_WEIGHTS"
	ErrCodeInvalidParameters       ErrorCode = "INVALID_PARAMETERS"
	ErrCodeInvalidFeedback         ErrorCode = "INVALID_FEEDBACK"
	ErrCodeRequestNotFound         ErrorCode = "REQUEST_NOT_FOUND"

	ErrCodeCandidateSearchFailed ErrorCode = "CANDIDATE_SEARCH_FAILED"
	ErrCodeSearchTimeout         ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheFailed          ErrorCode = "CACHE_FAILED"
	ErrCodeTicketStoreFailed    ErrorCode = "TICKET_STORE_FAILED"

	ErrCodeEnrichmentTimeout ErrorCode = "ENRICHMENT_TIMEOUT"
	ErrCodeEnrichmentFailed  ErrorCode = "ENRICHMENT_FAILED"

	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err to a *StandardError if one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError creates a non-retryable error for an unknown user.
func NewProfileNotFoundError(userID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "Profile not found", fmt.Sprintf("userId: %s", userID), false)
}

// NewProfileValidationFailedError creates a non-retryable ingestion error.
func NewProfileValidationFailedError(details string) *StandardError {
	return newError(ErrCodeProfileValidationFailed, "Profile validation failed", details, false)
}

func NewInvalidWeightsError(err error) *StandardError {
	return newError(ErrCodeInvalidWeights, "Matching weights are invalid", err.Error(), false)
}

func NewInvalidParametersError(details string) *StandardError {
	return newError(ErrCodeInvalidParameters, "Matching parameters are invalid", details, false)
}

// NewInvalidFeedbackError creates a non-retryable feedback validation error.
func NewInvalidFeedbackError(details string) *StandardError {
	return newError(ErrCodeInvalidFeedback, "Feedback event is invalid", details, false)
}

// NewRequestNotFoundError is returned when a refresh has no cached request to replay.
func NewRequestNotFoundError(userID string) *StandardError {
	return newError(ErrCodeRequestNotFound, "No matching request to refresh", fmt.Sprintf("userId: %s", userID), false)
}

// NewCandidateSearchFailedError creates a retryable Elasticsearch error.
func NewCandidateSearchFailedError(err error) *StandardError {
	return newError(ErrCodeCandidateSearchFailed, "Candidate search failed", err.Error(), true)
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewCacheFailedError(err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed", err.Error(), true)
}

func NewTicketStoreFailedError(err error) *StandardError {
	return newError(ErrCodeTicketStoreFailed, "Ticket store operation failed", err.Error(), true)
}

func NewEnrichmentTimeoutError() *StandardError {
	return newError(ErrCodeEnrichmentTimeout, "AI enrichment timeout", "enrichment exceeded its deadline", false)
}

func NewEnrichmentFailedError(err error) *StandardError {
	return newError(ErrCodeEnrichmentFailed, "AI enrichment failed", err.Error(), false)
}

// NewInputParsingFailedError creates a non-retryable error for unreadable job variables.
func NewInputParsingFailedError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. The two are identical
// except where several internal codes collapse into one boundary event.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileNotFound:         "PROFILE_NOT_FOUND",
	ErrCodeProfileValidationFailed: "PROFILE_VALIDATION_FAILED",
	ErrCodeInvalidWeights:          "INVALID_WEIGHTS",
	ErrCodeInvalidParameters:       "INVALID_PARAMETERS",
	ErrCodeInvalidFeedback:         "INVALID_FEEDBACK",
	ErrCodeRequestNotFound:         "REQUEST_NOT_FOUND",
	ErrCodeCandidateSearchFailed:   "CANDIDATE_SEARCH_FAILED",
	ErrCodeSearchTimeout:           "CANDIDATE_SEARCH_FAILED",
	ErrCodeQueryExecutionFailed:    "QUERY_EXECUTION_FAILED",
	ErrCodeDatabaseInsertFailed:    "DATABASE_INSERT_FAILED",
	ErrCodeCacheFailed:             "CACHE_FAILED",
	ErrCodeTicketStoreFailed:       "TICKET_STORE_FAILED",
	ErrCodeEnrichmentTimeout:       "ENRICHMENT_TIMEOUT",
	ErrCodeEnrichmentFailed:        "ENRICHMENT_FAILED",
	ErrCodeInputParsingFailed:      "INPUT_PARSING_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeCandidateSearchFailed,
		ErrCodeTicketStoreFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout,
		ErrCodeCacheFailed:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "PROFILE") || strings.HasPrefix(codeStr, "REQUEST"):
		return "PROFILE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "TICKET"):
		return "STORE"
	case strings.Contains(codeStr, "ENRICHMENT"):
		return "AI"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
