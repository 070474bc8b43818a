// Package errors provides the structured error model shared by the matching
// workers and its mapping onto BPMN errors.
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

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Domain codes.
const (
	// ErrCodeInputOutOfRange is advisory. The scorer sanitizes the field and
	// records a note; it never returns this code as a failure.
	ErrCodeInputOutOfRange ErrorCode = "INPUT_OUT_OF_RANGE"
	// ErrCodeExtractionPartial is advisory. A resume sub-extractor produced
	// an empty section.
	ErrCodeExtractionPartial ErrorCode = "EXTRACTION_PARTIAL"
	// ErrCodePersistenceConflict marks a match that another writer stored
	// first. The driver tallies it as a skip.
	ErrCodePersistenceConflict ErrorCode = "PERSISTENCE_CONFLICT"
	// ErrCodeUnrecoverableInput marks a payload that violates the type
	// contract of an operation.
	ErrCodeUnrecoverableInput ErrorCode = "UNRECOVERABLE_INPUT"
)

// Infrastructure codes.
const (
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheError        ErrorCode = "CACHE_ERROR"
	ErrCodeSearchError       ErrorCode = "SEARCH_ERROR"
	ErrCodeNotificationError ErrorCode = "NOTIFICATION_ERROR"
	ErrCodeEnhancerError     ErrorCode = "ENHANCER_ERROR"
	ErrCodeWorkflowEngine    ErrorCode = "WORKFLOW_ENGINE_ERROR"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata returns e after attaching key/value.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError is thrown to the workflow engine instead of failing the job.
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

// ToErrorVariables returns the process variables attached to a thrown or
// failed job.
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

// NewUnrecoverableInputError reports a payload that cannot be processed at all.
func NewUnrecoverableInputError(details string) *StandardError {
	e := newError(ErrCodeUnrecoverableInput, "Input violates the operation contract", nil, false)
	e.Details = details
	return e
}

func NewInputOutOfRangeNote(field string, value interface{}) *StandardError {
	e := newError(ErrCodeInputOutOfRange, "Input value out of range", nil, false)
	e.Details = fmt.Sprintf("%s=%v", field, value)
	return e.WithMetadata("field", field)
}

func NewExtractionPartialError(section string, cause error) *StandardError {
	return newError(ErrCodeExtractionPartial, fmt.Sprintf("Could not extract %s", section), cause, false).
		WithMetadata("section", section)
}

func NewPersistenceConflictError(candidateID, jobID string) *StandardError {
	e := newError(ErrCodePersistenceConflict, "Match already stored", nil, false)
	e.Details = fmt.Sprintf("candidateId: %s, jobId: %s", candidateID, jobID)
	return e
}

func NewDatabaseError(op string, err error) *StandardError {
	return newError(ErrCodeDatabaseError, fmt.Sprintf("Database operation %q failed", op), err, true)
}

func NewCacheError(op string, err error) *StandardError {
	return newError(ErrCodeCacheError, fmt.Sprintf("Cache operation %q failed", op), err, true)
}

func NewSearchError(op string, err error) *StandardError {
	return newError(ErrCodeSearchError, fmt.Sprintf("Search operation %q failed", op), err, true)
}

func NewNotificationError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationError, fmt.Sprintf("Notification over %s failed", channel), err, true)
}

func NewEnhancerError(err error) *StandardError {
	return newError(ErrCodeEnhancerError, "Recommendation enhancer failed", err, true)
}

// NewWorkflowEngineError reports a failed call to the Zeebe gateway.
func NewWorkflowEngineError(op string, err error, retryable bool) *StandardError {
	return newError(ErrCodeWorkflowEngine, fmt.Sprintf("Workflow engine operation %q failed", op), err, retryable)
}

func NewTimeoutError(op string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Operation %q timed out", op), err, true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns how many times a job failing with code is retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseError, ErrCodeSearchError, ErrCodeNotificationError:
		return 3
	case ErrCodeCacheError, ErrCodeTimeout, ErrCodeWorkflowEngine:
		return 2
	case ErrCodeEnhancerError:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError into the BPMN error thrown to
// the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard unwraps err into a StandardError, wrapping unknown errors as
// INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether any StandardError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// IsAdvisory reports codes that are recorded on results rather than raised.
func IsAdvisory(code ErrorCode) bool {
	return code == ErrCodeInputOutOfRange || code == ErrCodeExtractionPartial
}

// GetErrorCategory groups codes for dashboards and logs.
func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "INPUT") || strings.HasPrefix(s, "UNRECOVERABLE"):
		return "INPUT"
	case strings.HasPrefix(s, "EXTRACTION"):
		return "EXTRACTION"
	case strings.HasPrefix(s, "PERSISTENCE") || strings.HasPrefix(s, "DATABASE"):
		return "PERSISTENCE"
	case strings.HasPrefix(s, "CACHE"), strings.HasPrefix(s, "SEARCH"), strings.HasPrefix(s, "WORKFLOW"):
		return "INFRASTRUCTURE"
	case strings.HasPrefix(s, "NOTIFICATION"), strings.HasPrefix(s, "ENHANCER"):
		return "INTEGRATION"
	default:
		return "INTERNAL"
	}
}
