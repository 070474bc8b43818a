package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantRetries int
	}{
		{name: "database errors retry three times", err: NewDatabaseError("upsert_match", fmt.Errorf("conn reset")), wantRetries: 3},
		{name: "cache errors retry twice", err: NewCacheError("get", fmt.Errorf("i/o timeout")), wantRetries: 2},
		{name: "input contract violations never retry", err: NewUnrecoverableInputError("candidate is required"), wantRetries: 0},
		{name: "internal errors never retry", err: NewInternalError(fmt.Errorf("nil map")), wantRetries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.err.Message, vars["errorMessage"])
			assert.Equal(t, tt.err.Retryable, vars["retryable"])
		})
	}
}

func TestAsStandard(t *testing.T) {
	assert.Nil(t, AsStandard(nil))

	conflict := NewPersistenceConflictError("c-1", "j-1")
	wrapped := fmt.Errorf("generate: %w", conflict)
	assert.Same(t, conflict, AsStandard(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodePersistenceConflict))

	plain := AsStandard(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestStandardErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewSearchError("index_candidate", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "SEARCH_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAdvisoryCodes(t *testing.T) {
	note := NewInputOutOfRangeNote("min_salary", -5)
	assert.True(t, IsAdvisory(note.Code))
	assert.Equal(t, "min_salary", note.Metadata["field"])

	partial := NewExtractionPartialError("experience", fmt.Errorf("bad date"))
	assert.True(t, IsAdvisory(partial.Code))
	assert.False(t, IsAdvisory(ErrCodeDatabaseError))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "INPUT", GetErrorCategory(ErrCodeUnrecoverableInput))
	assert.Equal(t, "PERSISTENCE", GetErrorCategory(ErrCodePersistenceConflict))
	assert.Equal(t, "INFRASTRUCTURE", GetErrorCategory(ErrCodeCacheError))
	assert.Equal(t, "INTEGRATION", GetErrorCategory(ErrCodeEnhancerError))
	assert.Equal(t, "INTERNAL", GetErrorCategory(ErrCodeInternal))
}

func TestBackoff(t *testing.T) {
	h := NewErrorHandler(nil)
	require.NotNil(t, h)
	assert.Equal(t, 2*time.Second, h.Backoff(3, 3))
	assert.Equal(t, 4*time.Second, h.Backoff(3, 2))
	assert.Equal(t, 8*time.Second, h.Backoff(3, 1))
	assert.Equal(t, 2*time.Second, h.Backoff(1, 5))
}
