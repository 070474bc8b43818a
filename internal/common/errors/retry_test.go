package errors

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

// ==========================
// SendWithRetry
// ==========================

func TestSendWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	err := SendWithRetry(context.Background(), fastRetry(), "complete_job", func(context.Context) error {
		calls++
		if calls < 2 {
			return status.Error(codes.Unavailable, "gateway restarting")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSendWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	err := SendWithRetry(context.Background(), fastRetry(), "complete_job", func(context.Context) error {
		calls++
		return status.Error(codes.NotFound, "job already completed")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, HasCode(err, ErrCodeWorkflowEngine))
	assert.Contains(t, err.Error(), "complete_job")
}

func TestSendWithRetry_NilConfigUsesDefault(t *testing.T) {
	calls := 0
	err := SendWithRetry(context.Background(), nil, "fail_job", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

// ==========================
// Error classification
// ==========================

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unavailable", status.Error(codes.Unavailable, "x"), true},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), true},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "x"), true},
		{"not found", status.Error(codes.NotFound, "x"), false},
		{"invalid argument", status.Error(codes.InvalidArgument, "x"), false},
		{"plain connection reset", stderrors.New("read: connection reset by peer"), true},
		{"plain other", stderrors.New("bad variables"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableZeebeError(tt.err))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      ErrorCode
		wantRetryable bool
	}{
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), ErrCodeTimeout, true},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrCodeWorkflowEngine, true},
		{"already exists", status.Error(codes.AlreadyExists, "dup"), ErrCodeWorkflowEngine, false},
		{"plain timeout", stderrors.New("i/o timeout"), ErrCodeTimeout, true},
		{"plain unknown", stderrors.New("weird"), ErrCodeWorkflowEngine, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := AsStandard(MapZeebeError(tt.err, "op", 1))
			assert.Equal(t, tt.wantCode, std.Code)
			assert.Equal(t, tt.wantRetryable, std.Retryable)
			assert.ErrorIs(t, std, tt.err)
		})
	}
}
