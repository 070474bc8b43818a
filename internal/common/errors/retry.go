package errors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryConfig defines retry behavior for transient gateway failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// SendWithRetry runs send with exponential backoff. Only transient failures
// are retried; the final error is a StandardError.
func SendWithRetry(ctx context.Context, retry *RetryConfig, operation string, send func(context.Context) error) error {
	if retry == nil {
		retry = DefaultRetryConfig
	}
	for attempt := 0; ; attempt++ {
		err := send(ctx)
		if err == nil {
			return nil
		}

		if !IsRetryableZeebeError(err) || attempt >= retry.MaxRetries {
			return MapZeebeError(err, operation, attempt+1)
		}

		delay := retry.BaseDelay * time.Duration(1<<attempt)
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return NewTimeoutError(operation, ctx.Err())
		}
	}
}

var retryablePhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

// IsRetryableZeebeError prefers the gRPC status code and falls back to the
// message for errors that lost it.
func IsRetryableZeebeError(err error) bool {
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
			return true
		default:
			return false
		}
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// MapZeebeError converts a gateway error into a StandardError.
func MapZeebeError(err error, operation string, attempts int) error {
	wrapped := fmt.Errorf("after %d attempt(s): %w", attempts, err)

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.DeadlineExceeded:
			return NewTimeoutError("zeebe_"+operation, wrapped)
		case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
			return NewWorkflowEngineError(operation, wrapped, true)
		case codes.NotFound, codes.AlreadyExists, codes.FailedPrecondition,
			codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated:
			return NewWorkflowEngineError(operation, wrapped, false)
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return NewTimeoutError("zeebe_"+operation, wrapped)
	default:
		return NewWorkflowEngineError(operation, wrapped, IsRetryableZeebeError(err))
	}
}
