package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func testClient() *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

// ==========================
// ExecuteWithRetry
// ==========================

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	c := testClient()
	calls := 0

	out, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, status.Error(codes.Unavailable, "gateway restarting")
		}
		return "ok", nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_Exhausted(t *testing.T) {
	c := testClient()
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("dial tcp: connection refused")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeWorkflowEngine))
	assert.Contains(t, err.Error(), "topology")
}

func TestExecuteWithRetry_PermanentErrorNotRetried(t *testing.T) {
	c := testClient()
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, status.Error(codes.NotFound, "no such job")
	}, "complete_job")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	std := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeWorkflowEngine, std.Code)
	assert.False(t, std.Retryable)
}

func TestExecuteWithRetry_CancelledDuringBackoff(t *testing.T) {
	c := testClient()
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		cancel()
		return nil, status.Error(codes.Unavailable, "down")
	}, "topology")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTimeout))
}

// ==========================
// Instrument
// ==========================

type recorded struct {
	processed int
	durations []time.Duration
}

func (r *recorded) RecordJobProcessed(context.Context, string) { r.processed++ }

func (r *recorded) RecordJobDuration(_ context.Context, _ string, d time.Duration) {
	r.durations = append(r.durations, d)
}

func TestInstrument(t *testing.T) {
	const taskType = "instrument-test"
	rec := &recorded{}
	var seen int64

	h := Instrument(taskType, func(_ worker.JobClient, job entities.Job) {
		seen = job.Key
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	}, rec)

	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 77, Type: taskType}})

	assert.Equal(t, int64(77), seen)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	assert.Equal(t, 1, rec.processed)
	assert.Len(t, rec.durations, 1)
}

func TestInstrument_NilRecorder(t *testing.T) {
	called := false
	h := Instrument("instrument-nil", func(worker.JobClient, entities.Job) { called = true }, nil)
	assert.NotPanics(t, func() { h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{}}) })
	assert.True(t, called)
}
