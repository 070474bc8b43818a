package errors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeGateway struct {
	pb.GatewayClient
	errs      []error
	failReqs  []*pb.FailJobRequest
	throwReqs []*pb.ThrowErrorRequest
}

func (g *fakeGateway) next() error {
	if len(g.errs) == 0 {
		return nil
	}
	err := g.errs[0]
	g.errs = g.errs[1:]
	return err
}

func (g *fakeGateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.failReqs = append(g.failReqs, in)
	if err := g.next(); err != nil {
		return nil, err
	}
	return &pb.FailJobResponse{}, nil
}

func (g *fakeGateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.throwReqs = append(g.throwReqs, in)
	if err := g.next(); err != nil {
		return nil, err
	}
	return &pb.ThrowErrorResponse{}, nil
}

func neverRetry(context.Context, error) bool { return false }

type fakeJobClient struct{ gw *fakeGateway }

func (c fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gw, neverRetry)
}

func (c fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gw, neverRetry)
}

func (c fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gw, neverRetry)
}

type captureLogger struct{ messages []string }

func (l *captureLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func testHandler(log Logger) *ErrorHandler {
	h := NewErrorHandler(log)
	h.retry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	return h
}

func testJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 9, Type: "score-candidate-match", Retries: retries}}
}

// ==========================
// HandleJobError
// ==========================

func TestHandleJobError_FailJobRetriesTransientGatewayError(t *testing.T) {
	gw := &fakeGateway{errs: []error{status.Error(codes.Unavailable, "gateway restarting")}}
	log := &captureLogger{}

	testHandler(log).HandleJobError(context.Background(), fakeJobClient{gw}, testJob(3),
		NewDatabaseError("upsert_match", fmt.Errorf("conn reset")))

	require.Len(t, gw.failReqs, 2)
	assert.Equal(t, int64(9), gw.failReqs[1].JobKey)
	assert.Equal(t, int32(2), gw.failReqs[1].Retries)
	assert.Empty(t, gw.throwReqs)
	assert.Equal(t, []string{"Job failed"}, log.messages)
}

func TestHandleJobError_ThrowErrorLogsPermanentGatewayError(t *testing.T) {
	gw := &fakeGateway{errs: []error{status.Error(codes.NotFound, "job not found")}}
	log := &captureLogger{}

	testHandler(log).HandleJobError(context.Background(), fakeJobClient{gw}, testJob(3),
		NewUnrecoverableInputError("candidate is required"))

	require.Len(t, gw.throwReqs, 1)
	assert.Equal(t, string(ErrCodeUnrecoverableInput), gw.throwReqs[0].ErrorCode)
	assert.Empty(t, gw.failReqs)
	assert.Equal(t, []string{"Job failed", "failed to send job command"}, log.messages)
}

func TestHandleJobError_LastRetryThrows(t *testing.T) {
	gw := &fakeGateway{}

	testHandler(&captureLogger{}).HandleJobError(context.Background(), fakeJobClient{gw}, testJob(1),
		NewDatabaseError("upsert_match", fmt.Errorf("conn reset")))

	assert.Empty(t, gw.failReqs)
	require.Len(t, gw.throwReqs, 1)
	assert.Equal(t, string(ErrCodeDatabaseError), gw.throwReqs[0].ErrorCode)
}
