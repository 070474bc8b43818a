package errors

import (
	"context"
	"encoding/json"
	"time"

	"match-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler routes a failed job either back to the engine for a retry or
// as a thrown BPMN error.
type ErrorHandler struct {
	logger      Logger
	baseBackoff time.Duration
	retry       *RetryConfig
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger, baseBackoff: 2 * time.Second, retry: DefaultRetryConfig}
}

// HandleJobError fails job with retries left when err is retryable and
// throws a BPMN error otherwise.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandard(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(stdErr.Code)).Inc()

	if bpmnErr.Retries > 0 && job.Retries > 1 {
		h.failJob(ctx, client, job, bpmnErr)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// Backoff doubles per consumed retry: 2s, 4s, 8s ...
func (h *ErrorHandler) Backoff(maxRetries int, remaining int32) time.Duration {
	attempt := maxRetries - int(remaining)
	if attempt < 0 {
		attempt = 0
	}
	return h.baseBackoff << uint(attempt)
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	retries := job.Retries - 1
	if int(retries) > bpmnErr.Retries {
		retries = int32(bpmnErr.Retries)
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(bpmnErr.Message).
		RetryBackoff(h.Backoff(bpmnErr.Retries, retries))

	send := func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	}
	if payload, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(payload)); err == nil {
			send = func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			}
		}
	}
	h.send(ctx, job, "fail_job", send)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	send := func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	}
	if payload, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(payload)); err == nil {
			send = func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			}
		}
	}
	h.send(ctx, job, "throw_error", send)
}

func (h *ErrorHandler) send(ctx context.Context, job entities.Job, operation string, fn func(context.Context) error) {
	if err := SendWithRetry(ctx, h.retry, operation, fn); err != nil {
		h.logger.Error("failed to send job command", map[string]interface{}{
			"jobKey":    job.Key,
			"operation": operation,
			"error":     err.Error(),
		})
	}
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retries":          bpmnErr.Retries,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
