// internal/workers/matching/generate-missing-matches/handler.go
package generatemissingmatches

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/common/validation"
	"match-workers/internal/matching/driver"
	"match-workers/internal/notify"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-missing-matches"
)

type Generator interface {
	GenerateMissingMatches(ctx context.Context, employerID string) (driver.Tally, error)
}

// Notifier sends the employer digest. It is optional.
type Notifier interface {
	SendDigest(ctx context.Context, employerID string, to notify.Recipient, tally driver.Tally) (notify.Sent, error)
}

type Handler struct {
	config    *Config
	generator Generator
	notifier  Notifier
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, generator Generator, notifier Notifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		generator: generator,
		notifier:  notifier,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		if ctx.Err() != nil && !apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
			err = apperrors.NewTimeoutError(TaskType, err)
		}
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := validation.CheckPayload(TaskType, job.Variables); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewUnrecoverableInputError(fmt.Sprintf("parse input: %v", err))
	}
	input.EmployerID = strings.TrimSpace(input.EmployerID)
	if input.EmployerID == "" {
		return nil, apperrors.NewUnrecoverableInputError("employerId is required")
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	tally, err := h.generator.GenerateMissingMatches(ctx, input.EmployerID)
	if err != nil {
		if ctx.Err() != nil {
			h.logger.Warn("match generation interrupted", map[string]interface{}{
				"employerId": input.EmployerID,
				"written":    tally.Written,
				"total":      tally.Total,
			})
			return nil, apperrors.NewTimeoutError(TaskType, err)
		}
		return nil, err
	}

	output := &Output{MatchesWritten: tally.Written, Tally: tally}
	if input.Notify != nil && h.notifier != nil {
		sent, err := h.notifier.SendDigest(ctx, input.EmployerID, *input.Notify, tally)
		if err != nil {
			h.logger.Warn("digest not fully delivered", map[string]interface{}{
				"employerId": input.EmployerID,
				"code":       string(apperrors.ErrCodeNotificationError),
				"error":      err.Error(),
			})
		}
		output.Notified = sent
	}
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	err = apperrors.SendWithRetry(context.Background(), apperrors.DefaultRetryConfig, "complete_job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":         job.Key,
		"matchesWritten": output.MatchesWritten,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
