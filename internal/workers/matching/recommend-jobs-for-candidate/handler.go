// internal/workers/matching/recommend-jobs-for-candidate/handler.go
package recommendjobsforcandidate

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/common/validation"
	"match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-jobs-for-candidate"
)

type Ranker interface {
	BestMatchesForCandidate(ctx context.Context, c models.Candidate, jobs []models.Job, topN int) ([]models.JobMatch, error)
}

type Handler struct {
	config *Config
	ranker Ranker
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, ranker Ranker, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		ranker: ranker,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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
	if err := models.Validate(input.Candidate); err != nil {
		return nil, apperrors.NewUnrecoverableInputError(err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	topN := h.config.DefaultTopN
	if input.TopN != nil {
		topN = *input.TopN
	}

	matches, err := h.ranker.BestMatchesForCandidate(ctx, input.Candidate, input.Jobs, topN)
	if err != nil {
		return nil, err
	}

	h.logger.Info("jobs ranked for candidate", map[string]interface{}{
		"candidateId": input.Candidate.ID,
		"jobs":        len(input.Jobs),
		"returned":    len(matches),
		"topN":        topN,
	})

	return &Output{
		Recommendations: matches,
		Count:           len(matches),
		JobsConsidered:  len(input.Jobs),
	}, nil
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
	h.logger.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
