// internal/workers/matching/score-candidate-match/handler.go
package scorecandidatematch

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/common/validation"
	"match-workers/internal/enhance"
	"match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-candidate-match"
)

// PairScorer scores one pair; *driver.Driver implements it with the result
// cache in front of the scorer.
type PairScorer interface {
	Score(ctx context.Context, c models.Candidate, j models.Job) (models.MatchResult, error)
}

type Handler struct {
	config   *Config
	scorer   PairScorer
	enhancer enhance.Enhancer
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewHandler builds the handler. enhancer may be nil.
func NewHandler(config *Config, scorer PairScorer, enhancer enhance.Enhancer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		scorer:   scorer,
		enhancer: enhancer,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
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
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	target := models.Job{ID: input.JobID, Status: models.JobStatusActive}
	switch {
	case input.Job != nil:
		target.Criteria = *input.Job
	case input.PoolCriteria != nil:
		target.Criteria = input.PoolCriteria.ToJobCriteria()
	default:
		return nil, apperrors.NewUnrecoverableInputError("either job or poolCriteria is required")
	}
	candidate := models.Candidate{ID: input.CandidateID, Features: input.Candidate}

	res, err := h.scorer.Score(ctx, candidate, target)
	if err != nil {
		return nil, err
	}

	enhanced := false
	if input.Enhance && h.enhancer != nil {
		res = enhance.Apply(ctx, h.enhancer, h.logger, candidate.Features, target.Criteria, res)
		enhanced = res.EnhancedRecommendation != ""
	}

	h.logger.Info("match scored", map[string]interface{}{
		"candidateId":  input.CandidateID,
		"jobId":        input.JobID,
		"pool":         input.Job == nil,
		"overallScore": res.OverallScore,
		"tier":         res.AIRecommendation,
	})

	return &Output{
		MatchResult:      res,
		OverallScore:     res.OverallScore,
		AIRecommendation: res.AIRecommendation,
		Enhanced:         enhanced,
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
