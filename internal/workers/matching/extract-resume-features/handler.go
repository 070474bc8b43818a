// internal/workers/matching/extract-resume-features/handler.go
package extractresumefeatures

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
	TaskType = "extract-resume-features"
)

type Extractor interface {
	Extract(text string) models.Extraction
}

// Indexer stores extracted features for later candidate streaming;
// *search.CandidateIndex implements it.
type Indexer interface {
	IndexCandidate(ctx context.Context, c models.Candidate) error
}

type Handler struct {
	config    *Config
	extractor Extractor
	indexer   Indexer
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// NewHandler builds the handler. indexer may be nil, in which case index
// requests are logged and skipped.
func NewHandler(config *Config, extractor Extractor, indexer Indexer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		extractor: extractor,
		indexer:   indexer,
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
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.IndexCandidate && input.CandidateID == "" {
		return nil, apperrors.NewUnrecoverableInputError("candidateId is required to index a candidate")
	}

	ext := h.extractor.Extract(input.ResumeText)

	status := "complete"
	if len(ext.Profile.ParsingErrors) > 0 {
		status = "partial"
		h.logger.Warn("resume extraction incomplete", map[string]interface{}{
			"candidateId": input.CandidateID,
			"code":        string(apperrors.ErrCodeExtractionPartial),
			"notes":       ext.Profile.ParsingErrors,
		})
	}
	metrics.ResumeExtractions.WithLabelValues(status).Inc()

	out := &Output{
		Features: ext.Features,
		Profile:  ext.Profile,
		Partial:  status == "partial",
	}

	if input.IndexCandidate {
		if h.indexer == nil {
			h.logger.Warn("candidate index not configured, skipping", map[string]interface{}{
				"candidateId": input.CandidateID,
			})
		} else {
			c := models.Candidate{
				ID:       input.CandidateID,
				Name:     ext.Profile.Contact.Name,
				Features: ext.Features,
			}
			if err := h.indexer.IndexCandidate(ctx, c); err != nil {
				return nil, err
			}
			out.Indexed = true
		}
	}

	h.logger.Info("resume features extracted", map[string]interface{}{
		"candidateId":     input.CandidateID,
		"skills":          ext.Features.Skills.Len(),
		"experienceYears": ext.Features.TotalExperienceYears,
		"status":          status,
		"indexed":         out.Indexed,
	})
	return out, nil
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
