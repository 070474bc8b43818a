package driver

import (
	"context"
	"errors"
	"fmt"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/metrics"
	"match-workers/internal/matching/scorer"
	"match-workers/internal/models"
)

// Tally reports the per-pair outcomes of one generation run. Total is the
// sum of the other four counters.
type Tally struct {
	Written               int `json:"written"`
	SkippedDuplicate      int `json:"skippedDuplicate"`
	SkippedBelowThreshold int `json:"skippedBelowThreshold"`
	SkippedError          int `json:"skippedError"`
	Total                 int `json:"total"`

	// Excellent counts written matches in the top tier.
	Excellent int `json:"excellent"`
	// Top holds the best written matches, highest first.
	Top []models.MatchRecord `json:"top,omitempty"`
}

func (t *Tally) record(outcome string) {
	t.Total++
	switch outcome {
	case metrics.OutcomeWritten:
		t.Written++
	case metrics.OutcomeSkippedDuplicate:
		t.SkippedDuplicate++
	case metrics.OutcomeSkippedBelowThreshold:
		t.SkippedBelowThreshold++
	default:
		t.SkippedError++
	}
	metrics.MatchGenerationOutcomes.WithLabelValues(outcome).Inc()
}

// GenerateMissingMatches scores every (candidate, active job) pair of the
// employer that has no stored match and persists those scoring at least
// MinScore with expires_at = now + MatchTTL.
//
// Jobs are read once, up to MaxJobsPerRun; candidates are streamed. A
// cancelled context stops the run and returns the tally so far with the
// context error.
func (d *Driver) GenerateMissingMatches(ctx context.Context, employerID string) (Tally, error) {
	var tally Tally
	switch {
	case d.store == nil:
		return tally, fmt.Errorf("match store: %w", ErrNotConfigured)
	case d.jobs == nil:
		return tally, fmt.Errorf("job source: %w", ErrNotConfigured)
	case d.candidates == nil:
		return tally, fmt.Errorf("candidate source: %w", ErrNotConfigured)
	}

	log := d.logger.WithFields(map[string]interface{}{"employerId": employerID})

	var jobs []models.Job
	errEnough := errors.New("enough jobs")
	err := d.jobs.ActiveJobs(ctx, employerID, func(j models.Job) error {
		if !j.IsActive() {
			return nil
		}
		jobs = append(jobs, j)
		if len(jobs) >= d.cfg.MaxJobsPerRun {
			return errEnough
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEnough) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tally, ctxErr
		}
		return tally, apperrors.NewDatabaseError("list_active_jobs", err)
	}
	if len(jobs) == 0 {
		log.Info("no active jobs", nil)
		return tally, nil
	}

	top := newTopN[models.MatchRecord](d.cfg.TopInTally)
	seen := make(map[string]struct{})

	err = d.candidates.Candidates(ctx, func(c models.Candidate) error {
		for _, j := range jobs {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, rec := d.generatePair(ctx, c, j, seen)
			tally.record(outcome)
			if outcome == metrics.OutcomeWritten {
				top.offer(rec.Result.OverallScore, rec)
				if scorer.TierOf(rec.Result.OverallScore) == scorer.TierExcellent {
					tally.Excellent++
				}
			}
		}
		return nil
	})
	tally.Top = top.items()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return tally, err
		}
		return tally, apperrors.NewDatabaseError("list_candidates", err)
	}

	log.Info("match generation finished", map[string]interface{}{
		"written":               tally.Written,
		"skippedDuplicate":      tally.SkippedDuplicate,
		"skippedBelowThreshold": tally.SkippedBelowThreshold,
		"skippedError":          tally.SkippedError,
		"total":                 tally.Total,
	})
	return tally, nil
}

// generatePair decides the outcome of one pair. It recovers from panics so
// a bad record cannot stop the run.
func (d *Driver) generatePair(ctx context.Context, c models.Candidate, j models.Job, seen map[string]struct{}) (outcome string, rec models.MatchRecord) {
	defer func() {
		if r := recover(); r != nil {
			d.logSkip(c.ID, j.ID, fmt.Errorf("panic: %v", r))
			outcome = metrics.OutcomeSkippedError
		}
	}()

	key := pairKey(c.ID, j.ID)
	if _, dup := seen[key]; dup {
		return metrics.OutcomeSkippedDuplicate, rec
	}
	seen[key] = struct{}{}

	if d.guard != nil {
		ok, err := d.guard.Acquire(ctx, c.ID, j.ID)
		if err != nil {
			d.logSkip(c.ID, j.ID, err)
			return metrics.OutcomeSkippedError, rec
		}
		if !ok {
			return metrics.OutcomeSkippedDuplicate, rec
		}
		defer d.release(ctx, c.ID, j.ID)
	}

	exists, err := d.store.HasMatch(ctx, c.ID, j.ID)
	if err != nil {
		d.logSkip(c.ID, j.ID, apperrors.NewDatabaseError("has_match", err))
		return metrics.OutcomeSkippedError, rec
	}
	if exists {
		return metrics.OutcomeSkippedDuplicate, rec
	}

	res, err := d.Score(ctx, c, j)
	if err != nil {
		d.logSkip(c.ID, j.ID, err)
		return metrics.OutcomeSkippedError, rec
	}
	if res.OverallScore < d.cfg.MinScore {
		return metrics.OutcomeSkippedBelowThreshold, rec
	}

	now := d.clock.Now()
	rec = models.MatchRecord{
		ID:          d.newID(),
		CandidateID: c.ID,
		JobID:       j.ID,
		Result:      res,
		MatchType:   models.MatchTypeAIGenerated,
		Status:      models.MatchStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(d.cfg.MatchTTL),
	}
	inserted, err := d.store.UpsertMatch(ctx, rec)
	if err != nil {
		d.logSkip(c.ID, j.ID, apperrors.NewDatabaseError("upsert_match", err))
		return metrics.OutcomeSkippedError, models.MatchRecord{}
	}
	if !inserted {
		d.logger.Debug("match stored by another writer", map[string]interface{}{
			"candidateId": c.ID,
			"jobId":       j.ID,
			"code":        string(apperrors.ErrCodePersistenceConflict),
		})
		return metrics.OutcomeSkippedDuplicate, models.MatchRecord{}
	}
	return metrics.OutcomeWritten, rec
}

// release drops the pair claim once the pair is decided. A pair skipped
// below threshold or on error must be claimable by the next run.
func (d *Driver) release(ctx context.Context, candidateID, jobID string) {
	if err := d.guard.Release(context.WithoutCancel(ctx), candidateID, jobID); err != nil {
		d.logger.Warn("pair claim not released", map[string]interface{}{
			"candidateId": candidateID,
			"jobId":       jobID,
			"error":       err.Error(),
		})
	}
}
