package driver

import (
	"context"
	"strings"
	"sync"

	"match-workers/internal/models"
)

// Scorer is the pure scoring function the driver batches.
type Scorer interface {
	Score(c models.CandidateFeatures, j models.JobCriteria) models.MatchResult
}

// MatchStore is the persistence port. Implementations must make
// UpsertMatch atomic per (candidate, job): when a match already exists the
// stored one is kept and inserted is false.
type MatchStore interface {
	HasMatch(ctx context.Context, candidateID, jobID string) (bool, error)
	UpsertMatch(ctx context.Context, rec models.MatchRecord) (inserted bool, err error)
}

// JobSource streams an employer's active jobs. Returning an error from fn
// stops the iteration and is returned as is.
type JobSource interface {
	ActiveJobs(ctx context.Context, employerID string, fn func(models.Job) error) error
}

// CandidateSource streams every candidate.
type CandidateSource interface {
	Candidates(ctx context.Context, fn func(models.Candidate) error) error
}

// Guard de-duplicates work on a (candidate, job) pair across concurrent
// drivers. Acquire reports whether the caller claimed the pair first; the
// claim holds until Release, so it only covers the pair while it is being
// decided.
type Guard interface {
	Acquire(ctx context.Context, candidateID, jobID string) (bool, error)
	Release(ctx context.Context, candidateID, jobID string) error
}

// Cache stores computed results under a content fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (models.MatchResult, bool, error)
	Set(ctx context.Context, key string, result models.MatchResult) error
}

// SliceJobs serves jobs held in memory.
type SliceJobs []models.Job

func (s SliceJobs) ActiveJobs(ctx context.Context, employerID string, fn func(models.Job) error) error {
	for _, j := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !j.IsActive() || (employerID != "" && j.EmployerID != employerID) {
			continue
		}
		if err := fn(j); err != nil {
			return err
		}
	}
	return nil
}

// SliceCandidates serves candidates held in memory.
type SliceCandidates []models.Candidate

func (s SliceCandidates) Candidates(ctx context.Context, fn func(models.Candidate) error) error {
	for _, c := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// MemoryGuard claims pairs within one process.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, candidateID, jobID string) (bool, error) {
	key := pairKey(candidateID, jobID)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = struct{}{}
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, candidateID, jobID string) error {
	g.mu.Lock()
	delete(g.seen, pairKey(candidateID, jobID))
	g.mu.Unlock()
	return nil
}

func pairKey(candidateID, jobID string) string {
	return strings.Join([]string{candidateID, jobID}, "\x00")
}
