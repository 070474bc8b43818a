// Package driver runs the scorer over batches: ranking jobs for a
// candidate, ranking candidates for a job, and persisting the matches an
// employer is still missing.
//
// A failure on one pair is logged and skipped; it never stops the batch.
// Inputs are never modified.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"match-workers/internal/common/clock"
	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/matching/scorer"
	"match-workers/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotConfigured is returned when an operation needs a port the driver
// was built without.
var ErrNotConfigured = errors.New("driver port not configured")

type Config struct {
	// MinScore is the lowest overall score that is persisted. Zero stores
	// every scored pair; values outside [0, 100] fall back to the default.
	MinScore float64
	// MatchTTL is added to the clock reading to get expires_at.
	MatchTTL time.Duration
	// Parallelism bounds concurrent scoring in the ranking operations.
	Parallelism int
	// MaxJobsPerRun bounds the jobs considered by one generation run.
	MaxJobsPerRun int
	// TopInTally is how many written matches a Tally carries for digests.
	TopInTally int
}

func DefaultConfig() Config {
	return Config{
		MinScore:      50,
		MatchTTL:      30 * 24 * time.Hour,
		Parallelism:   8,
		MaxJobsPerRun: 50,
		TopInTally:    5,
	}
}

// Deps are the driver's ports. Only Scorer has a default; the others are
// needed by the operations that use them.
type Deps struct {
	Scorer     Scorer
	Store      MatchStore
	Jobs       JobSource
	Candidates CandidateSource
	Guard      Guard
	Cache      Cache
	Clock      clock.Clock
	Logger     logger.Logger
	NewID      func() string
}

type Driver struct {
	cfg        Config
	scorer     Scorer
	store      MatchStore
	jobs       JobSource
	candidates CandidateSource
	guard      Guard
	cache      Cache
	clock      clock.Clock
	logger     logger.Logger
	newID      func() string
}

func New(cfg Config, deps Deps) *Driver {
	def := DefaultConfig()
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		cfg.MinScore = def.MinScore
	}
	if cfg.MatchTTL <= 0 {
		cfg.MatchTTL = def.MatchTTL
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = def.Parallelism
	}
	if cfg.MaxJobsPerRun <= 0 {
		cfg.MaxJobsPerRun = def.MaxJobsPerRun
	}
	if cfg.TopInTally < 0 {
		cfg.TopInTally = 0
	}

	d := &Driver{
		cfg:        cfg,
		scorer:     deps.Scorer,
		store:      deps.Store,
		jobs:       deps.Jobs,
		candidates: deps.Candidates,
		guard:      deps.Guard,
		cache:      deps.Cache,
		clock:      deps.Clock,
		logger:     deps.Logger,
		newID:      deps.NewID,
	}
	if d.scorer == nil {
		d.scorer = scorer.Default()
	}
	if d.clock == nil {
		d.clock = clock.System{}
	}
	if d.logger == nil {
		d.logger = logger.NewNoOpLogger()
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	return d
}

// ==========================
// Single pair
// ==========================

// Score scores one pair, reading and filling the result cache when one is
// configured. Cache failures are logged and otherwise ignored.
func (d *Driver) Score(ctx context.Context, c models.Candidate, j models.Job) (res models.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInternalError(fmt.Errorf("scoring %s/%s panicked: %v", c.ID, j.ID, r))
		}
	}()

	var key string
	if d.cache != nil {
		key, err = CacheKey(c.ID, j.ID, c.Features, j.Criteria)
		if err != nil {
			return models.MatchResult{}, apperrors.NewUnrecoverableInputError(err.Error())
		}
		cached, ok, cerr := d.cache.Get(ctx, key)
		switch {
		case cerr != nil:
			metrics.MatchCacheRequests.WithLabelValues("error").Inc()
			d.logger.Warn("match cache read failed", map[string]interface{}{"key": key, "error": cerr})
		case ok:
			metrics.MatchCacheRequests.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.MatchCacheRequests.WithLabelValues("miss").Inc()
		}
	}

	res = d.scorer.Score(c.Features, j.Criteria)
	metrics.MatchScores.Observe(res.OverallScore)

	if d.cache != nil {
		if cerr := d.cache.Set(ctx, key, res); cerr != nil {
			d.logger.Warn("match cache write failed", map[string]interface{}{"key": key, "error": cerr})
		}
	}
	return res, nil
}

// ==========================
// Ranking
// ==========================

// BestMatchesForCandidate scores c against the active jobs and returns the
// topN best, highest first. Equal scores keep input order. topN <= 0
// returns every active job.
func (d *Driver) BestMatchesForCandidate(ctx context.Context, c models.Candidate, jobs []models.Job, topN int) ([]models.JobMatch, error) {
	active := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.IsActive() {
			active = append(active, j)
		}
	}

	results, err := d.scoreAll(ctx, len(active), func(ctx context.Context, i int) (models.MatchResult, error) {
		return d.Score(ctx, c, active[i])
	}, func(i int, err error) {
		d.logSkip(c.ID, active[i].ID, err)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.JobMatch, 0, len(active))
	for i, r := range results {
		if r != nil {
			out = append(out, models.JobMatch{Job: active[i], Result: *r})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Result.OverallScore > out[b].Result.OverallScore
	})
	return head(out, topN), nil
}

// BestCandidatesForJob scores every candidate against j and returns the
// topN best, highest first. Equal scores keep input order.
func (d *Driver) BestCandidatesForJob(ctx context.Context, j models.Job, candidates []models.Candidate, topN int) ([]models.CandidateMatch, error) {
	results, err := d.scoreAll(ctx, len(candidates), func(ctx context.Context, i int) (models.MatchResult, error) {
		return d.Score(ctx, candidates[i], j)
	}, func(i int, err error) {
		d.logSkip(candidates[i].ID, j.ID, err)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.CandidateMatch, 0, len(candidates))
	for i, r := range results {
		if r != nil {
			out = append(out, models.CandidateMatch{Candidate: candidates[i], Result: *r})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Result.OverallScore > out[b].Result.OverallScore
	})
	return head(out, topN), nil
}

// StreamCandidatesForJob ranks candidates from the configured source
// without holding more than topN of them. topN must be positive.
func (d *Driver) StreamCandidatesForJob(ctx context.Context, j models.Job, topN int) ([]models.CandidateMatch, error) {
	if d.candidates == nil {
		return nil, fmt.Errorf("candidate source: %w", ErrNotConfigured)
	}
	if topN <= 0 {
		return nil, apperrors.NewUnrecoverableInputError("topN must be positive when streaming candidates")
	}

	best := newTopN[models.CandidateMatch](topN)
	err := d.candidates.Candidates(ctx, func(c models.Candidate) error {
		res, err := d.Score(ctx, c, j)
		if err != nil {
			d.logSkip(c.ID, j.ID, err)
			return nil
		}
		best.offer(res.OverallScore, models.CandidateMatch{Candidate: c, Result: res})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return best.items(), nil
}

// scoreAll runs score for indexes [0, n) with bounded parallelism. Slot i
// of the result is nil when pair i failed.
func (d *Driver) scoreAll(
	ctx context.Context,
	n int,
	score func(context.Context, int) (models.MatchResult, error),
	onSkip func(int, error),
) ([]*models.MatchResult, error) {
	results := make([]*models.MatchResult, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Parallelism)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := score(gctx, i)
			if err != nil {
				onSkip(i, err)
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Driver) logSkip(candidateID, jobID string, err error) {
	d.logger.Warn("pair skipped", map[string]interface{}{
		"candidateId": candidateID,
		"jobId":       jobID,
		"error":       err,
	})
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// topN keeps the n highest scored items. Ties keep arrival order.
type topN[T any] struct {
	limit int
	list  []scoredItem[T]
}

type scoredItem[T any] struct {
	score float64
	item  T
}

func newTopN[T any](limit int) *topN[T] {
	return &topN[T]{limit: limit}
}

func (t *topN[T]) offer(score float64, item T) {
	if t.limit <= 0 {
		return
	}
	// First position whose score is strictly lower keeps earlier ties ahead.
	i := sort.Search(len(t.list), func(i int) bool { return t.list[i].score < score })
	if i >= t.limit {
		return
	}
	t.list = append(t.list, scoredItem[T]{})
	copy(t.list[i+1:], t.list[i:])
	t.list[i] = scoredItem[T]{score: score, item: item}
	if len(t.list) > t.limit {
		t.list = t.list[:t.limit]
	}
}

func (t *topN[T]) items() []T {
	out := make([]T, len(t.list))
	for i, s := range t.list {
		out[i] = s.item
	}
	return out
}
