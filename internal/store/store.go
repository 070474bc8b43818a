// Package store persists jobs, candidates and matches over database/sql.
// It backs the driver's MatchStore, JobSource and CandidateSource ports.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"match-workers/internal/models"
)

const defaultPageSize = 500

// Store never holds a connection while a stream callback runs, so callbacks
// may query the store again even on a single-connection pool.
type Store struct {
	db       *sql.DB
	dialect  Dialect
	pageSize int
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, pageSize: defaultPageSize}
}

// WithPageSize sets how many candidates are read per query.
func (s *Store) WithPageSize(n int) *Store {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

func (s *Store) Dialect() Dialect { return s.dialect }

// ==========================
// Matches
// ==========================

// HasMatch reports whether any match is stored for the pair, expired or not.
func (s *Store) HasMatch(ctx context.Context, candidateID, jobID string) (bool, error) {
	query := s.dialect.Rebind(`SELECT 1 FROM matches WHERE candidate_id = ? AND job_id = ? LIMIT 1`)

	var one int
	err := s.db.QueryRowContext(ctx, query, candidateID, jobID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("has match %s/%s: %w", candidateID, jobID, err)
	}
	return true, nil
}

// UpsertMatch inserts rec unless a match for the same pair exists. The
// first writer wins; inserted is false when the row was already there.
func (s *Store) UpsertMatch(ctx context.Context, rec models.MatchRecord) (bool, error) {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return false, fmt.Errorf("encode match result: %w", err)
	}

	query := s.dialect.Rebind(`INSERT INTO matches
		(id, candidate_id, job_id, overall_score, result, match_type, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (candidate_id, job_id) DO NOTHING`)

	res, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.CandidateID, rec.JobID, rec.Result.OverallScore, string(result),
		rec.MatchType, rec.Status, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert match %s/%s: %w", rec.CandidateID, rec.JobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert match rows affected: %w", err)
	}
	return n > 0, nil
}

// MatchesForJob lists stored matches for a job, best first.
func (s *Store) MatchesForJob(ctx context.Context, jobID string, limit int) ([]models.MatchRecord, error) {
	query := `SELECT id, candidate_id, job_id, result, match_type, status, created_at, expires_at
		FROM matches WHERE job_id = ? ORDER BY overall_score DESC, candidate_id`
	args := []interface{}{jobID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list matches for %s: %w", jobID, err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var (
			rec    models.MatchRecord
			result []byte
		)
		if err := rows.Scan(&rec.ID, &rec.CandidateID, &rec.JobID, &result,
			&rec.MatchType, &rec.Status, &rec.CreatedAt, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if err := json.Unmarshal(result, &rec.Result); err != nil {
			return nil, fmt.Errorf("decode match %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ==========================
// Jobs
// ==========================

// SaveJob inserts or replaces a job.
func (s *Store) SaveJob(ctx context.Context, j models.Job) error {
	criteria, err := json.Marshal(j.Criteria)
	if err != nil {
		return fmt.Errorf("encode job criteria: %w", err)
	}
	query := s.dialect.Rebind(`INSERT INTO jobs (id, employer_id, title, status, criteria)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			employer_id = excluded.employer_id,
			title = excluded.title,
			status = excluded.status,
			criteria = excluded.criteria`)
	if _, err := s.db.ExecContext(ctx, query, j.ID, j.EmployerID, j.Title, j.Status, string(criteria)); err != nil {
		return fmt.Errorf("save job %s: %w", j.ID, err)
	}
	return nil
}

// ActiveJobs streams the active jobs of an employer, or of every employer
// when employerID is empty, in id order. The rows are read in full before
// fn runs. An error from fn stops the scan and is returned as is.
func (s *Store) ActiveJobs(ctx context.Context, employerID string, fn func(models.Job) error) error {
	jobs, err := s.activeJobs(ctx, employerID)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if err := fn(j); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) activeJobs(ctx context.Context, employerID string) ([]models.Job, error) {
	query := `SELECT id, employer_id, title, status, criteria FROM jobs WHERE status = ?`
	args := []interface{}{models.JobStatusActive}
	if employerID != "" {
		query += ` AND employer_id = ?`
		args = append(args, employerID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var (
			j        models.Job
			criteria []byte
		)
		if err := rows.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Status, &criteria); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if err := json.Unmarshal(criteria, &j.Criteria); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", j.ID, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ==========================
// Candidates
// ==========================

// SaveCandidate inserts or replaces a candidate's features.
func (s *Store) SaveCandidate(ctx context.Context, c models.Candidate) error {
	features, err := json.Marshal(c.Features)
	if err != nil {
		return fmt.Errorf("encode candidate features: %w", err)
	}
	query := s.dialect.Rebind(`INSERT INTO candidates (id, name, features)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			features = excluded.features`)
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, string(features)); err != nil {
		return fmt.Errorf("save candidate %s: %w", c.ID, err)
	}
	return nil
}

// Candidates streams every candidate in id order, one page at a time. An
// error from fn stops the scan and is returned as is.
func (s *Store) Candidates(ctx context.Context, fn func(models.Candidate) error) error {
	after := ""
	for {
		page, err := s.candidatePage(ctx, after)
		if err != nil {
			return err
		}
		for _, c := range page {
			if err := fn(c); err != nil {
				return err
			}
		}
		if len(page) < s.pageSize {
			return nil
		}
		after = page[len(page)-1].ID
	}
}

// candidatePage reads the candidates after the given id (keyset paging).
func (s *Store) candidatePage(ctx context.Context, after string) ([]models.Candidate, error) {
	query := s.dialect.Rebind(`SELECT id, name, features FROM candidates WHERE id > ? ORDER BY id LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, query, after, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	page := make([]models.Candidate, 0, s.pageSize)
	for rows.Next() {
		var (
			c        models.Candidate
			features []byte
		)
		if err := rows.Scan(&c.ID, &c.Name, &features); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if err := json.Unmarshal(features, &c.Features); err != nil {
			return nil, fmt.Errorf("decode candidate %s: %w", c.ID, err)
		}
		page = append(page, c)
	}
	return page, rows.Err()
}
