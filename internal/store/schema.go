package store

import (
	"context"
	"fmt"
	"strings"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	employer_id TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	criteria    {{json}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_employer_status ON jobs (employer_id, status);
CREATE TABLE IF NOT EXISTS candidates (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	features {{json}} NOT NULL
);
CREATE TABLE IF NOT EXISTS matches (
	id            TEXT PRIMARY KEY,
	candidate_id  TEXT NOT NULL,
	job_id        TEXT NOT NULL,
	overall_score REAL NOT NULL,
	result        {{json}} NOT NULL,
	match_type    TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    {{time}} NOT NULL,
	expires_at    {{time}} NOT NULL,
	UNIQUE (candidate_id, job_id)
);
CREATE INDEX IF NOT EXISTS idx_matches_job ON matches (job_id, overall_score DESC)`

// Schema returns the DDL statements for the dialect, in order.
func (d Dialect) Schema() []string {
	ddl := strings.NewReplacer("{{json}}", d.JSONType, "{{time}}", d.TimeType).Replace(schemaTemplate)
	var out []string
	for _, stmt := range strings.Split(ddl, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}
