// internal/workers/matching/rank-candidates-for-job/models.go
package rankcandidatesforjob

import "match-workers/internal/models"

// Input ranks the inline candidates, or every candidate of the configured
// source when the candidates key is absent.
type Input struct {
	Job        models.Job         `json:"job"`
	Candidates []models.Candidate `json:"candidates,omitempty"`
	TopN       *int               `json:"topN,omitempty"`
}

const (
	SourceInline = "inline"
	SourceStream = "stream"
)

type Output struct {
	RankedCandidates []models.CandidateMatch `json:"rankedCandidates"`
	Count            int                     `json:"count"`
	Source           string                  `json:"source"`
}
