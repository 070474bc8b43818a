// internal/workers/matching/score-candidate-match/models.go
package scorecandidatematch

import "match-workers/internal/models"

// Input scores a candidate against a posting's criteria or, when no job is
// given, against a talent pool's admission criteria.
type Input struct {
	CandidateID  string                   `json:"candidateId,omitempty"`
	Candidate    models.CandidateFeatures `json:"candidate"`
	JobID        string                   `json:"jobId,omitempty"`
	Job          *models.JobCriteria      `json:"job,omitempty"`
	PoolCriteria *models.PoolCriteria     `json:"poolCriteria,omitempty"`
	Enhance      bool                     `json:"enhance,omitempty"`
}

type Output struct {
	MatchResult      models.MatchResult `json:"matchResult"`
	OverallScore     float64            `json:"overallScore"`
	AIRecommendation string             `json:"aiRecommendation"`
	Enhanced         bool               `json:"enhanced"`
}
