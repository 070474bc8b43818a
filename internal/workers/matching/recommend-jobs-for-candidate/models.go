// internal/workers/matching/recommend-jobs-for-candidate/models.go
package recommendjobsforcandidate

import "match-workers/internal/models"

type Input struct {
	Candidate models.Candidate `json:"candidate"`
	Jobs      []models.Job     `json:"jobs"`
	// TopN <= 0 returns every active job.
	TopN *int `json:"topN,omitempty"`
}

type Output struct {
	Recommendations []models.JobMatch `json:"recommendations"`
	Count           int               `json:"count"`
	JobsConsidered  int               `json:"jobsConsidered"`
}
