// internal/workers/matching/extract-resume-features/models.go
package extractresumefeatures

import "match-workers/internal/models"

type Input struct {
	CandidateID    string `json:"candidateId,omitempty"`
	ResumeText     string `json:"resumeText"`
	IndexCandidate bool   `json:"indexCandidate,omitempty"`
}

type Output struct {
	Features models.CandidateFeatures `json:"features"`
	Profile  models.ResumeProfile     `json:"profile"`
	// Partial is set when any sub-extractor left its section empty.
	Partial bool `json:"partial"`
	Indexed bool `json:"indexed"`
}
