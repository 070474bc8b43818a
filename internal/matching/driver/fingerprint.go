package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"match-workers/internal/models"
)

// CacheKey names a cached result. The fingerprint covers both inputs, so a
// changed profile or posting never reads a stale score.
func CacheKey(candidateID, jobID string, c models.CandidateFeatures, j models.JobCriteria) (string, error) {
	payload, err := json.Marshal(struct {
		Candidate models.CandidateFeatures `json:"c"`
		Job       models.JobCriteria       `json:"j"`
	}{c, j})
	if err != nil {
		return "", fmt.Errorf("fingerprint match inputs: %w", err)
	}
	sum := sha256.Sum256(payload)
	if jobID == "" {
		jobID = "pool"
	}
	return fmt.Sprintf("match:%s:%s:%s", candidateID, jobID, hex.EncodeToString(sum[:12])), nil
}
