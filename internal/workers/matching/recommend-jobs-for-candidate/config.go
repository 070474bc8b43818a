// internal/workers/matching/recommend-jobs-for-candidate/config.go
package recommendjobsforcandidate

import "time"

type Config struct {
	Timeout time.Duration
	// DefaultTopN applies when the payload carries no topN.
	DefaultTopN int
}
