// internal/workers/matching/score-candidate-match/config.go
package scorecandidatematch

import "time"

type Config struct {
	Timeout time.Duration
}
