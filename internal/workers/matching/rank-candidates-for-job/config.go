// internal/workers/matching/rank-candidates-for-job/config.go
package rankcandidatesforjob

import "time"

type Config struct {
	Timeout     time.Duration
	DefaultTopN int
}
