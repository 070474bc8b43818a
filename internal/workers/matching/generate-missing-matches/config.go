// internal/workers/matching/generate-missing-matches/config.go
package generatemissingmatches

import "time"

type Config struct {
	Timeout time.Duration
}
