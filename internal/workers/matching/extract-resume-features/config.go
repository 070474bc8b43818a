// internal/workers/matching/extract-resume-features/config.go
package extractresumefeatures

import "time"

type Config struct {
	Timeout time.Duration
}
