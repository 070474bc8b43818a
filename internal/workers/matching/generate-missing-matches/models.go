// internal/workers/matching/generate-missing-matches/models.go
package generatemissingmatches

import (
	"match-workers/internal/matching/driver"
	"match-workers/internal/notify"
)

type Input struct {
	EmployerID string            `json:"employerId"`
	Notify     *notify.Recipient `json:"notify,omitempty"`
}

type Output struct {
	MatchesWritten int          `json:"matchesWritten"`
	Tally          driver.Tally `json:"tally"`
	Notified       notify.Sent  `json:"notified"`
}
