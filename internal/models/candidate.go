// internal/models/candidate.go
package models

// RemotePreference is a candidate's stance on remote work.
type RemotePreference string

const (
	RemoteRequired  RemotePreference = "required"
	RemotePreferred RemotePreference = "preferred"
	RemoteHybrid    RemotePreference = "hybrid"
	RemoteOnsite    RemotePreference = "onsite"
)

func (r RemotePreference) Valid() bool {
	switch r {
	case RemoteRequired, RemotePreferred, RemoteHybrid, RemoteOnsite:
		return true
	}
	return false
}

type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type Preferences struct {
	JobTypes         []string         `json:"jobTypes,omitempty"`
	MinSalary        *int             `json:"minSalary,omitempty"`
	MaxSalary        *int             `json:"maxSalary,omitempty"`
	RemotePreference RemotePreference `json:"remotePreference,omitempty"`
}

// IsEmpty reports a block with no field set.
func (p *Preferences) IsEmpty() bool {
	return p == nil ||
		(len(p.JobTypes) == 0 && p.MinSalary == nil && p.MaxSalary == nil && p.RemotePreference == "")
}

// CandidateFeatures is what the scorer knows about a candidate. Values are
// never mutated once built.
type CandidateFeatures struct {
	Skills               SkillSet         `json:"skills"`
	TotalExperienceYears float64          `json:"totalExperienceYears"`
	Location             string           `json:"location,omitempty"`
	Education            []EducationEntry `json:"education,omitempty"`
	Preferences          *Preferences     `json:"preferences,omitempty"`
}

type Candidate struct {
	ID       string            `json:"id" validate:"required"`
	Name     string            `json:"name,omitempty"`
	Features CandidateFeatures `json:"features"`
}
