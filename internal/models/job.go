// internal/models/job.go
package models

import "strings"

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
	JobTypeTemporary  JobType = "temporary"
)

const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// JobCriteria is what a posting contributes to matching.
type JobCriteria struct {
	RequiredSkills    []string `json:"requiredSkills,omitempty"`
	PreferredSkills   []string `json:"preferredSkills,omitempty"`
	MinExperience     int      `json:"minExperience"`
	MaxExperience     *int     `json:"maxExperience,omitempty"`
	Location          string   `json:"location,omitempty"`
	RemoteOK          bool     `json:"remoteOk"`
	SalaryMin         *int     `json:"salaryMin,omitempty"`
	SalaryMax         *int     `json:"salaryMax,omitempty"`
	JobType           JobType  `json:"jobType,omitempty" validate:"omitempty,oneof=full-time part-time contract internship freelance temporary"`
	EducationRequired string   `json:"educationRequired,omitempty"`
	CompanySize       string   `json:"companySize,omitempty"`
}

type Job struct {
	ID         string      `json:"id" validate:"required"`
	EmployerID string      `json:"employerId,omitempty"`
	Title      string      `json:"title,omitempty"`
	Status     string      `json:"status" validate:"omitempty,oneof=active closed draft"`
	Criteria   JobCriteria `json:"criteria"`
}

func (j Job) IsActive() bool { return j.Status == JobStatusActive }

// PoolCriteria describes admission into a talent pool. Pools are scored as
// if they were a full-time posting.
type PoolCriteria struct {
	RequiredSkills  []string `json:"requiredSkills,omitempty"`
	PreferredSkills []string `json:"preferredSkills,omitempty"`
	MinExperience   int      `json:"minExperience"`
	MaxExperience   *int     `json:"maxExperience,omitempty"`
	Locations       []string `json:"locations,omitempty"`
}

// ToJobCriteria takes the first pool location as the job location and marks
// the pool remote when any location mentions remote work.
func (p PoolCriteria) ToJobCriteria() JobCriteria {
	jc := JobCriteria{
		RequiredSkills:  append([]string(nil), p.RequiredSkills...),
		PreferredSkills: append([]string(nil), p.PreferredSkills...),
		MinExperience:   p.MinExperience,
		MaxExperience:   p.MaxExperience,
		JobType:         JobTypeFullTime,
	}
	if len(p.Locations) > 0 {
		jc.Location = p.Locations[0]
	}
	for _, loc := range p.Locations {
		if strings.Contains(strings.ToLower(loc), "remote") {
			jc.RemoteOK = true
			break
		}
	}
	return jc
}
