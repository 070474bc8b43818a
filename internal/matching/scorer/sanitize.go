package scorer

import (
	"fmt"
	"math"

	"match-workers/internal/models"
)

// sanitized is the scorer's working copy of its inputs. The caller's
// records are never modified.
type sanitized struct {
	skills    models.SkillSet
	years     float64
	minExp    int
	maxExp    *int
	salaryMin *int
	prefs     *models.Preferences
	notes     []string
}

func sanitize(c models.CandidateFeatures, j models.JobCriteria) sanitized {
	in := sanitized{
		years:     c.TotalExperienceYears,
		minExp:    j.MinExperience,
		maxExp:    j.MaxExperience,
		salaryMin: j.SalaryMin,
	}

	tokens := make([]string, 0, len(c.Skills))
	for t := range c.Skills {
		tokens = append(tokens, t)
	}
	in.skills = models.NewSkillSet(tokens...)

	if in.years < 0 || math.IsNaN(in.years) || math.IsInf(in.years, 0) {
		in.note("Candidate experience years out of range; treated as 0")
		in.years = 0
	}
	if in.minExp < 0 {
		in.note("Job minimum experience out of range; treated as 0")
		in.minExp = 0
	}
	if in.maxExp != nil && *in.maxExp < 0 {
		in.note("Job maximum experience out of range; ignored")
		in.maxExp = nil
	}
	if in.salaryMin != nil && *in.salaryMin < 0 {
		in.note("Job minimum salary out of range; ignored")
		in.salaryMin = nil
	}

	if c.Preferences != nil {
		p := *c.Preferences
		if p.MinSalary != nil && *p.MinSalary < 0 {
			in.note("Candidate minimum salary out of range; ignored")
			p.MinSalary = nil
		}
		if p.MaxSalary != nil && *p.MaxSalary < 0 {
			in.note("Candidate maximum salary out of range; ignored")
			p.MaxSalary = nil
		}
		if p.RemotePreference != "" && !p.RemotePreference.Valid() {
			in.note(fmt.Sprintf("Unrecognized remote preference %q ignored", string(p.RemotePreference)))
			p.RemotePreference = ""
		}
		in.prefs = &p
	}
	return in
}

func (s *sanitized) note(msg string) {
	s.notes = append(s.notes, msg)
}
