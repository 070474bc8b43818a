package scorer

import (
	"math"
	"strings"

	"match-workers/internal/models"
)

const neutralScore = 75.0

// ==========================
// Skill score
// ==========================

func (s *Scorer) skillScore(have models.SkillSet, required, preferred []string) float64 {
	if len(required) == 0 {
		return neutralScore
	}

	directRequired := float64(countIn(have, required)) / float64(len(required)) * 70

	directPreferred := 20.0
	if len(preferred) > 0 {
		directPreferred = float64(countIn(have, preferred)) / float64(len(preferred)) * 20
	}

	return math.Min(100, directRequired+directPreferred+s.categoryBonus(have, required))
}

// categoryBonus credits each missing requirement with related skills the
// candidate holds in the same category. A candidate skill counts once per
// missing requirement it relates to.
func (s *Scorer) categoryBonus(have models.SkillSet, required []string) float64 {
	perCategory := make(map[string]int)
	for token := range have {
		if cat, ok := s.tax.CategoryOf(token); ok {
			perCategory[cat]++
		}
	}

	bonus := 0.0
	for _, r := range required {
		if _, ok := have[r]; ok {
			continue
		}
		cat, ok := s.tax.CategoryOf(r)
		if !ok {
			continue
		}
		bonus += math.Min(2.0, 0.5*float64(perCategory[cat]))
	}
	return math.Min(10.0, bonus)
}

func countIn(have models.SkillSet, tokens []string) int {
	n := 0
	for _, t := range tokens {
		if _, ok := have[t]; ok {
			n++
		}
	}
	return n
}

// matchedSkills lists required then preferred tokens the candidate holds.
func matchedSkills(have models.SkillSet, required, preferred []string) []string {
	out := make([]string, 0, len(required)+len(preferred))
	seen := make(map[string]struct{})
	for _, list := range [][]string{required, preferred} {
		for _, t := range list {
			if _, ok := have[t]; !ok {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func missingSkills(have models.SkillSet, required []string) []string {
	out := make([]string, 0, len(required))
	for _, t := range required {
		if _, ok := have[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// ==========================
// Experience score
// ==========================

func experienceScore(years float64, minExp int, maxExp *int) float64 {
	rmin := float64(minExp)
	if years >= rmin {
		if maxExp != nil && years > float64(*maxExp) {
			penalty := math.Min(20, 2*(years-float64(*maxExp)))
			return math.Max(60, 100-penalty)
		}
		return 100
	}

	// Entry-level exception.
	if rmin <= 2 && years >= 1 {
		return 85
	}
	penalty := math.Min(40, 10*(rmin-years))
	return math.Max(30, 100-penalty)
}

// ==========================
// Location score
// ==========================

func locationScore(candidate, job string, remoteOK bool) float64 {
	if remoteOK {
		return 100
	}
	c := strings.ToLower(strings.TrimSpace(candidate))
	j := strings.ToLower(strings.TrimSpace(job))
	if c == "" || j == "" {
		return 50
	}
	if c == j {
		return 100
	}

	cp, jp := splitLocation(c), splitLocation(j)
	if len(cp) >= 2 && len(jp) >= 2 {
		if cp[len(cp)-1] == jp[len(jp)-1] {
			return 80
		}
		if cp[0] == jp[0] {
			return 70
		}
	}
	return 30
}

func splitLocation(loc string) []string {
	parts := strings.Split(loc, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ==========================
// Education score
// ==========================

type degreeLevel struct {
	token string
	level float64
}

// Searched in this order; the first token found in a requirement wins.
var degreeLevels = []degreeLevel{
	{"high school", 1},
	{"associate", 2},
	{"bachelor", 3},
	{"master", 4},
	{"mba", 4.5},
	{"phd", 5},
	{"doctorate", 5},
}

func educationScore(requirement string, entries []models.EducationEntry) float64 {
	req := strings.ToLower(requirement)
	requiredLevel := 0.0
	for _, d := range degreeLevels {
		if strings.Contains(req, d.token) {
			requiredLevel = d.level
			break
		}
	}
	if requiredLevel == 0 {
		return neutralScore
	}
	if len(entries) == 0 {
		return 40
	}

	candidateLevel := 0.0
	for _, e := range entries {
		degree := strings.ToLower(e.Degree)
		for _, d := range degreeLevels {
			if strings.Contains(degree, d.token) && d.level > candidateLevel {
				candidateLevel = d.level
			}
		}
	}

	switch {
	case candidateLevel >= requiredLevel:
		return 100
	case candidateLevel > 0:
		return math.Max(50, candidateLevel/requiredLevel*80)
	default:
		return 30
	}
}

// ==========================
// Preference score
// ==========================

// preferenceScore averages the factors that apply. A hybrid remote
// preference abstains.
func preferenceScore(p *models.Preferences, jobType models.JobType, salaryMin *int, remoteOK bool) float64 {
	if p.IsEmpty() {
		return neutralScore
	}

	total, factors := 0.0, 0

	if len(p.JobTypes) > 0 {
		factors++
		if containsFold(p.JobTypes, string(jobType)) {
			total += 100
		} else {
			total += 50
		}
	}

	if p.MinSalary != nil && *p.MinSalary > 0 && salaryMin != nil && *salaryMin > 0 {
		factors++
		if *salaryMin >= *p.MinSalary {
			total += 100
		} else {
			total += math.Max(30, float64(*salaryMin)/float64(*p.MinSalary)*100)
		}
	}

	switch p.RemotePreference {
	case models.RemoteRequired, models.RemotePreferred:
		factors++
		if remoteOK {
			total += 100
		} else {
			total += 60
		}
	case models.RemoteOnsite:
		factors++
		if !remoteOK {
			total += 100
		} else {
			total += 60
		}
	}

	if factors == 0 {
		return neutralScore
	}
	return total / float64(factors)
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
