// Package scorer computes an explainable match between a candidate's
// features and a job's criteria.
//
// Score is a pure function of its inputs. A Scorer holds only read-only
// configuration and is safe for concurrent use.
package scorer

import (
	"fmt"
	"math"

	"match-workers/internal/matching/taxonomy"
	"match-workers/internal/models"
)

// Weights combine the five component scores into the overall score.
type Weights struct {
	Skill      float64 `mapstructure:"skill" json:"skill"`
	Experience float64 `mapstructure:"experience" json:"experience"`
	Location   float64 `mapstructure:"location" json:"location"`
	Education  float64 `mapstructure:"education" json:"education"`
	Preference float64 `mapstructure:"preference" json:"preference"`
}

func DefaultWeights() Weights {
	return Weights{Skill: 0.35, Experience: 0.25, Location: 0.15, Education: 0.15, Preference: 0.10}
}

func (w Weights) sum() float64 {
	return w.Skill + w.Experience + w.Location + w.Education + w.Preference
}

func (w Weights) validate() error {
	for name, v := range map[string]float64{
		"skill": w.Skill, "experience": w.Experience, "location": w.Location,
		"education": w.Education, "preference": w.Preference,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	if math.Abs(w.sum()-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %v", w.sum())
	}
	return nil
}

// Config is the injected configuration of a Scorer.
type Config struct {
	Weights  Weights
	Taxonomy *taxonomy.Taxonomy
}

func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), Taxonomy: taxonomy.Default()}
}

type Scorer struct {
	weights Weights
	tax     *taxonomy.Taxonomy
}

// New builds a Scorer. A nil taxonomy selects the default one.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Weights.validate(); err != nil {
		return nil, err
	}
	tax := cfg.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Scorer{weights: cfg.Weights, tax: tax}, nil
}

// Default returns a Scorer with the default weights and taxonomy.
func Default() *Scorer {
	s, _ := New(DefaultConfig())
	return s
}

// Score matches candidate c against job j. It never fails: out-of-range
// input is sanitized and reported in the fit analysis risk factors.
func (s *Scorer) Score(c models.CandidateFeatures, j models.JobCriteria) models.MatchResult {
	in := sanitize(c, j)

	required := models.NormalizeSkills(j.RequiredSkills)
	preferred := models.NormalizeSkills(j.PreferredSkills)

	skill := s.skillScore(in.skills, required, preferred)
	experience := experienceScore(in.years, in.minExp, in.maxExp)
	location := locationScore(c.Location, j.Location, j.RemoteOK)
	education := educationScore(j.EducationRequired, c.Education)
	preference := preferenceScore(in.prefs, j.JobType, in.salaryMin, j.RemoteOK)

	overall := s.weights.Skill*skill +
		s.weights.Experience*experience +
		s.weights.Location*location +
		s.weights.Education*education +
		s.weights.Preference*preference

	res := models.MatchResult{
		OverallScore:    round2(clamp(overall)),
		SkillScore:      round2(skill),
		ExperienceScore: round2(experience),
		LocationScore:   round2(location),
		EducationScore:  round2(education),
		PreferenceScore: round2(preference),
		MatchedSkills:   matchedSkills(in.skills, required, preferred),
		MissingSkills:   missingSkills(in.skills, required),
	}
	res.MatchReasons = matchReasons(res)
	res.AIRecommendation = Recommendation(res.OverallScore)
	res.FitAnalysis = fitAnalysis(res, in, j, len(c.Education))
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
