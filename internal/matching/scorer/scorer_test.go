package scorer

import (
	"math"
	"testing"

	"match-workers/internal/matching/taxonomy"
	"match-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fixtures
// ==========================

func intPtr(v int) *int { return &v }

func strongCandidate() models.CandidateFeatures {
	return models.CandidateFeatures{
		Skills:               models.NewSkillSet("python", "django", "react", "postgresql", "aws"),
		TotalExperienceYears: 4,
		Location:             "San Francisco, CA",
		Education:            []models.EducationEntry{{Degree: "Bachelor of Computer Science"}},
		Preferences: &models.Preferences{
			JobTypes:         []string{"full-time"},
			MinSalary:        intPtr(80000),
			RemotePreference: models.RemotePreferred,
		},
	}
}

func backendJob() models.JobCriteria {
	return models.JobCriteria{
		RequiredSkills:  []string{"python", "django", "postgresql"},
		PreferredSkills: []string{"react", "aws", "docker"},
		MinExperience:   3,
		MaxExperience:   intPtr(7),
		Location:        "San Francisco, CA",
		RemoteOK:        true,
		SalaryMin:       intPtr(90000),
		SalaryMax:       intPtr(120000),
		JobType:         models.JobTypeFullTime,
	}
}

func weighted(r models.MatchResult) float64 {
	return 0.35*r.SkillScore + 0.25*r.ExperienceScore + 0.15*r.LocationScore +
		0.15*r.EducationScore + 0.10*r.PreferenceScore
}

// ==========================
// End-to-end scenarios
// ==========================

func TestScore_StrongMatch(t *testing.T) {
	r := Default().Score(strongCandidate(), backendJob())

	assert.InDelta(t, 83.33, r.SkillScore, 0.01)
	assert.Equal(t, 100.0, r.ExperienceScore)
	assert.Equal(t, 100.0, r.LocationScore)
	assert.Equal(t, 75.0, r.EducationScore)
	assert.Equal(t, 100.0, r.PreferenceScore)
	assert.InDelta(t, 90.42, r.OverallScore, 0.05)
	assert.Equal(t, RecommendationExcellent, r.AIRecommendation)

	assert.Equal(t, []string{"python", "django", "postgresql", "react", "aws"}, r.MatchedSkills)
	assert.Empty(t, r.MissingSkills)
	assert.Equal(t, []string{
		"Strong skill alignment with job requirements",
		"Experience level perfectly matches requirements",
		"Excellent location compatibility",
		"Proficient in key technologies: python, django, postgresql",
	}, r.MatchReasons)

	fit := r.FitAnalysis
	assert.Equal(t, []string{"python", "django", "postgresql", "react", "aws"}, fit.TechnicalFit.StrengthAreas)
	assert.Empty(t, fit.TechnicalFit.DevelopmentAreas)
	assert.Equal(t, "High", fit.TechnicalFit.TechnicalReadiness)
	assert.Equal(t, []string{"Remote work compatibility"}, fit.CulturalFitIndicators)
	assert.Equal(t, "Medium-High - Mid-career growth phase", fit.GrowthPotential)
	assert.Empty(t, fit.RiskFactors)
	assert.Equal(t, "Fast-track through interview process", fit.Recommendations[0])
}

func TestScore_Overqualified(t *testing.T) {
	base := Default().Score(strongCandidate(), backendJob())

	c := strongCandidate()
	c.TotalExperienceYears = 12
	r := Default().Score(c, backendJob())

	assert.Equal(t, 90.0, r.ExperienceScore)
	assert.InDelta(t, base.OverallScore-2.5, r.OverallScore, 0.05)
	assert.Contains(t, r.FitAnalysis.RiskFactors, "Potential overqualification concerns")
	assert.Equal(t, "Medium - Experienced professional", r.FitAnalysis.GrowthPotential)
}

func TestScore_SkillGap(t *testing.T) {
	c := strongCandidate()
	c.Skills = models.NewSkillSet("java")
	r := Default().Score(c, backendJob())

	// java sits in a different category from every requirement, so there is
	// no category bonus; no preferred skill is held either.
	assert.Equal(t, 0.0, r.SkillScore)
	assert.Empty(t, r.MatchedSkills)
	assert.Equal(t, []string{"python", "django", "postgresql"}, r.MissingSkills)
	assert.InDelta(t, 61.25, r.OverallScore, 0.05)
	assert.Equal(t, RecommendationModerate, r.AIRecommendation)
	assert.Equal(t, "Medium", r.FitAnalysis.TechnicalFit.TechnicalReadiness)
	assert.Equal(t, []string{"python", "django", "postgresql"}, r.FitAnalysis.TechnicalFit.DevelopmentAreas)
}

func TestScore_RemoteCandidateOnsiteJob(t *testing.T) {
	c := strongCandidate()
	c.Location = "Remote"
	c.Preferences = &models.Preferences{RemotePreference: models.RemoteRequired}
	j := backendJob()
	j.RemoteOK = false
	j.Location = "New York, NY"

	r := Default().Score(c, j)

	assert.Equal(t, 30.0, r.LocationScore)
	assert.Equal(t, 60.0, r.PreferenceScore)
	assert.NotContains(t, r.FitAnalysis.CulturalFitIndicators, "Remote work compatibility")
}

func TestScore_EntryLevelException(t *testing.T) {
	c := strongCandidate()
	c.TotalExperienceYears = 1
	j := backendJob()
	j.MinExperience = 2
	j.MaxExperience = intPtr(5)

	r := Default().Score(c, j)

	assert.Equal(t, 85.0, r.ExperienceScore)
	assert.Contains(t, r.FitAnalysis.RiskFactors, "Below minimum experience requirement")
	assert.Equal(t, "High - Early career with strong educational foundation", r.FitAnalysis.GrowthPotential)
}

func TestScore_EmptyRequirements(t *testing.T) {
	j := backendJob()
	j.RequiredSkills = nil
	j.PreferredSkills = []string{"aws"}

	with := Default().Score(strongCandidate(), j)
	assert.Equal(t, 75.0, with.SkillScore)
	assert.Equal(t, []string{"aws"}, with.MatchedSkills)

	c := strongCandidate()
	c.Skills = models.NewSkillSet("go")
	without := Default().Score(c, j)
	assert.Equal(t, 75.0, without.SkillScore)
	assert.Empty(t, without.MatchedSkills)
}

// ==========================
// Component scores
// ==========================

func TestCategoryBonus(t *testing.T) {
	s := Default()

	// go and rust share python's category: two holders give 1.0 per missing
	// requirement in that category.
	have := models.NewSkillSet("go", "rust")
	assert.Equal(t, 1.0, s.categoryBonus(have, []string{"python"}))
	assert.Equal(t, 2.0, s.categoryBonus(have, []string{"python", "typescript"}))

	// Per-requirement credit caps at 2.0 and the total at 10.0.
	many := models.NewSkillSet("go", "rust", "ruby", "perl", "php")
	assert.Equal(t, 2.0, s.categoryBonus(many, []string{"python"}))
	assert.Equal(t, 10.0, s.categoryBonus(many, []string{"python", "typescript", "c++", "c#", "swift", "dart"}))

	// Unknown tokens earn nothing.
	assert.Equal(t, 0.0, s.categoryBonus(have, []string{"cobol"}))
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name   string
		years  float64
		minExp int
		maxExp *int
		want   float64
	}{
		{"within range", 5, 3, intPtr(7), 100},
		{"no maximum", 20, 3, nil, 100},
		{"slightly over", 8, 3, intPtr(7), 98},
		{"far over is floored", 30, 3, intPtr(7), 80},
		{"entry-level exception", 1, 2, nil, 85},
		{"below minimum", 3, 5, nil, 80},
		{"far below is floored", 0, 10, nil, 60},
		{"zero years against entry job", 0, 2, nil, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, experienceScore(tt.years, tt.minExp, tt.maxExp), 1e-9)
		})
	}
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		job       string
		remote    bool
		want      float64
	}{
		{"remote job", "", "", true, 100},
		{"missing candidate location", "", "Austin, TX", false, 50},
		{"case-insensitive equal", "austin, tx", "Austin, TX", false, 100},
		{"same state", "Dallas, TX", "Austin, TX", false, 80},
		{"same city", "Portland, OR", "Portland, ME", false, 70},
		{"unrelated", "Berlin", "Austin, TX", false, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locationScore(tt.candidate, tt.job, tt.remote))
		})
	}
}

func TestEducationScore(t *testing.T) {
	bachelor := []models.EducationEntry{{Degree: "Bachelor of Science"}}

	tests := []struct {
		name        string
		requirement string
		entries     []models.EducationEntry
		want        float64
	}{
		{"no requirement", "", bachelor, 75},
		{"unrecognized requirement", "Relevant degree", bachelor, 75},
		{"no entries", "Bachelor's degree", nil, 40},
		{"meets", "Bachelor's degree", bachelor, 100},
		{"exceeds", "Bachelor's degree", []models.EducationEntry{{Degree: "PhD in Physics"}}, 100},
		{"below with a degree", "Master's degree", bachelor, 60},
		{"below with low degree", "PhD required", []models.EducationEntry{{Degree: "Associate of Arts"}}, 50},
		{"entries without recognized degree", "Bachelor", []models.EducationEntry{{Institution: "State University"}}, 30},
		{"first token in table order wins", "Master or MBA", []models.EducationEntry{{Degree: "Master of Arts"}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, educationScore(tt.requirement, tt.entries), 1e-9)
		})
	}
}

func TestPreferenceScore(t *testing.T) {
	tests := []struct {
		name      string
		prefs     *models.Preferences
		jobType   models.JobType
		salaryMin *int
		remote    bool
		want      float64
	}{
		{"absent", nil, models.JobTypeFullTime, nil, false, 75},
		{"empty block", &models.Preferences{}, models.JobTypeFullTime, nil, false, 75},
		{"job type mismatch", &models.Preferences{JobTypes: []string{"contract"}}, models.JobTypeFullTime, nil, false, 50},
		{"job type case-insensitive", &models.Preferences{JobTypes: []string{"Full-Time"}}, models.JobTypeFullTime, nil, false, 100},
		{"salary short", &models.Preferences{MinSalary: intPtr(100000)}, "", intPtr(80000), false, 80},
		{"salary floor", &models.Preferences{MinSalary: intPtr(100000)}, "", intPtr(10000), false, 30},
		{"salary without job figure", &models.Preferences{MinSalary: intPtr(100000)}, "", nil, false, 75},
		{"onsite preference onsite job", &models.Preferences{RemotePreference: models.RemoteOnsite}, "", nil, false, 100},
		{"onsite preference remote job", &models.Preferences{RemotePreference: models.RemoteOnsite}, "", nil, true, 60},
		{"hybrid abstains", &models.Preferences{RemotePreference: models.RemoteHybrid}, "", nil, true, 75},
		{
			"averages factors",
			&models.Preferences{JobTypes: []string{"contract"}, RemotePreference: models.RemotePreferred},
			models.JobTypeFullTime, nil, true, 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, preferenceScore(tt.prefs, tt.jobType, tt.salaryMin, tt.remote), 1e-9)
		})
	}
}

// ==========================
// Properties
// ==========================

func TestScore_Invariants(t *testing.T) {
	candidates := []models.CandidateFeatures{
		strongCandidate(),
		{},
		{Skills: models.NewSkillSet("java", "kotlin", "docker"), TotalExperienceYears: 25, Location: "Remote"},
		{Skills: models.NewSkillSet("Python"), TotalExperienceYears: 0.5, Education: []models.EducationEntry{{Degree: "MBA"}}},
	}
	jobs := []models.JobCriteria{
		backendJob(),
		{},
		{RequiredSkills: []string{"Java", "java", "spring"}, MinExperience: 10, Location: "Austin, TX", EducationRequired: "PhD"},
		{RequiredSkills: []string{"cobol", "fortran", "pascal", "ada"}, PreferredSkills: []string{"python"}, CompanySize: "startup"},
	}

	for _, c := range candidates {
		for _, j := range jobs {
			r := Default().Score(c, j)
			for _, v := range []float64{r.OverallScore, r.SkillScore, r.ExperienceScore, r.LocationScore, r.EducationScore, r.PreferenceScore} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
			assert.InDelta(t, weighted(r), r.OverallScore, 0.011)

			union := models.NewSkillSet(append(append([]string{}, j.RequiredSkills...), j.PreferredSkills...)...)
			required := models.NewSkillSet(j.RequiredSkills...)
			matched := models.NewSkillSet(r.MatchedSkills...)
			for _, m := range r.MatchedSkills {
				assert.True(t, union.Has(m))
			}
			for _, m := range r.MissingSkills {
				assert.True(t, required.Has(m))
				assert.False(t, matched.Has(m))
			}
			assert.Len(t, r.FitAnalysis.Recommendations, 3)

			if j.RemoteOK {
				assert.Equal(t, 100.0, r.LocationScore)
			}
			assert.Equal(t, r, Default().Score(c, j), "scoring must be deterministic")
		}
	}
}

func TestScore_RecommendationTiers(t *testing.T) {
	tests := []struct {
		overall float64
		want    string
	}{
		{100, RecommendationExcellent},
		{85, RecommendationExcellent},
		{84.99, RecommendationGood},
		{70, RecommendationGood},
		{69.99, RecommendationModerate},
		{55, RecommendationModerate},
		{54.99, RecommendationLimited},
		{0, RecommendationLimited},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommendation(tt.overall), "overall=%v", tt.overall)
	}
}

func TestHiringActions(t *testing.T) {
	tests := []struct {
		overall float64
		first   string
	}{
		{90, "Fast-track through interview process"},
		{70, "Standard interview process"},
		{69.99, "Consider for alternative roles"},
		{60, "Consider for alternative roles"},
		{10, "Consider for alternative roles"},
	}
	for _, tt := range tests {
		actions := hiringActions(tt.overall)
		require.Len(t, actions, 3)
		assert.Equal(t, tt.first, actions[0], "overall=%v", tt.overall)
	}
}

func TestScore_Monotonicity(t *testing.T) {
	j := backendJob()
	c := strongCandidate()
	c.Skills = models.NewSkillSet("react")
	before := Default().Score(c, j)

	c.Skills = c.Skills.With("django")
	after := Default().Score(c, j)
	assert.GreaterOrEqual(t, after.SkillScore, before.SkillScore)

	prev := math.Inf(1)
	for years := 5.0; years >= 0; years-- {
		got := experienceScore(years, 5, nil)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestScore_SanitizesOutOfRangeInput(t *testing.T) {
	c := strongCandidate()
	c.TotalExperienceYears = -3
	c.Preferences = &models.Preferences{MinSalary: intPtr(-1), RemotePreference: "whenever"}
	j := backendJob()
	j.MinExperience = -2
	j.MaxExperience = intPtr(-1)

	r := Default().Score(c, j)

	assert.Equal(t, 100.0, r.ExperienceScore)
	assert.Equal(t, 75.0, r.PreferenceScore)
	assert.Subset(t, r.FitAnalysis.RiskFactors, []string{
		"Candidate experience years out of range; treated as 0",
		"Job minimum experience out of range; treated as 0",
		"Job maximum experience out of range; ignored",
		"Candidate minimum salary out of range; ignored",
		`Unrecognized remote preference "whenever" ignored`,
	})

	// The caller's records are untouched.
	assert.Equal(t, -3.0, c.TotalExperienceYears)
	assert.Equal(t, -1, *c.Preferences.MinSalary)
	assert.Equal(t, models.RemotePreference("whenever"), c.Preferences.RemotePreference)
}

func TestScore_CulturalFitCompanySize(t *testing.T) {
	j := backendJob()
	j.CompanySize = "Enterprise"
	r := Default().Score(strongCandidate(), j)
	assert.Equal(t, []string{"Enterprise-scale experience", "Remote work compatibility"}, r.FitAnalysis.CulturalFitIndicators)
}

// ==========================
// Configuration
// ==========================

func TestNew(t *testing.T) {
	_, err := New(Config{Weights: Weights{Skill: 0.5, Experience: 0.5, Location: 0.5}})
	assert.Error(t, err)

	_, err = New(Config{Weights: Weights{Skill: 1.2, Experience: -0.2}})
	assert.Error(t, err)

	tax := taxonomy.MustNew([]taxonomy.Category{{Name: "langs", Skills: []string{"python", "java"}}})
	s, err := New(Config{Weights: DefaultWeights(), Taxonomy: tax})
	require.NoError(t, err)

	// With a custom taxonomy java now earns a bonus toward python.
	c := strongCandidate()
	c.Skills = models.NewSkillSet("java")
	r := s.Score(c, backendJob())
	assert.Equal(t, 0.5, r.SkillScore)
}
