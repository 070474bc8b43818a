package scorer

import (
	"strings"

	"match-workers/internal/models"
)

const (
	RecommendationExcellent = "Excellent candidate match! This candidate demonstrates strong alignment across all key criteria. Highly recommended for immediate consideration."
	RecommendationGood      = "Good candidate match with solid potential. Consider for interview to assess cultural fit and specific technical requirements."
	RecommendationModerate  = "Moderate match with some gaps. May be suitable depending on team needs and candidate's growth potential."
	RecommendationLimited   = "Limited match with current requirements. Consider for future opportunities or different roles that better align with their profile."
)

// Tier boundaries on the rounded overall score.
const (
	ExcellentThreshold = 85.0
	GoodThreshold      = 70.0
	ModerateThreshold  = 55.0
)

// Tier names a score band.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
	TierLimited   Tier = "limited"
)

func TierOf(overall float64) Tier {
	switch {
	case overall >= ExcellentThreshold:
		return TierExcellent
	case overall >= GoodThreshold:
		return TierGood
	case overall >= ModerateThreshold:
		return TierModerate
	default:
		return TierLimited
	}
}

// Recommendation returns the canonical tier string for an overall score.
func Recommendation(overall float64) string {
	switch TierOf(overall) {
	case TierExcellent:
		return RecommendationExcellent
	case TierGood:
		return RecommendationGood
	case TierModerate:
		return RecommendationModerate
	default:
		return RecommendationLimited
	}
}

// Hiring actions have three levels; moderate and limited matches share the
// last one.
var (
	excellentActions = []string{
		"Fast-track through interview process",
		"Consider for senior-level responsibilities",
		"Prepare competitive offer package",
	}
	goodActions = []string{
		"Standard interview process",
		"Assess technical skills in detail",
		"Evaluate cultural fit",
	}
	alternativeActions = []string{
		"Consider for alternative roles",
		"Evaluate for future opportunities",
		"Assess training and development needs",
	}
)

func hiringActions(score float64) []string {
	switch TierOf(score) {
	case TierExcellent:
		return excellentActions
	case TierGood:
		return goodActions
	default:
		return alternativeActions
	}
}

func matchReasons(r models.MatchResult) []string {
	reasons := make([]string, 0, 6)

	switch {
	case r.SkillScore >= 80:
		reasons = append(reasons, "Strong skill alignment with job requirements")
	case r.SkillScore >= 60:
		reasons = append(reasons, "Good skill match with some gaps")
	}

	switch {
	case r.ExperienceScore >= 90:
		reasons = append(reasons, "Experience level perfectly matches requirements")
	case r.ExperienceScore >= 70:
		reasons = append(reasons, "Relevant experience for the role")
	}

	if r.LocationScore >= 90 {
		reasons = append(reasons, "Excellent location compatibility")
	}
	if r.EducationScore >= 90 {
		reasons = append(reasons, "Educational background meets requirements")
	}
	if len(r.MatchedSkills) >= 3 {
		reasons = append(reasons, "Proficient in key technologies: "+strings.Join(r.MatchedSkills[:3], ", "))
	}
	return reasons
}

func fitAnalysis(r models.MatchResult, in sanitized, j models.JobCriteria, educationEntries int) models.FitAnalysis {
	readiness := "Medium"
	if len(r.MatchedSkills) >= len(r.MissingSkills) {
		readiness = "High"
	}

	actions := hiringActions(r.OverallScore)

	return models.FitAnalysis{
		TechnicalFit: models.TechnicalFit{
			StrengthAreas:      head(r.MatchedSkills, 5),
			DevelopmentAreas:   head(r.MissingSkills, 3),
			TechnicalReadiness: readiness,
		},
		CulturalFitIndicators: culturalFit(j),
		GrowthPotential:       growthPotential(in.years, educationEntries),
		RiskFactors:           riskFactors(r, in),
		Recommendations:       append([]string(nil), actions...),
	}
}

func culturalFit(j models.JobCriteria) []string {
	indicators := []string{}
	switch strings.ToLower(strings.TrimSpace(j.CompanySize)) {
	case "startup":
		indicators = append(indicators, "Startup environment adaptability")
	case "enterprise":
		indicators = append(indicators, "Enterprise-scale experience")
	}
	if j.RemoteOK {
		indicators = append(indicators, "Remote work compatibility")
	}
	return indicators
}

func growthPotential(years float64, educationEntries int) string {
	switch {
	case years < 3 && educationEntries > 0:
		return "High - Early career with strong educational foundation"
	case years >= 3 && years <= 7:
		return "Medium-High - Mid-career growth phase"
	default:
		return "Medium - Experienced professional"
	}
}

func riskFactors(r models.MatchResult, in sanitized) []string {
	risks := []string{}
	if len(r.MissingSkills) > 3 {
		risks = append(risks, "Significant skill gaps requiring training")
	}
	minExp := float64(in.minExp)
	if in.years < minExp {
		risks = append(risks, "Below minimum experience requirement")
	}
	if in.years > minExp+5 {
		risks = append(risks, "Potential overqualification concerns")
	}
	return append(risks, in.notes...)
}

func head(list []string, n int) []string {
	if len(list) < n {
		n = len(list)
	}
	return append([]string{}, list[:n]...)
}
