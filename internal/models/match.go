// internal/models/match.go
package models

import "time"

type TechnicalFit struct {
	StrengthAreas      []string `json:"strengthAreas"`
	DevelopmentAreas   []string `json:"developmentAreas"`
	TechnicalReadiness string   `json:"technicalReadiness"`
}

type FitAnalysis struct {
	TechnicalFit          TechnicalFit `json:"technicalFit"`
	CulturalFitIndicators []string     `json:"culturalFitIndicators"`
	GrowthPotential       string       `json:"growthPotential"`
	RiskFactors           []string     `json:"riskFactors"`
	Recommendations       []string     `json:"recommendations"`
}

// MatchResult is the explainable outcome of scoring one candidate against
// one job. AIRecommendation is the canonical tier string;
// EnhancedRecommendation is only set when an enhancer ran.
type MatchResult struct {
	OverallScore    float64 `json:"overallScore"`
	SkillScore      float64 `json:"skillScore"`
	ExperienceScore float64 `json:"experienceScore"`
	LocationScore   float64 `json:"locationScore"`
	EducationScore  float64 `json:"educationScore"`
	PreferenceScore float64 `json:"preferenceScore"`

	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	MatchReasons  []string `json:"matchReasons"`

	AIRecommendation       string      `json:"aiRecommendation"`
	EnhancedRecommendation string      `json:"enhancedRecommendation,omitempty"`
	FitAnalysis            FitAnalysis `json:"fitAnalysis"`
}

const (
	MatchTypeAIGenerated = "ai_generated"
	MatchStatusPending   = "pending"
)

// MatchRecord is a persisted match.
type MatchRecord struct {
	ID          string      `json:"id"`
	CandidateID string      `json:"candidateId"`
	JobID       string      `json:"jobId"`
	Result      MatchResult `json:"result"`
	MatchType   string      `json:"matchType"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

type JobMatch struct {
	Job    Job         `json:"job"`
	Result MatchResult `json:"result"`
}

type CandidateMatch struct {
	Candidate Candidate   `json:"candidate"`
	Result    MatchResult `json:"result"`
}
