// Package enhance turns a scored match into a short written recommendation
// with a generative model. The canonical tier string on the result is never
// replaced; the text goes into EnhancedRecommendation.
package enhance

import (
	"context"
	"fmt"
	"strings"

	"match-workers/internal/common/logger"
	"match-workers/internal/models"
)

// Enhancer writes a recommendation for one scored pair.
type Enhancer interface {
	Enhance(ctx context.Context, c models.CandidateFeatures, j models.JobCriteria, res models.MatchResult) (string, error)
}

// Apply returns res with EnhancedRecommendation set when e succeeds. A nil
// enhancer or a failure leaves res unchanged; failures are logged.
func Apply(ctx context.Context, e Enhancer, log logger.Logger, c models.CandidateFeatures, j models.JobCriteria, res models.MatchResult) models.MatchResult {
	if e == nil {
		return res
	}
	text, err := e.Enhance(ctx, c, j, res)
	if err != nil {
		log.Warn("recommendation enhancer failed", map[string]interface{}{"error": err})
		return res
	}
	res.EnhancedRecommendation = text
	return res
}

const systemPrompt = `You are a recruiting assistant. Given a candidate/job match analysis, write a
recommendation of at most three sentences for the hiring manager. Be concrete:
name the strongest skills and the main gap. Do not invent facts that are not in
the analysis. Do not repeat the numeric scores verbatim.`

// buildPrompt renders the match analysis the model sees.
func buildPrompt(c models.CandidateFeatures, j models.JobCriteria, res models.MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall score: %.1f/100 (%s)\n", res.OverallScore, res.AIRecommendation)
	fmt.Fprintf(&b, "Component scores: skills %.1f, experience %.1f, location %.1f, education %.1f, preferences %.1f\n",
		res.SkillScore, res.ExperienceScore, res.LocationScore, res.EducationScore, res.PreferenceScore)

	fmt.Fprintf(&b, "Job requires: %s\n", listOrNone(j.RequiredSkills))
	if len(j.PreferredSkills) > 0 {
		fmt.Fprintf(&b, "Job prefers: %s\n", strings.Join(j.PreferredSkills, ", "))
	}
	fmt.Fprintf(&b, "Job experience: at least %d years\n", j.MinExperience)

	fmt.Fprintf(&b, "Candidate experience: %.1f years\n", c.TotalExperienceYears)
	if c.Location != "" {
		fmt.Fprintf(&b, "Candidate location: %s\n", c.Location)
	}
	fmt.Fprintf(&b, "Matched skills: %s\n", listOrNone(res.MatchedSkills))
	fmt.Fprintf(&b, "Missing skills: %s\n", listOrNone(res.MissingSkills))
	if len(res.MatchReasons) > 0 {
		fmt.Fprintf(&b, "Reasons: %s\n", strings.Join(res.MatchReasons, "; "))
	}
	if len(res.FitAnalysis.RiskFactors) > 0 {
		fmt.Fprintf(&b, "Risks: %s\n", strings.Join(res.FitAnalysis.RiskFactors, "; "))
	}
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
