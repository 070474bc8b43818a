// cmd/tools/matchctl/render.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"match-workers/internal/matching/driver"
	"match-workers/internal/matching/scorer"
	"match-workers/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	tierStyles = map[scorer.Tier]lipgloss.Style{
		scorer.TierExcellent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		scorer.TierGood:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		scorer.TierModerate:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		scorer.TierLimited:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// ==========================
// Input files
// ==========================

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func loadCandidate(path string) (models.Candidate, error) {
	var c models.Candidate
	if err := readJSONFile(path, &c); err != nil {
		return c, err
	}
	return c, models.Validate(c)
}

func loadJob(path string) (models.Job, error) {
	var j models.Job
	if err := readJSONFile(path, &j); err != nil {
		return j, err
	}
	return j, models.Validate(j)
}

func loadCandidates(path string) ([]models.Candidate, error) {
	var cs []models.Candidate
	if err := readJSONFile(path, &cs); err != nil {
		return nil, err
	}
	for i, c := range cs {
		if err := models.Validate(c); err != nil {
			return nil, fmt.Errorf("%s: candidate %d: %w", path, i, err)
		}
	}
	return cs, nil
}

func loadJobs(path string) ([]models.Job, error) {
	var js []models.Job
	if err := readJSONFile(path, &js); err != nil {
		return nil, err
	}
	for i, j := range js {
		if err := models.Validate(j); err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", path, i, err)
		}
	}
	return js, nil
}

// ==========================
// Output
// ==========================

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func field(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label+":"), valueStyle.Render(fmt.Sprint(value)))
}

func list(items []string) string {
	if len(items) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(items, ", ")
}

func renderScore(score float64) string {
	return tierStyles[scorer.TierOf(score)].Render(fmt.Sprintf("%6.2f", score))
}

func printMatchResult(w io.Writer, res models.MatchResult) {
	fmt.Fprintf(w, "  %s %s  %s\n", labelStyle.Render("Overall:"), renderScore(res.OverallScore), scorer.TierOf(res.OverallScore))
	field(w, "Skill", fmt.Sprintf("%.2f", res.SkillScore))
	field(w, "Experience", fmt.Sprintf("%.2f", res.ExperienceScore))
	field(w, "Location", fmt.Sprintf("%.2f", res.LocationScore))
	field(w, "Education", fmt.Sprintf("%.2f", res.EducationScore))
	field(w, "Preference", fmt.Sprintf("%.2f", res.PreferenceScore))
	field(w, "Matched skills", list(res.MatchedSkills))
	field(w, "Missing skills", list(res.MissingSkills))

	if len(res.MatchReasons) > 0 {
		fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Reasons"))
		for _, r := range res.MatchReasons {
			fmt.Fprintf(w, "    - %s\n", r)
		}
	}
	if risks := res.FitAnalysis.RiskFactors; len(risks) > 0 {
		fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Risk factors"))
		for _, r := range risks {
			fmt.Fprintf(w, "    - %s\n", r)
		}
	}
	fmt.Fprintf(w, "\n  %s\n", res.AIRecommendation)
}

func printExtraction(w io.Writer, ext models.Extraction) {
	p := ext.Profile
	fmt.Fprintln(w, titleStyle.Render("Resume"))
	field(w, "Name", p.Contact.Name)
	field(w, "Email", p.Contact.Email)
	field(w, "Phone", p.Contact.Phone)
	field(w, "Location", ext.Features.Location)
	field(w, "Experience (years)", fmt.Sprintf("%.1f", ext.Features.TotalExperienceYears))

	fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Skills"))
	for _, g := range p.CategorizedSkills {
		fmt.Fprintf(w, "    %s %s\n", mutedStyle.Render(g.Category+":"), strings.Join(g.Skills, ", "))
	}

	if len(ext.Features.Education) > 0 {
		fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Education"))
		for _, e := range ext.Features.Education {
			fmt.Fprintf(w, "    - %s\n", e.Degree)
		}
	}
	if len(p.Experience) > 0 {
		fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Experience"))
		for _, e := range p.Experience {
			fmt.Fprintf(w, "    - %s %s %s-%s (%s)\n", e.JobTitle, mutedStyle.Render("at "+e.Company), e.StartDate, e.EndDate, e.Duration)
		}
	}
	if len(p.ParsingErrors) > 0 {
		fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Parsing notes"))
		for _, n := range p.ParsingErrors {
			fmt.Fprintf(w, "    - %s\n", mutedStyle.Render(n))
		}
	}
}

func printTally(w io.Writer, employerID string, t driver.Tally) {
	fmt.Fprintln(w, titleStyle.Render("Match generation for "+employerID))
	field(w, "Written", t.Written)
	field(w, "Skipped (duplicate)", t.SkippedDuplicate)
	field(w, "Skipped (below threshold)", t.SkippedBelowThreshold)
	field(w, "Skipped (error)", t.SkippedError)
	field(w, "Total", t.Total)
	field(w, "Excellent", t.Excellent)

	if len(t.Top) > 0 {
		fmt.Fprintf(w, "\n  %s\n", labelStyle.Render("Top matches"))
		for i, rec := range t.Top {
			fmt.Fprintf(w, "  %2d. %s  candidate %s  job %s\n", i+1, renderScore(rec.Result.OverallScore), rec.CandidateID, rec.JobID)
		}
	}
}
