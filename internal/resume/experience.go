package resume

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"match-workers/internal/models"
)

const (
	rangeDash = `\s*(?:-|–|—|to)\s*`
	monthName = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
)

// Most specific first. A later pattern never claims text an earlier one
// already matched on the same line.
var dateRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}/\d{4})` + rangeDash + `(\d{1,2}/\d{4}|[A-Za-z]+)\b`),
	regexp.MustCompile(`(?i)\b(` + monthName + `\.?\s+\d{4})` + rangeDash + `(` + monthName + `\.?\s+\d{4}|[a-z]+)\b`),
	regexp.MustCompile(`\b((?:19|20)\d{2})` + rangeDash + `((?:19|20)\d{2}|[A-Za-z]+)\b`),
}

var (
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	roleSeparators = []string{" at ", " @ ", " | ", " – ", " — ", " - ", ", "}
)

const descriptionLimit = 500

type dateRange struct {
	line       int
	start, end int
	startText  string
	endText    string
}

// extractExperience returns the timeline newest first, the total years and
// any advisory problems.
func extractExperience(d *document, currentYear int) ([]models.ExperienceEntry, float64, []string) {
	lines := d.scope(sectionExperience)
	inScope := make(map[int]bool, len(lines))
	for _, i := range lines {
		inScope[i] = true
	}

	var ranges []dateRange
	for _, i := range lines {
		ranges = append(ranges, findRanges(d.lines[i], i)...)
	}
	rangeLines := make(map[int]bool, len(ranges))
	for _, r := range ranges {
		rangeLines[r.line] = true
	}

	type dated struct {
		entry     models.ExperienceEntry
		startYear int
		years     int
		known     bool
	}

	var (
		entries  []dated
		problems []string
		seen     = make(map[string]struct{})
	)
	for _, r := range ranges {
		title, company := inferRole(d, r, inScope, rangeLines)
		if title == "" && company == "" {
			continue
		}
		key := strings.ToLower(title + "|" + company + "|" + r.startText)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		startYear, okStart := yearOf(r.startText, currentYear)
		endYear, okEnd := yearOf(r.endText, currentYear)
		item := dated{
			entry: models.ExperienceEntry{
				JobTitle:    title,
				Company:     company,
				StartDate:   r.startText,
				EndDate:     r.endText,
				Description: describe(d, r.line, inScope, rangeLines),
				Duration:    "Unknown",
			},
			startYear: startYear,
		}
		if okStart && okEnd {
			item.known = true
			item.years = endYear - startYear
			if item.years < 0 {
				problems = append(problems, fmt.Sprintf("end %q precedes start %q", r.endText, r.startText))
				item.years = 0
			}
			item.entry.Duration = durationLabel(item.years)
		} else {
			problems = append(problems, fmt.Sprintf("could not resolve dates %q to %q", r.startText, r.endText))
		}
		entries = append(entries, item)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].startYear > entries[b].startYear
	})
	if len(entries) > maxExperience {
		entries = entries[:maxExperience]
	}

	out := make([]models.ExperienceEntry, 0, len(entries))
	months := 0
	for _, e := range entries {
		out = append(out, e.entry)
		if e.known {
			months += e.years * 12
		}
	}
	total := math.Round(float64(months)/12*10) / 10
	return out, total, problems
}

func findRanges(line string, idx int) []dateRange {
	var out []dateRange
	for _, p := range dateRangePatterns {
		for _, m := range p.FindAllStringSubmatchIndex(line, -1) {
			if overlaps(out, m[0], m[1]) {
				continue
			}
			out = append(out, dateRange{
				line:      idx,
				start:     m[0],
				end:       m[1],
				startText: strings.TrimSpace(line[m[2]:m[3]]),
				endText:   strings.TrimSpace(line[m[4]:m[5]]),
			})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].start < out[b].start })
	return out
}

func overlaps(ranges []dateRange, start, end int) bool {
	for _, r := range ranges {
		if start < r.end && r.start < end {
			return true
		}
	}
	return false
}

// yearOf resolves "present", "current" and "now" to currentYear and
// otherwise takes the four-digit year in s.
func yearOf(s string, currentYear int) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now":
		return currentYear, true
	}
	m := yearPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	return y, err == nil
}

func durationLabel(years int) string {
	switch {
	case years < 1:
		return "Less than 1 year"
	case years == 1:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", years)
	}
}

// inferRole reads title and company from the text sharing the date line,
// else from up to two lines right above it, else from the line below. A
// date line carrying only a company takes the title from the line above.
func inferRole(d *document, r dateRange, inScope, rangeLines map[int]bool) (string, string) {
	line := d.lines[r.line]
	if rest := trimPunct(line[:r.start] + " " + line[r.end:]); rest != "" {
		title, company := splitRole(rest)
		// "Acme Corp | 2016 - Present" under a title line names only the company
		if prev := r.line - 1; company == "" && prev >= 0 && usableRoleLine(d, prev, inScope, rangeLines) {
			return trimPunct(d.lines[prev]), title
		}
		return title, company
	}

	var above []string
	for i := r.line - 1; i >= 0 && len(above) < 2; i-- {
		if !usableRoleLine(d, i, inScope, rangeLines) {
			break
		}
		above = append([]string{trimPunct(d.lines[i])}, above...)
	}
	switch len(above) {
	case 1:
		return splitRole(above[0])
	case 2:
		return above[0], above[1]
	}

	if next := r.line + 1; next < len(d.lines) && usableRoleLine(d, next, inScope, rangeLines) {
		return splitRole(trimPunct(d.lines[next]))
	}
	return "", ""
}

func usableRoleLine(d *document, i int, inScope, rangeLines map[int]bool) bool {
	return inScope[i] && !rangeLines[i] && d.lines[i] != "" && !isBullet(d.lines[i])
}

func splitRole(s string) (string, string) {
	lower := strings.ToLower(s)
	for _, sep := range roleSeparators {
		if i := strings.Index(lower, sep); i > 0 {
			return strings.TrimSpace(s[:i]), trimPunct(s[i+len(sep):])
		}
	}
	return s, ""
}

// describe joins the contiguous lines under a date line, stopping at a blank
// line or the next dated entry.
func describe(d *document, line int, inScope, rangeLines map[int]bool) string {
	var parts []string
	for i := line + 1; i < len(d.lines) && len(parts) < 5; i++ {
		if !inScope[i] || rangeLines[i] || d.lines[i] == "" {
			break
		}
		// the title line of the next dated entry
		if rangeLines[i+1] && !isBullet(d.lines[i]) {
			break
		}
		parts = append(parts, trimPunct(d.lines[i]))
	}
	return truncateRunes(strings.Join(parts, " "), descriptionLimit)
}
