package resume

import (
	"regexp"
	"strings"

	"match-workers/internal/models"
)

var (
	degreePattern = regexp.MustCompile(`(?i)\b(bachelor(?:'?s)?|master(?:'?s)?|ph\.?\s?d\.?|doctorate|associate(?:'?s)?|diploma|b\.\s?s\.|b\.\s?a\.|m\.\s?s\.|m\.\s?a\.|mba|m\.\s?tech|b\.\s?tech)(?:[^a-z]|$)`)
	institutionOf = regexp.MustCompile(`\b(University|College|Institute)\s+of\s+([A-Z][^,\n(]*)`)
	degreeOfIn    = regexp.MustCompile(`(?i)^of\s+([a-z]+(?:\s+[a-z]+)?)\s+in\s+(.+)$`)
	degreeField   = regexp.MustCompile(`(?i)^(?:of|in)\s+(.+)$`)
)

// abbreviations expands short degree names so the scorer sees the level word.
var abbreviations = map[string]string{
	"b.s.":    "Bachelor of Science",
	"b.a.":    "Bachelor of Arts",
	"b.tech":  "Bachelor of Technology",
	"m.s.":    "Master of Science",
	"m.a.":    "Master of Arts",
	"m.tech":  "Master of Technology",
	"mba":     "MBA",
	"phd":     "PhD",
	"ph.d.":   "PhD",
	"ph.d":    "PhD",
	"diploma": "Diploma",
}

func canonicalDegree(raw string) string {
	key := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if full, ok := abbreviations[key]; ok {
		return full
	}
	for _, base := range []string{"bachelor", "master", "associate"} {
		if strings.HasPrefix(key, base) {
			key = base
		}
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func extractEducation(d *document) []models.EducationEntry {
	out := []models.EducationEntry{}
	for _, i := range d.scope(sectionEducation) {
		if len(out) >= maxEducation {
			break
		}
		line := d.lines[i]
		if line == "" {
			continue
		}
		if e, ok := parseDegreeLine(line); ok {
			out = append(out, e)
			continue
		}
		if m := institutionOf.FindStringSubmatch(line); m != nil {
			out = append(out, models.EducationEntry{
				Institution: strings.TrimSpace(cutAtYear(m[1] + " of " + m[2])),
				Year:        yearPattern.FindString(line),
			})
		}
	}
	return out
}

func parseDegreeLine(line string) (models.EducationEntry, bool) {
	m := degreePattern.FindStringSubmatchIndex(line)
	if m == nil {
		return models.EducationEntry{}, false
	}
	loc := m[2:4]
	entry := models.EducationEntry{
		Degree: canonicalDegree(line[loc[0]:loc[1]]),
		Year:   yearPattern.FindString(line),
	}

	rest := strings.TrimSpace(line[loc[1]:])
	if m := degreeOfIn.FindStringSubmatch(rest); m != nil && !strings.Contains(entry.Degree, " of ") {
		entry.Degree += " of " + titleWords(m[1])
		rest = m[2]
	} else if m := degreeField.FindStringSubmatch(rest); m != nil {
		rest = m[1]
	}

	field, institution := splitFieldInstitution(rest)
	entry.Field = field
	entry.Institution = institution
	return entry, true
}

// splitFieldInstitution separates "Computer Science, State University" or
// "Physics from MIT".
func splitFieldInstitution(rest string) (string, string) {
	lower := strings.ToLower(rest)
	for _, sep := range []string{" from ", " at "} {
		if i := strings.Index(lower, sep); i >= 0 {
			return cleanField(rest[:i]), cleanField(firstSegment(rest[i+len(sep):]))
		}
	}
	parts := strings.SplitN(rest, ",", 3)
	field := cleanField(parts[0])
	institution := ""
	if len(parts) > 1 {
		institution = cleanField(parts[1])
	}
	return field, institution
}

func firstSegment(s string) string {
	if i := strings.IndexAny(s, ",("); i >= 0 {
		return s[:i]
	}
	return s
}

func cleanField(s string) string {
	s = cutAtYear(s)
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return trimPunct(s)
}

func cutAtYear(s string) string {
	if loc := yearPattern.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
