package resume

import (
	"regexp"
	"strings"

	"match-workers/internal/models"
)

var (
	vendorCertPattern  = regexp.MustCompile(`(?i)\b(AWS|Azure|Google Cloud|GCP)\s+(Certified|Professional|Associate)\s+[^,\n]+`)
	keywordCertPattern = regexp.MustCompile(`(?i)\bCertified\s+[^,\n]+`)
	acronymCertPattern = regexp.MustCompile(`\b(PMP|CISSP|CISA|CISM|CEH|OSCP|CCNA|CCNP|CCIE)\b`)
	trailingYear       = regexp.MustCompile(`\s*[-–(,]?\s*\(?((?:19|20)\d{2})\)?\s*$`)
)

var certIssuers = map[string]string{
	"aws":          "Amazon Web Services",
	"azure":        "Microsoft",
	"google cloud": "Google Cloud",
	"gcp":          "Google Cloud",
	"pmp":          "PMI",
	"cissp":        "ISC2",
	"cisa":         "ISACA",
	"cism":         "ISACA",
	"ceh":          "EC-Council",
	"oscp":         "OffSec",
	"ccna":         "Cisco",
	"ccnp":         "Cisco",
	"ccie":         "Cisco",
}

func extractCertifications(d *document) []models.Certification {
	out := []models.Certification{}
	seen := make(map[string]struct{})
	add := func(raw, issuerKey string) {
		if len(out) >= maxCertificates {
			return
		}
		name := strings.TrimSpace(raw)
		year := ""
		if m := trailingYear.FindStringSubmatchIndex(name); m != nil {
			year = name[m[2]:m[3]]
			name = strings.TrimSpace(name[:m[0]])
		}
		name = trimPunct(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, models.Certification{
			Name:   name,
			Issuer: certIssuers[strings.ToLower(issuerKey)],
			Year:   year,
		})
	}

	lines, inSection := d.linesIn(sectionCertifications)
	if !inSection {
		lines = d.scope(sectionCertifications)
	}

	for _, i := range lines {
		line := d.lines[i]
		if line == "" {
			continue
		}
		var taken [][2]int
		claim := func(start, end int) bool {
			for _, t := range taken {
				if start < t[1] && t[0] < end {
					return false
				}
			}
			taken = append(taken, [2]int{start, end})
			return true
		}

		for _, m := range vendorCertPattern.FindAllStringSubmatchIndex(line, -1) {
			if claim(m[0], m[1]) {
				add(line[m[0]:m[1]], line[m[2]:m[3]])
			}
		}
		for _, m := range keywordCertPattern.FindAllStringIndex(line, -1) {
			if claim(m[0], m[1]) {
				add(line[m[0]:m[1]], "")
			}
		}
		for _, m := range acronymCertPattern.FindAllStringIndex(line, -1) {
			if claim(m[0], m[1]) {
				add(line[m[0]:m[1]], line[m[0]:m[1]])
			}
		}
		// Inside a certifications section an unmatched line is itself a
		// certification name.
		if inSection && len(taken) == 0 && !isBullet(line) {
			add(line, "")
		}
	}
	return out
}

var knownLanguages = []string{
	"English", "Spanish", "French", "German", "Italian", "Portuguese",
	"Chinese", "Japanese", "Korean", "Arabic", "Russian", "Hindi",
	"Dutch", "Swedish", "Norwegian", "Danish", "Finnish",
}

var languagePatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(knownLanguages))
	for i, l := range knownLanguages {
		out[i] = regexp.MustCompile(`(?i)\b` + l + `\b(?:\s*[-:(]\s*(native|fluent|advanced|intermediate|basic|beginner))?`)
	}
	return out
}()

func extractLanguages(d *document) []models.Language {
	out := []models.Language{}
	scope := d.scope(sectionLanguages)
	lines := make([]string, 0, len(scope))
	for _, i := range scope {
		lines = append(lines, d.lines[i])
	}
	text := strings.Join(lines, "\n")

	for i, p := range languagePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		proficiency := "Not specified"
		if m[1] != "" {
			proficiency = titleWords(m[1])
		}
		out = append(out, models.Language{Language: knownLanguages[i], Proficiency: proficiency})
	}
	return out
}
