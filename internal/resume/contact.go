package resume

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"match-workers/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// North American numbers first, then a looser international shape.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`(\+?[0-9]{1,3}[-.\s]?)?\(?[0-9]{3,4}\)?[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}`),
	}

	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/(?:in|pub)/[A-Za-z0-9_-]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[A-Za-z0-9_-]+`)
	websitePattern  = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s,;()<>]+`)
	locationPattern = regexp.MustCompile(`\b([A-Z][A-Za-z.]+(?: [A-Z][A-Za-z.]+)*),\s*([A-Z]{2})\b`)
)

// headerLines bounds the search for a location line.
const headerLines = 10

func (e *Extractor) extractContact(d *document) (models.Contact, error) {
	c := models.Contact{
		Email:    emailPattern.FindString(d.text),
		Phone:    findPhone(d.text),
		Website:  findWebsite(d.text),
		Location: findLocation(d),
	}
	if m := linkedinPattern.FindString(d.text); m != "" {
		c.LinkedIn = "https://" + strings.ToLower(m)
	}
	if m := githubPattern.FindString(d.text); m != "" {
		c.GitHub = "https://" + strings.ToLower(m)
	}

	var nameErr error
	if e.names != nil {
		name, err := e.names.RecognizeName(truncateRunes(d.text, nameWindow))
		if err != nil {
			nameErr = fmt.Errorf("name recognition: %w", err)
		}
		c.Name = strings.TrimSpace(name)
	}
	if c.Name == "" {
		c.Name = guessName(d)
	}
	return c, nameErr
}

func findPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return normalizePhone(m)
		}
	}
	return ""
}

// normalizePhone keeps digits and a leading plus sign.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func findWebsite(text string) string {
	for _, m := range websitePattern.FindAllString(text, -1) {
		lower := strings.ToLower(m)
		if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
			continue
		}
		return strings.TrimRight(m, ".")
	}
	return ""
}

func findLocation(d *document) string {
	seen := 0
	for i, line := range d.lines {
		if line == "" || d.header[i] {
			continue
		}
		if seen++; seen > headerLines {
			break
		}
		if strings.Contains(line, "@") || strings.Contains(strings.ToLower(line), "http") {
			continue
		}
		if m := locationPattern.FindStringSubmatch(line); m != nil {
			return m[1] + ", " + m[2]
		}
	}
	return ""
}

// guessName takes the first short line made of capitalized words near the
// top of the resume.
func guessName(d *document) string {
	checked := 0
	for i, line := range d.lines {
		if line == "" || d.header[i] {
			continue
		}
		if checked++; checked > 5 {
			break
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			if !isNameWord(w) {
				ok = false
				break
			}
		}
		if ok {
			return line
		}
	}
	return ""
}

func isNameWord(w string) bool {
	for i, r := range w {
		switch {
		case i == 0 && !unicode.IsUpper(r):
			return false
		case !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '.':
			return false
		}
	}
	return true
}
