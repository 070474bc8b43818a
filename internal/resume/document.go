package resume

import (
	"strings"
	"unicode"
)

// Section kinds recognized from header lines.
const (
	sectionNone           = ""
	sectionExperience     = "experience"
	sectionEducation      = "education"
	sectionSkills         = "skills"
	sectionCertifications = "certifications"
	sectionLanguages      = "languages"
	sectionOther          = "other"
)

// headerKeywords is checked in order; the first keyword present in a header
// line decides its kind, so "Career Summary" is not an experience header.
var headerKeywords = []struct {
	keyword string
	kind    string
}{
	{"summary", sectionOther},
	{"objective", sectionOther},
	{"profile", sectionOther},
	{"experience", sectionExperience},
	{"employment", sectionExperience},
	{"work history", sectionExperience},
	{"career", sectionExperience},
	{"education", sectionEducation},
	{"academic", sectionEducation},
	{"certification", sectionCertifications},
	{"licenses", sectionCertifications},
	{"languages", sectionLanguages},
	{"skills", sectionSkills},
	{"technologies", sectionSkills},
	{"projects", sectionOther},
	{"references", sectionOther},
	{"interests", sectionOther},
	{"awards", sectionOther},
	{"publications", sectionOther},
	{"volunteer", sectionOther},
}

type document struct {
	text      string
	lower     string
	lines     []string
	sectionOf []string
	header    []bool
}

func newDocument(text string) *document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	d := &document{
		text:      text,
		lower:     strings.ToLower(text),
		lines:     make([]string, len(raw)),
		sectionOf: make([]string, len(raw)),
		header:    make([]bool, len(raw)),
	}

	current := sectionNone
	for i, l := range raw {
		line := strings.TrimSpace(l)
		d.lines[i] = line
		if kind, ok := headerKind(line); ok {
			current = kind
			d.header[i] = true
		}
		d.sectionOf[i] = current
	}
	return d
}

// headerWords may appear in a header phrase besides the keywords. A short
// line made only of keywords and these words is a header; any other word
// ("Education Coordinator", "Customer Experience Manager") makes it content
// unless the line ends with a colon.
var headerWords = map[string]bool{
	"professional": true, "work": true, "relevant": true, "history": true,
	"technical": true, "core": true, "key": true, "other": true,
	"additional": true, "and": true, "&": true, "of": true, "educational": true,
	"background": true, "training": true, "qualifications": true,
	"competencies": true, "tools": true, "honors": true, "certifications": true,
	"license": true, "language": true, "skill": true, "project": true,
	"experiences": true, "volunteering": true, "personal": true,
}

func headerKind(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	colon := strings.HasSuffix(trimmed, ":")
	l := strings.TrimSuffix(trimmed, ":")
	if l == "" || strings.ContainsAny(l, ":,@/|") {
		return "", false
	}
	for _, r := range l {
		if unicode.IsDigit(r) {
			return "", false
		}
	}
	words := strings.Fields(strings.ToLower(l))
	if len(words) > 4 {
		return "", false
	}

	kind, ok := "", false
	for _, h := range headerKeywords {
		if strings.Contains(strings.Join(words, " "), h.keyword) {
			kind, ok = h.kind, true
			break
		}
	}
	if !ok || colon {
		return kind, ok
	}
	for _, w := range words {
		if !headerWords[w] && !isKeyword(w) {
			return "", false
		}
	}
	return kind, true
}

func isKeyword(word string) bool {
	for _, h := range headerKeywords {
		if word == h.keyword {
			return true
		}
	}
	return false
}

// linesIn returns the indexes of content lines under the given section
// kind. ok is false when the resume has no such section.
func (d *document) linesIn(kind string) (idx []int, ok bool) {
	for i := range d.lines {
		if d.header[i] && d.sectionOf[i] == kind {
			ok = true
			continue
		}
		if !d.header[i] && d.sectionOf[i] == kind {
			idx = append(idx, i)
		}
	}
	return idx, ok
}

// scope returns the lines of kind, or every content line when the resume
// has no such section.
func (d *document) scope(kind string) []int {
	if idx, ok := d.linesIn(kind); ok {
		return idx
	}
	all := make([]int, 0, len(d.lines))
	for i := range d.lines {
		if !d.header[i] {
			all = append(all, i)
		}
	}
	return all
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "*") || strings.HasPrefix(line, "·")
}
