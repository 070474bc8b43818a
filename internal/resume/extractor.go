// Package resume turns plain resume text into candidate features for the
// scorer plus display annotations (contact block, categorized skills,
// experience timeline, certifications, languages).
//
// Extraction never fails. A sub-extractor that breaks leaves its section
// empty and adds a note to ResumeProfile.ParsingErrors.
package resume

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"match-workers/internal/common/clock"
	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/matching/taxonomy"
	"match-workers/internal/models"
)

const (
	rawTextLimit    = 2000
	nameWindow      = 1000
	maxExperience   = 10
	maxEducation    = 5
	maxCertificates = 10
)

// NameRecognizer finds a person's name in free text. It returns "" when no
// name is found.
type NameRecognizer interface {
	RecognizeName(text string) (string, error)
}

type Options struct {
	Taxonomy *taxonomy.Taxonomy
	Clock    clock.Clock
	// Names is optional; without it the first name-shaped line is used.
	Names NameRecognizer
}

// Extractor is safe for concurrent use.
type Extractor struct {
	clock  clock.Clock
	names  NameRecognizer
	skills []categoryMatcher
}

func New(opts Options) *Extractor {
	tax := opts.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Extractor{
		clock:  clk,
		names:  opts.Names,
		skills: compileSkillMatchers(tax),
	}
}

// Extract parses text. It is deterministic for a given clock reading.
func (e *Extractor) Extract(text string) models.Extraction {
	now := e.clock.Now()
	doc := newDocument(text)
	notes := &advisories{}

	profile := models.ResumeProfile{
		RawText:           truncateRunes(doc.text, rawTextLimit),
		ParsedAt:          now,
		CategorizedSkills: []models.SkillGroup{},
		Experience:        []models.ExperienceEntry{},
		Certifications:    []models.Certification{},
		Languages:         []models.Language{},
	}
	var (
		flat      models.SkillSet
		education = []models.EducationEntry{}
		years     float64
	)

	notes.run("contact", func() error {
		var err error
		profile.Contact, err = e.extractContact(doc)
		return err
	})
	notes.run("skills", func() error {
		profile.CategorizedSkills, flat = e.extractSkills(doc)
		return nil
	})
	notes.run("experience", func() error {
		var problems []string
		profile.Experience, years, problems = extractExperience(doc, now.Year())
		for _, p := range problems {
			notes.add("experience", fmt.Errorf("%s", p))
		}
		return nil
	})
	notes.run("education", func() error {
		education = extractEducation(doc)
		return nil
	})
	notes.run("certifications", func() error {
		profile.Certifications = extractCertifications(doc)
		return nil
	})
	notes.run("languages", func() error {
		profile.Languages = extractLanguages(doc)
		return nil
	})

	if flat == nil {
		flat = models.NewSkillSet()
	}
	profile.ParsingErrors = notes.list

	return models.Extraction{
		Features: models.CandidateFeatures{
			Skills:               flat,
			TotalExperienceYears: years,
			Location:             profile.Contact.Location,
			Education:            education,
		},
		Profile: profile,
	}
}

type advisories struct {
	list []string
}

func (a *advisories) add(section string, err error) {
	a.list = append(a.list, apperrors.NewExtractionPartialError(section, err).Error())
}

// run isolates one sub-extractor so that its failure only empties its own
// section.
func (a *advisories) run(section string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.add(section, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		a.add(section, err)
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func trimPunct(s string) string {
	return strings.Trim(strings.TrimSpace(s), " \t:|,;-–—•*()")
}
