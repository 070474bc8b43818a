// internal/models/resume.go
package models

import "time"

type Contact struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

// SkillGroup lists the tokens found for one taxonomy category, in taxonomy order.
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type ExperienceEntry struct {
	JobTitle    string `json:"jobTitle,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// ResumeProfile holds the display-only annotations of an extraction.
type ResumeProfile struct {
	Contact           Contact           `json:"contact"`
	CategorizedSkills []SkillGroup      `json:"categorizedSkills"`
	Experience        []ExperienceEntry `json:"experience"`
	Certifications    []Certification   `json:"certifications"`
	Languages         []Language        `json:"languages"`
	RawText           string            `json:"rawText"`
	ParsingErrors     []string          `json:"parsingErrors"`
	ParsedAt          time.Time         `json:"parsedAt"`
}

type Extraction struct {
	Features CandidateFeatures `json:"features"`
	Profile  ResumeProfile     `json:"profile"`
}
