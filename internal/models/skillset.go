// internal/models/skillset.go
package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// SkillSet is a set of canonical, case-folded skill tokens.
type SkillSet map[string]struct{}

// NormalizeSkill case-folds a token and collapses inner whitespace.
func NormalizeSkill(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func NewSkillSet(tokens ...string) SkillSet {
	set := make(SkillSet, len(tokens))
	for _, t := range tokens {
		if n := NormalizeSkill(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s SkillSet) Has(token string) bool {
	_, ok := s[NormalizeSkill(token)]
	return ok
}

func (s SkillSet) Len() int { return len(s) }

// Sorted returns the tokens in lexical order.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// With returns a new set holding s plus tokens; s is left untouched.
func (s SkillSet) With(tokens ...string) SkillSet {
	out := make(SkillSet, len(s)+len(tokens))
	for t := range s {
		out[t] = struct{}{}
	}
	for _, t := range tokens {
		if n := NormalizeSkill(t); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	*s = NewSkillSet(tokens...)
	return nil
}

// NormalizeSkills case-folds a sequence, dropping blanks and repeats while
// keeping first-seen order.
func NormalizeSkills(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		n := NormalizeSkill(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
