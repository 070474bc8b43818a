package resume

import (
	"regexp"

	"match-workers/internal/matching/taxonomy"
	"match-workers/internal/models"
)

type skillMatcher struct {
	token   string
	pattern *regexp.Regexp
}

type categoryMatcher struct {
	name     string
	matchers []skillMatcher
}

// compileSkillMatchers builds one whole-word pattern per token. Boundaries
// are any non-alphanumeric character so tokens such as c++, c# and node.js
// match.
func compileSkillMatchers(tax *taxonomy.Taxonomy) []categoryMatcher {
	cats := tax.Categories()
	out := make([]categoryMatcher, 0, len(cats))
	for _, c := range cats {
		cm := categoryMatcher{name: c.Name, matchers: make([]skillMatcher, 0, len(c.Skills))}
		for _, token := range c.Skills {
			cm.matchers = append(cm.matchers, skillMatcher{
				token:   token,
				pattern: regexp.MustCompile(`(?:^|[^a-z0-9])` + regexp.QuoteMeta(token) + `(?:[^a-z0-9]|$)`),
			})
		}
		out = append(out, cm)
	}
	return out
}

func (e *Extractor) extractSkills(d *document) ([]models.SkillGroup, models.SkillSet) {
	groups := []models.SkillGroup{}
	var found []string

	for _, cm := range e.skills {
		var hits []string
		for _, m := range cm.matchers {
			if m.pattern.MatchString(d.lower) {
				hits = append(hits, m.token)
			}
		}
		if len(hits) > 0 {
			groups = append(groups, models.SkillGroup{Category: cm.name, Skills: hits})
			found = append(found, hits...)
		}
	}
	return groups, models.NewSkillSet(found...)
}
