// Package taxonomy holds the curated skill categories used for resume skill
// extraction and for the scorer's category bonus.
package taxonomy

import (
	"fmt"
	"strings"
)

// Category is a named bucket of canonical skill tokens.
type Category struct {
	Name   string
	Skills []string
}

// Taxonomy is an ordered list of categories in which every token belongs to
// exactly one category. It is read-only after construction.
type Taxonomy struct {
	categories []Category
	index      map[string]int
}

// New validates categories and builds the lookup index. Tokens are
// case-folded; a token listed twice, in the same or another category, is an
// error.
func New(categories []Category) (*Taxonomy, error) {
	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int),
	}
	names := make(map[string]struct{}, len(categories))

	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("category %q declared twice", name)
		}
		names[name] = struct{}{}

		skills := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			token := strings.Join(strings.Fields(strings.ToLower(s)), " ")
			if token == "" {
				return nil, fmt.Errorf("category %q has an empty skill", name)
			}
			if prev, dup := t.index[token]; dup {
				return nil, fmt.Errorf("skill %q in both %q and %q", token, t.categories[prev].Name, name)
			}
			t.index[token] = len(t.categories)
			skills = append(skills, token)
		}
		t.categories = append(t.categories, Category{Name: name, Skills: skills})
	}
	return t, nil
}

// MustNew is New for static tables.
func MustNew(categories []Category) *Taxonomy {
	t, err := New(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// CategoryOf returns the category holding token.
func (t *Taxonomy) CategoryOf(token string) (string, bool) {
	i, ok := t.index[strings.Join(strings.Fields(strings.ToLower(token)), " ")]
	if !ok {
		return "", false
	}
	return t.categories[i].Name, true
}

// Categories returns the categories in declaration order. Callers must not
// modify the returned slices.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}

// Len is the number of distinct tokens.
func (t *Taxonomy) Len() int { return len(t.index) }
