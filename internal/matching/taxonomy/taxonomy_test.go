package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTokensAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, c := range Default().Categories() {
		for _, s := range c.Skills {
			prev, dup := seen[s]
			assert.Falsef(t, dup, "%q listed in %q and %q", s, prev, c.Name)
			seen[s] = c.Name
		}
	}
	assert.Equal(t, len(seen), Default().Len())
}

func TestCategoryOf(t *testing.T) {
	tax := Default()

	tests := []struct {
		token    string
		category string
		found    bool
	}{
		{"python", "programming_languages", true},
		{" Django ", "web_development", true},
		{"POSTGRESQL", "databases", true},
		{"java", "jvm_languages", true},
		{"docker", "cloud_platforms", true},
		{"cobol", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := tax.CategoryOf(tt.token)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.category, got)
		})
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]Category{
		{Name: "a", Skills: []string{"go", "rust"}},
		{Name: "b", Skills: []string{"Go"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"go"`)

	_, err = New([]Category{{Name: "a", Skills: []string{"x"}}, {Name: "a", Skills: []string{"y"}}})
	assert.Error(t, err)

	_, err = New([]Category{{Name: "", Skills: []string{"x"}}})
	assert.Error(t, err)

	_, err = New([]Category{{Name: "a", Skills: []string{"  "}}})
	assert.Error(t, err)
}

func TestCategoriesKeepDeclarationOrder(t *testing.T) {
	tax := MustNew([]Category{
		{Name: "second", Skills: []string{"B", "a"}},
		{Name: "first", Skills: []string{"c"}},
	})
	cats := tax.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "second", cats[0].Name)
	assert.Equal(t, []string{"b", "a"}, cats[0].Skills)
	assert.Equal(t, "first", cats[1].Name)
}

func TestDefaultCategoriesIsACopy(t *testing.T) {
	cats := DefaultCategories()
	cats[0].Skills[0] = "mutated"
	_, ok := Default().CategoryOf("python")
	assert.True(t, ok)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew([]Category{{Name: "a", Skills: []string{"x", "x"}}})
	})
}
