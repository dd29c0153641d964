package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolebot/models"
)

func TestLoad_EmbeddedDefault(t *testing.T) {
	catalog, err := Load("")

	require.NoError(t, err)
	require.Len(t, catalog.Categories, 3)
	assert.Equal(t, "Programming Languages", catalog.Categories[0].Name)
	assert.Equal(t, "Operating Systems", catalog.Categories[1].Name)
	assert.Equal(t, "Area of Interest", catalog.Categories[2].Name)
	assert.Equal(t, models.RoleEntry{Emoji: "🐍", RoleName: "python"}, catalog.Categories[0].Entries[0])

	index := models.NewRoleIndex(catalog)
	assert.Equal(t, "python", index.Lookup("🐍").MustGet())
	assert.Equal(t, "web dev", index.Lookup("🌍").MustGet())
	assert.Equal(t, "linux", index.Lookup("🐧").MustGet())
	assert.False(t, index.Lookup("❓").IsPresent())
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	content := `categories:
  - name: Editors
    roles:
      - emoji: "📝"
        role: vim
      - emoji: "🧠"
        role: emacs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := Load(path)

	require.NoError(t, err)
	require.Len(t, catalog.Categories, 1)
	assert.Equal(t, []models.RoleEntry{
		{Emoji: "📝", RoleName: "vim"},
		{Emoji: "🧠", RoleName: "emacs"},
	}, catalog.Categories[0].Entries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open role catalog")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedErr string
	}{
		{
			name:        "empty document",
			content:     "",
			expectedErr: "role catalog is empty",
		},
		{
			name:        "no categories",
			content:     "categories: []\n",
			expectedErr: "no categories",
		},
		{
			name:        "unknown field",
			content:     "categories:\n  - name: A\n    colour: red\n",
			expectedErr: "failed to decode role catalog",
		},
		{
			name:        "empty category name",
			content:     "categories:\n  - name: \"\"\n    roles:\n      - emoji: \"🐍\"\n        role: python\n",
			expectedErr: "empty name",
		},
		{
			name:        "category without roles",
			content:     "categories:\n  - name: A\n",
			expectedErr: "has no roles",
		},
		{
			name:        "empty role name",
			content:     "categories:\n  - name: A\n    roles:\n      - emoji: \"🐍\"\n        role: \"\"\n",
			expectedErr: "empty emoji or role",
		},
		{
			name: "duplicate emoji inside a category",
			content: "categories:\n  - name: A\n    roles:\n" +
				"      - emoji: \"🐍\"\n        role: python\n" +
				"      - emoji: \"🐍\"\n        role: snake\n",
			expectedErr: "more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestParse_TooManyEntries(t *testing.T) {
	var b strings.Builder
	b.WriteString("categories:\n  - name: Big\n    roles:\n")
	for i := 0; i <= MaxEntriesPerCategory; i++ {
		b.WriteString("      - emoji: \"e")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString("\"\n        role: r\n")
	}

	_, err := Parse(strings.NewReader(b.String()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 24 fit in one menu")
}

func TestParse_ConflictingDuplicateAcrossCategoriesIsLastWriteWins(t *testing.T) {
	content := `categories:
  - name: A
    roles:
      - emoji: "🌍"
        role: web dev
  - name: B
    roles:
      - emoji: "🌍"
        role: geography
`
	catalog, err := Parse(strings.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, "geography", models.NewRoleIndex(catalog).Lookup("🌍").MustGet())
}
