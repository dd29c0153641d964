package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() RoleCatalog {
	return RoleCatalog{
		Categories: []Category{
			{
				Name: "Programming Languages",
				Entries: []RoleEntry{
					{Emoji: "🐍", RoleName: "python"},
					{Emoji: "🌍", RoleName: "web dev"},
					{Emoji: "🛠️", RoleName: "backend dev"},
				},
			},
			{
				Name: "Area of Interest",
				Entries: []RoleEntry{
					{Emoji: "🌍", RoleName: "web dev"},
					{Emoji: "⚙️", RoleName: "systems engineering"},
				},
			},
		},
	}
}

func TestRoleIndex_Lookup(t *testing.T) {
	index := NewRoleIndex(testCatalog())

	t.Run("known emoji resolves deterministically", func(t *testing.T) {
		for _, emoji := range []string{"🐍", "🌍", "🛠️", "⚙️"} {
			first := index.Lookup(emoji)
			require.True(t, first.IsPresent(), "emoji %s should be present", emoji)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first.MustGet(), index.Lookup(emoji).MustGet())
			}
		}
		assert.Equal(t, "python", index.Lookup("🐍").MustGet())
	})

	t.Run("unknown emoji is not found", func(t *testing.T) {
		assert.False(t, index.Lookup("❓").IsPresent())
		assert.False(t, index.Lookup("").IsPresent())
	})

	t.Run("variation selector is ignored", func(t *testing.T) {
		assert.Equal(t, "backend dev", index.Lookup("🛠").MustGet())
		assert.Equal(t, "systems engineering", index.Lookup("⚙").MustGet())
	})
}

func TestRoleIndex_LastWriteWins(t *testing.T) {
	catalog := RoleCatalog{
		Categories: []Category{
			{Name: "A", Entries: []RoleEntry{{Emoji: "🌍", RoleName: "web dev"}}},
			{Name: "B", Entries: []RoleEntry{{Emoji: "🌍", RoleName: "geography"}}},
		},
	}

	index := NewRoleIndex(catalog)

	assert.Equal(t, "geography", index.Lookup("🌍").MustGet())
	assert.Equal(t, 1, index.Len())
}

func TestRoleIndex_Entries(t *testing.T) {
	index := NewRoleIndex(testCatalog())

	entries := index.Entries()

	require.Len(t, entries, 4)
	assert.Equal(t, RoleEntry{Emoji: "🐍", RoleName: "python"}, entries[0])
	assert.Equal(t, RoleEntry{Emoji: "🌍", RoleName: "web dev"}, entries[1])
	assert.Equal(t, RoleEntry{Emoji: "🛠️", RoleName: "backend dev"}, entries[2])
	assert.Equal(t, RoleEntry{Emoji: "⚙️", RoleName: "systems engineering"}, entries[3])
}

func TestRoleEntry_Label(t *testing.T) {
	assert.Equal(t, "🐍 : python", RoleEntry{Emoji: "🐍", RoleName: "python"}.Label())
}
