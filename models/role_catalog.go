package models

import (
	"strings"

	"github.com/samber/mo"
)

// RoleEntry maps one reaction emoji to the name of the guild role it grants
type RoleEntry struct {
	Emoji    string `yaml:"emoji"`
	RoleName string `yaml:"role"`
}

// Category is one role menu; each category is published as its own message
type Category struct {
	Name    string      `yaml:"name"`
	Entries []RoleEntry `yaml:"roles"`
}

// RoleCatalog is the ordered set of role menus. It is built once at startup and never mutated.
type RoleCatalog struct {
	Categories []Category `yaml:"categories"`
}

// RoleIndex is the flattened emoji -> role name lookup derived from a RoleCatalog.
// When an emoji appears in several categories the last occurrence wins.
type RoleIndex struct {
	roles  map[string]string
	emojis []string // distinct emojis in first-occurrence order
}

func NewRoleIndex(catalog RoleCatalog) *RoleIndex {
	index := &RoleIndex{roles: make(map[string]string)}
	for _, category := range catalog.Categories {
		for _, entry := range category.Entries {
			key := NormalizeEmoji(entry.Emoji)
			if _, seen := index.roles[key]; !seen {
				index.emojis = append(index.emojis, entry.Emoji)
			}
			index.roles[key] = entry.RoleName
		}
	}
	return index
}

// Lookup returns the role name mapped to emoji, or None when the emoji is not in the catalog
func (i *RoleIndex) Lookup(emoji string) mo.Option[string] {
	roleName, ok := i.roles[NormalizeEmoji(emoji)]
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(roleName)
}

// Entries returns one entry per distinct emoji, in catalog order, resolved through the index
func (i *RoleIndex) Entries() []RoleEntry {
	entries := make([]RoleEntry, 0, len(i.emojis))
	for _, emoji := range i.emojis {
		entries = append(entries, RoleEntry{Emoji: emoji, RoleName: i.roles[NormalizeEmoji(emoji)]})
	}
	return entries
}

func (i *RoleIndex) Len() int {
	return len(i.roles)
}

// NormalizeEmoji strips U+FE0F variation selectors. Discord does not always echo them back
// in reaction payloads, so "🛠️" and "🛠" must resolve to the same entry.
func NormalizeEmoji(emoji string) string {
	return strings.ReplaceAll(strings.TrimSpace(emoji), "\uFE0F", "")
}

// Label renders an entry the way it appears in a published role menu
func (e RoleEntry) Label() string {
	return e.Emoji + " : " + e.RoleName
}
