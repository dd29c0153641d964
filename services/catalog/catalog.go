package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"rolebot/core/log"
	"rolebot/models"
)

// MaxEntriesPerCategory keeps a published menu within Discord's 25-field embed limit;
// one field is taken by the menu header.
const MaxEntriesPerCategory = 24

//go:embed default_roles.yaml
var defaultCatalog []byte

// Load reads the role catalog from path, or the embedded default catalog when path is empty
func Load(path string) (models.RoleCatalog, error) {
	if path == "" {
		log.Info("📋 Loading embedded default role catalog")
		return Parse(bytes.NewReader(defaultCatalog))
	}

	log.Info("📋 Loading role catalog from %s", path)
	f, err := os.Open(path)
	if err != nil {
		return models.RoleCatalog{}, fmt.Errorf("failed to open role catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func Parse(r io.Reader) (models.RoleCatalog, error) {
	var catalog models.RoleCatalog

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return models.RoleCatalog{}, fmt.Errorf("role catalog is empty")
		}
		return models.RoleCatalog{}, fmt.Errorf("failed to decode role catalog: %w", err)
	}

	if err := Validate(catalog); err != nil {
		return models.RoleCatalog{}, err
	}

	warnConflicts(catalog)
	return catalog, nil
}

func Validate(catalog models.RoleCatalog) error {
	if len(catalog.Categories) == 0 {
		return fmt.Errorf("role catalog has no categories")
	}

	for i, category := range catalog.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return fmt.Errorf("category %d has an empty name", i)
		}
		if len(category.Entries) == 0 {
			return fmt.Errorf("category %q has no roles", category.Name)
		}
		if len(category.Entries) > MaxEntriesPerCategory {
			return fmt.Errorf("category %q has %d roles, at most %d fit in one menu",
				category.Name, len(category.Entries), MaxEntriesPerCategory)
		}

		seen := make(map[string]bool, len(category.Entries))
		for _, entry := range category.Entries {
			if strings.TrimSpace(entry.Emoji) == "" || strings.TrimSpace(entry.RoleName) == "" {
				return fmt.Errorf("category %q has an entry with an empty emoji or role", category.Name)
			}
			key := models.NormalizeEmoji(entry.Emoji)
			if seen[key] {
				return fmt.Errorf("category %q lists emoji %s more than once", category.Name, entry.Emoji)
			}
			seen[key] = true
		}
	}

	return nil
}

// warnConflicts logs emojis that map to different roles in different categories.
// The flattened index keeps the last mapping.
func warnConflicts(catalog models.RoleCatalog) {
	firstRole := make(map[string]string)
	for _, category := range catalog.Categories {
		for _, entry := range category.Entries {
			key := models.NormalizeEmoji(entry.Emoji)
			if previous, ok := firstRole[key]; ok && previous != entry.RoleName {
				log.Warn("⚠️ Emoji %s maps to %q and %q; %q in category %q wins",
					entry.Emoji, previous, entry.RoleName, entry.RoleName, category.Name)
			}
			firstRole[key] = entry.RoleName
		}
	}
}
