package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agent-skills/internal/categories"
)

// Discover walks a local skills tree. Skills inside "(id)" folders belong
// to that category; skill folders at the root are uncategorized. A missing
// root yields no skills.
func Discover(root string) ([]Skill, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading skills root %s: %w", root, err)
	}

	var skills []Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())

		if id, ok := categories.ExtractID(entry.Name()); ok {
			found, err := scanCategory(dir, id)
			if err != nil {
				return nil, err
			}
			skills = append(skills, found...)
			continue
		}

		if HasMarker(dir) {
			s, err := ReadSkill(dir, categories.UncategorizedID)
			if err != nil {
				return nil, err
			}
			skills = append(skills, *s)
		}
	}
	return skills, nil
}

func scanCategory(dir, id string) ([]Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading category %s: %w", dir, err)
	}

	var skills []Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillDir := filepath.Join(dir, entry.Name())
		if !HasMarker(skillDir) {
			continue
		}
		s, err := ReadSkill(skillDir, id)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *s)
	}
	return skills, nil
}

// FindByName returns the first discovered skill named name.
func FindByName(root, name string) (*Skill, error) {
	skills, err := Discover(root)
	if err != nil {
		return nil, err
	}
	for i := range skills {
		if skills[i].Name == name {
			return &skills[i], nil
		}
	}
	return nil, fmt.Errorf("skill %q not found in %s", name, root)
}
