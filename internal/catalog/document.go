package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/agent-skills/internal/categories"
)

// SkillMetadata describes one skill in the registry.
type SkillMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Path        string   `json:"path"`
	Files       []string `json:"files"`
	Author      string   `json:"author,omitempty"`
	Version     string   `json:"version,omitempty"`
}

// SkillName returns the skill's unique name.
func (m SkillMetadata) SkillName() string { return m.Name }

// CategoryID returns the skill's category id.
func (m SkillMetadata) CategoryID() string { return m.Category }

// CategoryMetadata describes one category in the registry.
type CategoryMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
}

// Document is a registry snapshot.
type Document struct {
	Version     string                      `json:"version"`
	GeneratedAt string                      `json:"generatedAt"`
	BaseURL     string                      `json:"baseUrl"`
	Categories  map[string]CategoryMetadata `json:"categories"`
	Skills      []SkillMetadata             `json:"skills"`
}

// generatedLayouts are the ISO-8601 forms accepted for generatedAt.
var generatedLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// GeneratedTime parses GeneratedAt. It returns the zero time when the value
// is not in a recognized ISO-8601 form.
func (d *Document) GeneratedTime() time.Time {
	for _, layout := range generatedLayouts {
		if t, err := time.Parse(layout, d.GeneratedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Find returns the skill named name.
func (d *Document) Find(name string) (*SkillMetadata, bool) {
	for i := range d.Skills {
		if d.Skills[i].Name == name {
			return &d.Skills[i], true
		}
	}
	return nil, false
}

// CategoryList returns the document's categories sorted by priority, then
// id. Categories without a priority sort at categories.DefaultPriority.
func (d *Document) CategoryList() []categories.Info {
	list := make([]categories.Info, 0, len(d.Categories))
	for id, meta := range d.Categories {
		info := categories.Info{
			ID:          id,
			Name:        meta.Name,
			Description: meta.Description,
			Priority:    categories.DefaultPriority,
		}
		if info.Name == "" {
			info.Name = categories.FormatName(id)
		}
		if meta.Priority != nil {
			info.Priority = *meta.Priority
		}
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// CheckNames returns an error naming the first duplicated skill.
func (d *Document) CheckNames() error {
	seen := make(map[string]bool, len(d.Skills))
	for _, s := range d.Skills {
		if seen[s.Name] {
			return fmt.Errorf("duplicate skill name %q in registry", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// SemVer parses the document version. Registry versions are informational,
// so callers typically only log a parse failure.
func (d *Document) SemVer() (*semver.Version, error) {
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("parsing registry version %q: %w", d.Version, err)
	}
	return v, nil
}
