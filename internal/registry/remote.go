package registry

import (
	"context"
	"fmt"

	"github.com/agentx-labs/agent-skills/internal/catalog"
	"github.com/agentx-labs/agent-skills/internal/categories"
	"github.com/agentx-labs/agent-skills/internal/manifest"
)

// SkillMetadata returns the registry entry for name.
func (c *Client) SkillMetadata(ctx context.Context, name string) (*catalog.SkillMetadata, error) {
	doc := c.FetchRegistry(ctx, false)
	if doc == nil {
		return nil, ErrUnavailable
	}
	meta, ok := doc.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, name)
	}
	return meta, nil
}

// RemoteSkills lists every skill in the registry. Path is the cached bundle
// directory for skills already downloaded and empty otherwise.
func (c *Client) RemoteSkills(ctx context.Context) []manifest.Skill {
	doc := c.FetchRegistry(ctx, false)
	if doc == nil {
		return nil
	}

	skills := make([]manifest.Skill, 0, len(doc.Skills))
	for _, meta := range doc.Skills {
		s := manifest.Skill{
			Name:        meta.Name,
			Description: meta.Description,
			Category:    meta.Category,
		}
		if c.store.IsSkillCached(meta.Name) {
			s.Path, _ = c.store.SkillPath(meta.Name)
		}
		skills = append(skills, s)
	}
	return skills
}

// RemoteCategories lists the registry's categories by ascending priority.
func (c *Client) RemoteCategories(ctx context.Context) []categories.Info {
	doc := c.FetchRegistry(ctx, false)
	if doc == nil {
		return nil
	}
	return doc.CategoryList()
}
