package categories

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Resolver discovers categories below a local skills root.
type Resolver struct {
	Root string
}

// NewResolver returns a Resolver for the skills tree at root.
func NewResolver(root string) *Resolver {
	return &Resolver{Root: root}
}

// List returns the categories found under the root, sorted by ascending
// priority. Categories without an explicit priority get their discovery
// index; ties keep discovery order. A missing root yields no categories.
func (r *Resolver) List() ([]Info, error) {
	if r == nil || r.Root == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(r.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading skills root %s: %w", r.Root, err)
	}

	md := LoadMetadata(r.Root)

	var result []Info
	index := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, ok := ExtractID(entry.Name())
		if !ok {
			continue
		}

		o := md.lookup(id)
		info := Info{
			ID:          id,
			Name:        o.Name,
			Description: o.Description,
			Priority:    index,
		}
		if info.Name == "" {
			info.Name = FormatName(id)
		}
		if o.Priority != nil {
			info.Priority = *o.Priority
		}
		result = append(result, info)
		index++
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result, nil
}

// Lookup returns the category with the given id.
func (r *Resolver) Lookup(id string) (Info, bool) {
	list, err := r.List()
	if err != nil {
		return Info{}, false
	}
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Info{}, false
}

// CategoryOfSkill returns the id of the category folder holding a skill
// directory named name, or UncategorizedID.
func (r *Resolver) CategoryOfSkill(name string) string {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return UncategorizedID
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, ok := ExtractID(entry.Name())
		if !ok {
			continue
		}
		marker := filepath.Join(r.Root, entry.Name(), name, "SKILL.md")
		if _, err := os.Stat(marker); err == nil {
			return id
		}
	}
	return UncategorizedID
}
