package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

var (
	frontMatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---`)
	nameLine           = regexp.MustCompile(`(?m)^name:\s*(.+)$`)
	descriptionLine    = regexp.MustCompile(`(?m)^description:\s*(.+)$`)
	authorLine         = regexp.MustCompile(`(?m)^\s*author:\s*(.+)$`)
	versionLine        = regexp.MustCompile(`(?m)^\s*version:\s*['"]?([^'"\r\n]+)['"]?\s*$`)
)

// ParseFrontMatter extracts the leading "---" delimited block of content.
// Content without a block yields a zero FrontMatter. Blocks
// that are not valid YAML (unquoted colons in descriptions are common) are
// read line by line instead.
func ParseFrontMatter(content []byte) FrontMatter {
	m := frontMatterPattern.FindSubmatch(content)
	if m == nil {
		return FrontMatter{}
	}
	block := m[1]

	var fm FrontMatter
	if err := yaml.Unmarshal(block, &fm); err == nil {
		fm.Name = strings.TrimSpace(fm.Name)
		fm.Description = strings.TrimSpace(fm.Description)
		return fm
	}

	return FrontMatter{
		Name:        firstGroup(nameLine, block),
		Description: firstGroup(descriptionLine, block),
		Author:      firstGroup(authorLine, block),
		Version:     firstGroup(versionLine, block),
	}
}

func firstGroup(re *regexp.Regexp, data []byte) string {
	m := re.FindSubmatch(data)
	if m == nil {
		return ""
	}
	return string(bytes.TrimSpace(m[1]))
}

// HasMarker reports whether dir contains a SKILL.md file.
func HasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && !info.IsDir()
}

// ReadSkill reads dir/SKILL.md and returns the skill it describes.
func ReadSkill(dir, category string) (*Skill, error) {
	data, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s has no %s", dir, MarkerFile)
		}
		return nil, fmt.Errorf("reading %s: %w", MarkerFile, err)
	}

	fm := ParseFrontMatter(data)
	skill := &Skill{
		Name:        fm.Name,
		Description: fm.Description,
		Path:        dir,
		Category:    category,
	}
	if skill.Name == "" {
		skill.Name = filepath.Base(dir)
	}
	if skill.Description == "" {
		skill.Description = DefaultDescription
	}
	return skill, nil
}
