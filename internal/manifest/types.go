package manifest

const (
	// MarkerFile is the file whose presence makes a directory a skill.
	MarkerFile = "SKILL.md"

	// DefaultDescription is used when SKILL.md has no description.
	DefaultDescription = "No description"
)

// FrontMatter holds the fields read from the SKILL.md front matter block.
type FrontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Author      string `yaml:"author,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// Skill is a skill directory on local disk.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Category    string `json:"category,omitempty"`
}

// SkillName returns the skill's name.
func (s Skill) SkillName() string { return s.Name }

// CategoryID returns the skill's category id.
func (s Skill) CategoryID() string { return s.Category }
