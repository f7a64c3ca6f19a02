package agents

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownTarget is returned for an agent id not in the table.
var ErrUnknownTarget = errors.New("unknown agent")

// Scope selects project-local or user-global installation.
type Scope string

const (
	Local  Scope = "local"
	Global Scope = "global"
)

// ParseScope converts a string to a Scope, returning false if invalid.
func ParseScope(s string) (Scope, bool) {
	switch s {
	case "local":
		return Local, true
	case "global":
		return Global, true
	default:
		return "", false
	}
}

// Descriptor is the static configuration of one agent.
type Descriptor struct {
	ID          string
	DisplayName string
	Description string
	// LocalSkillsDir is relative to the project root.
	LocalSkillsDir string
	// GlobalSkillsDir is absolute, under the user's home.
	GlobalSkillsDir string
}

// definition is a built-in agent with home-relative directories and the
// marker paths that reveal an installation.
type definition struct {
	id, displayName, description string
	local, global                string
	homeMarkers, projectMarkers  []string
}

func builtin(id, displayName, description, local, global string, homeMarkers, projectMarkers []string) definition {
	return definition{id, displayName, description, local, global, homeMarkers, projectMarkers}
}

func dotDir(name string) []string { return []string{name} }

var definitions = []definition{
	builtin("cursor", "Cursor", "AI-first code editor built on VS Code",
		".cursor/skills", ".cursor/skills", dotDir(".cursor"), dotDir(".cursor")),
	builtin("claude-code", "Claude Code", "Anthropic's agentic coding tool",
		".claude/skills", ".claude/skills", dotDir(".claude"), dotDir(".claude")),
	builtin("github-copilot", "GitHub Copilot", "AI pair programmer by GitHub/Microsoft",
		".github/skills", ".copilot/skills", dotDir(".copilot"), dotDir(".github")),
	builtin("windsurf", "Windsurf", "AI IDE with Cascade flow (Codeium)",
		".windsurf/skills", ".codeium/windsurf/skills", dotDir(".codeium/windsurf"), dotDir(".windsurf")),
	builtin("cline", "Cline", "Autonomous AI coding agent for VS Code",
		".cline/skills", ".cline/skills", dotDir(".cline"), dotDir(".cline")),
	builtin("aider", "Aider", "AI pair programming in terminal",
		".aider/skills", ".aider/skills", dotDir(".aider"), dotDir(".aider")),
	builtin("codex", "OpenAI Codex", "OpenAI's coding agent",
		".codex/skills", ".codex/skills", dotDir(".codex"), dotDir(".codex")),
	builtin("gemini", "Gemini CLI", "Google's AI coding assistant",
		".gemini/skills", ".gemini/skills", dotDir(".gemini"), dotDir(".gemini")),
	builtin("antigravity", "Antigravity", "Google's agentic coding (VS Code)",
		".agent/skills", ".gemini/antigravity/global_skills", dotDir(".gemini/antigravity"), dotDir(".agent")),
	builtin("roo", "Roo Code", "AI coding assistant for VS Code",
		".roo/skills", ".roo/skills", dotDir(".roo"), dotDir(".roo")),
	builtin("kilocode", "Kilo Code", "AI coding agent with auto-launch",
		".kilocode/skills", ".kilocode/skills", dotDir(".kilocode"), dotDir(".kilocode")),
	builtin("amazon-q", "Amazon Q", "AWS AI coding assistant",
		".amazonq/skills", ".amazonq/skills", dotDir(".amazonq"), dotDir(".amazonq")),
	builtin("augment", "Augment", "AI code assistant with context engine",
		".augment/skills", ".augment/skills", dotDir(".augment"), dotDir(".augment")),
	builtin("tabnine", "Tabnine", "AI code completions with privacy focus",
		".tabnine/skills", ".tabnine/skills", dotDir(".tabnine"), dotDir(".tabnine")),
	builtin("opencode", "OpenCode", "Open-source AI coding terminal",
		".opencode/skills", ".config/opencode/skills", dotDir(".config/opencode"), []string{".opencode", ".config/opencode"}),
	builtin("sourcegraph", "Sourcegraph Cody", "AI assistant with codebase context",
		".sourcegraph/skills", ".sourcegraph/skills", dotDir(".sourcegraph"), dotDir(".sourcegraph")),
}

// Table is the immutable, ordered set of agent descriptors for one home
// directory and project root.
type Table struct {
	home        string
	projectRoot string
	descriptors []Descriptor
	index       map[string]int
}

// NewTable builds the descriptor table.
func NewTable(home, projectRoot string) *Table {
	t := &Table{
		home:        home,
		projectRoot: projectRoot,
		descriptors: make([]Descriptor, 0, len(definitions)),
		index:       make(map[string]int, len(definitions)),
	}
	for i, def := range definitions {
		t.descriptors = append(t.descriptors, Descriptor{
			ID:              def.id,
			DisplayName:     def.displayName,
			Description:     def.description,
			LocalSkillsDir:  filepath.FromSlash(def.local),
			GlobalSkillsDir: filepath.Join(home, filepath.FromSlash(def.global)),
		})
		t.index[def.id] = i
	}
	return t
}

// Home returns the home directory the table was built for.
func (t *Table) Home() string { return t.home }

// ProjectRoot returns the project root the table was built for.
func (t *Table) ProjectRoot() string { return t.projectRoot }

// Get returns the descriptor for id.
func (t *Table) Get(id string) (Descriptor, error) {
	i, ok := t.index[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return t.descriptors[i], nil
}

// All returns every descriptor in declaration order.
func (t *Table) All() []Descriptor {
	out := make([]Descriptor, len(t.descriptors))
	copy(out, t.descriptors)
	return out
}

// IDs returns every agent id sorted by display name.
func (t *Table) IDs() []string {
	all := t.All()
	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].DisplayName) < strings.ToLower(all[j].DisplayName)
	})
	ids := make([]string, len(all))
	for i, d := range all {
		ids[i] = d.ID
	}
	return ids
}

// Validate returns ErrUnknownTarget for the first id not in the table.
func (t *Table) Validate(ids []string) error {
	for _, id := range ids {
		if _, err := t.Get(id); err != nil {
			return err
		}
	}
	return nil
}

// SkillsDir returns the directory agent id reads skills from in scope.
func (t *Table) SkillsDir(id string, scope Scope) (string, error) {
	d, err := t.Get(id)
	if err != nil {
		return "", err
	}
	if scope == Global {
		return d.GlobalSkillsDir, nil
	}
	return filepath.Join(t.projectRoot, d.LocalSkillsDir), nil
}
