package installer

import "github.com/agentx-labs/agent-skills/internal/agents"

// Method is how a bundle is placed into an agent directory.
type Method string

const (
	Symlink Method = "symlink"
	Copy    Method = "copy"
)

// ParseMethod converts a string to a Method, returning false if invalid.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "symlink":
		return Symlink, true
	case "copy":
		return Copy, true
	default:
		return "", false
	}
}

// Options selects targets and placement for Install.
type Options struct {
	Targets []string
	Method  Method
	Scope   agents.Scope
}

// Result is the outcome of installing one skill for one agent.
type Result struct {
	Target     string `json:"target"`
	TargetName string `json:"targetName"`
	Skill      string `json:"skill"`
	Path       string `json:"path"`
	// Method is how the bundle actually landed, Copy after a symlink fallback.
	Method        Method `json:"method"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	SymlinkFailed bool   `json:"symlinkFailed,omitempty"`
	UsedFallback  bool   `json:"usedFallback,omitempty"`
	AlreadyExists bool   `json:"alreadyExists,omitempty"`
}

// RemoveResult is the outcome of removing a skill from one agent.
type RemoveResult struct {
	Target     string `json:"target"`
	TargetName string `json:"targetName"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}
