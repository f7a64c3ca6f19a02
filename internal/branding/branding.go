// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building; Go's
// //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	CacheDir    string `yaml:"cache_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GitHubRepo  string `yaml:"github_repo"`
	CatalogPath string `yaml:"catalog_path"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "agent-skills",
			DisplayName: "Agent Skills",
			Description: "Install curated skills into AI coding agents",
			HomeDir:     ".agent-skills",
			CacheDir:    "agent-skills",
			EnvPrefix:   "AGENT_SKILLS",
			GitHubRepo:  "tech-leads-club/agent-skills",
			CatalogPath: "packages/skills-catalog",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "agent-skills").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".agent-skills").
func HomeDir() string { load(); return defaults.HomeDir }

// CacheDir returns the directory name used under the user cache root.
func CacheDir() string { load(); return defaults.CacheDir }

// EnvPrefix returns the environment variable prefix (e.g., "AGENT_SKILLS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string hosting the skills catalog.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// CatalogPath returns the catalog directory relative to the repo root.
func CatalogPath() string { load(); return defaults.CatalogPath }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("CDN_REF") → "AGENT_SKILLS_CDN_REF".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
