package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/agent-skills/internal/branding"
)

const (
	registryFile = "skills-registry.json"
	skillsFolder = "skills"

	primaryHost = "https://cdn.jsdelivr.net/gh"
	mirrorHost  = "https://raw.githubusercontent.com"
)

// Endpoint is one source of the registry document and bundle files.
type Endpoint struct {
	Name          string
	RegistryURL   string
	SkillsBaseURL string
}

// FileURL returns the URL of file inside the bundle stored at skillPath.
func (e Endpoint) FileURL(skillPath, file string) string {
	return strings.TrimSuffix(e.SkillsBaseURL, "/") + "/" + strings.Trim(skillPath, "/") + "/" + file
}

// NewEndpoint builds an endpoint whose catalog lives at catalogBase.
func NewEndpoint(name, catalogBase string) Endpoint {
	base := strings.TrimSuffix(catalogBase, "/")
	return Endpoint{
		Name:          name,
		RegistryURL:   base + "/" + registryFile,
		SkillsBaseURL: base + "/" + skillsFolder,
	}
}

// DefaultEndpoints returns the jsDelivr CDN followed by the raw GitHub
// mirror, both pinned to ref.
func DefaultEndpoints(ref string) []Endpoint {
	repo := branding.GitHubRepo()
	path := branding.CatalogPath()
	return []Endpoint{
		NewEndpoint("jsdelivr", fmt.Sprintf("%s/%s@%s/%s", primaryHost, repo, ref, path)),
		NewEndpoint("github", fmt.Sprintf("%s/%s/%s/%s", mirrorHost, repo, ref, path)),
	}
}

// DefaultRef returns the git ref the CDN is pinned to: override when set,
// otherwise the release tag matching version, otherwise "main" for
// development builds.
func DefaultRef(version, override string) string {
	if override != "" {
		return override
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return "main"
	}
	return "v" + v.String()
}
