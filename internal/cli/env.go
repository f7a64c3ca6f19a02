package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/agentx-labs/agent-skills/internal/agents"
	"github.com/agentx-labs/agent-skills/internal/branding"
	"github.com/agentx-labs/agent-skills/internal/cache"
	"github.com/agentx-labs/agent-skills/internal/categories"
	"github.com/agentx-labs/agent-skills/internal/config"
	"github.com/agentx-labs/agent-skills/internal/installer"
	"github.com/agentx-labs/agent-skills/internal/lockfile"
	"github.com/agentx-labs/agent-skills/internal/manifest"
	"github.com/agentx-labs/agent-skills/internal/project"
	"github.com/agentx-labs/agent-skills/internal/registry"
)

// engine bundles the collaborators a command needs.
type engine struct {
	settings    config.Settings
	store       *cache.Store
	client      *registry.Client
	table       *agents.Table
	home        string
	projectRoot string
	source      string
}

func newEngine() (*engine, error) {
	s := config.Current()

	base := s.CacheDir
	if base == "" {
		base = cache.DefaultBase()
	}
	store := cache.New(base, cache.WithTTL(s.CacheTTL))

	policy := registry.DefaultRetryPolicy()
	if s.MaxRetries > 0 {
		policy.MaxAttempts = s.MaxRetries
	}
	if s.RetryBaseDelay > 0 {
		policy.BaseDelay = s.RetryBaseDelay
	}

	ref := registry.DefaultRef(buildVersion, s.CDNRef)
	client := registry.New(store,
		registry.WithEndpoints(registry.DefaultEndpoints(ref)...),
		registry.WithRetryPolicy(policy),
		registry.WithTimeout(s.FetchTimeout),
		registry.WithConcurrency(s.MaxConcurrentDownloads),
		registry.WithUserAgent(branding.CLIName()+"/"+buildVersion),
	)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	root, err := project.FindRootFromWd()
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	return &engine{
		settings:    s,
		store:       store,
		client:      client,
		table:       agents.NewTable(home, root),
		home:        home,
		projectRoot: root,
		source:      sourceFlag,
	}, nil
}

// installer returns an Installer; local installs are tracked in the
// project's lock file.
func (e *engine) installer(scope agents.Scope) *installer.Installer {
	var tracker lockfile.Tracker = lockfile.Nop{}
	if scope == agents.Local {
		tracker = lockfile.NewStore(e.projectRoot)
	}
	return installer.New(e.table, installer.WithTracker(tracker))
}

// skills returns the available skills from the local source or registry.
func (e *engine) skills(ctx context.Context) ([]manifest.Skill, error) {
	if e.source != "" {
		return manifest.Discover(e.source)
	}
	skills := e.client.RemoteSkills(ctx)
	if skills == nil {
		return nil, registry.ErrUnavailable
	}
	return skills, nil
}

// categories returns the known categories from the local source or registry.
func (e *engine) categories(ctx context.Context) ([]categories.Info, error) {
	if e.source != "" {
		return categories.NewResolver(e.source).List()
	}
	return e.client.RemoteCategories(ctx), nil
}

// materialize makes sure every skill has a local bundle directory,
// downloading remote skills into the cache. Skills that cannot be fetched
// are returned with their errors.
func (e *engine) materialize(ctx context.Context, skills []manifest.Skill) ([]manifest.Skill, error) {
	ready := make([]manifest.Skill, 0, len(skills))
	var errs []error
	for _, s := range skills {
		if s.Path != "" && (e.source != "" || manifest.HasMarker(s.Path)) {
			ready = append(ready, s)
			continue
		}
		path, err := e.client.EnsureSkillDownloaded(ctx, s.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		s.Path = path
		ready = append(ready, s)
	}
	return ready, errors.Join(errs...)
}

// resolveTargets validates explicit agent ids or falls back to detection.
func (e *engine) resolveTargets(explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		if err := e.table.Validate(explicit); err != nil {
			return nil, err
		}
		return explicit, nil
	}

	detected := e.table.Detect(agents.DefaultDetectors(e.home, e.projectRoot))
	if len(detected) == 0 {
		return nil, fmt.Errorf("no agents detected; pass --agent (one of: %v)", e.table.IDs())
	}
	return detected, nil
}

func scopeOf(global bool) agents.Scope {
	if global {
		return agents.Global
	}
	return agents.Local
}
