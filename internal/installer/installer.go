package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agent-skills/internal/agents"
	"github.com/agentx-labs/agent-skills/internal/lockfile"
	"github.com/agentx-labs/agent-skills/internal/logger"
	"github.com/agentx-labs/agent-skills/internal/manifest"
	"github.com/agentx-labs/agent-skills/internal/pathsafe"
	"github.com/agentx-labs/agent-skills/internal/platform"
)

// CanonicalDir holds the canonical bundle copies, relative to the project
// root or home directory.
var CanonicalDir = filepath.Join(".agents", "skills")

// Installer installs and removes skills for a fixed agent table.
type Installer struct {
	table     *agents.Table
	tracker   lockfile.Tracker
	symlink   func(target, link string) error
	copyDir   func(src, dst string) error
	removeAll func(path string) error
}

// Option configures an Installer.
type Option func(*Installer)

// WithTracker records successful installs and removals.
func WithTracker(t lockfile.Tracker) Option {
	return func(in *Installer) {
		in.tracker = t
	}
}

// WithSymlinkFunc replaces link creation (useful for testing fallbacks).
func WithSymlinkFunc(fn func(target, link string) error) Option {
	return func(in *Installer) {
		in.symlink = fn
	}
}

// WithRemoveFunc replaces recursive removal (useful for testing failures).
func WithRemoveFunc(fn func(path string) error) Option {
	return func(in *Installer) {
		in.removeAll = fn
	}
}

// New creates an Installer over table.
func New(table *agents.Table, opts ...Option) *Installer {
	in := &Installer{
		table:     table,
		tracker:   lockfile.Nop{},
		symlink:   platform.Symlink,
		copyDir:   platform.ReplaceDir,
		removeAll: os.RemoveAll,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Install installs every skill for every target, target-major. One result
// is returned per pair, in order. Failures are reported in the result and
// never stop the batch.
func (in *Installer) Install(skills []manifest.Skill, opts Options) []Result {
	method := opts.Method
	if method == "" {
		method = Symlink
	}
	scope := opts.Scope
	if scope == "" {
		scope = agents.Local
	}

	results := make([]Result, 0, len(opts.Targets)*len(skills))
	for _, id := range opts.Targets {
		desc, err := in.table.Get(id)
		if err != nil {
			for _, s := range skills {
				results = append(results, Result{Target: id, Skill: s.Name, Method: method, Error: err.Error()})
			}
			continue
		}
		targetDir, err := in.table.SkillsDir(desc.ID, scope)
		if err != nil {
			for _, s := range skills {
				results = append(results, Result{Target: id, TargetName: desc.DisplayName, Skill: s.Name, Method: method, Error: err.Error()})
			}
			continue
		}

		for _, s := range skills {
			r := in.installOne(s, desc, targetDir, method, scope)
			results = append(results, r)
			if r.Success && !r.AlreadyExists {
				if err := in.tracker.RecordInstalled(s.Name, string(scope)); err != nil {
					logger.Warnf("Failed to record %s in lock file: %v", s.Name, err)
				}
			}
		}
	}
	return results
}

func (in *Installer) installOne(s manifest.Skill, desc agents.Descriptor, targetDir string, method Method, scope agents.Scope) Result {
	safe := pathsafe.SanitizeName(s.Name)
	dest := filepath.Join(targetDir, safe)
	r := Result{
		Target:     desc.ID,
		TargetName: desc.DisplayName,
		Skill:      s.Name,
		Path:       dest,
		Method:     method,
	}

	if err := in.validate(targetDir, dest, scope); err != nil {
		r.Error = err.Error()
		return r
	}

	if platform.Exists(dest) {
		r.Success = true
		r.AlreadyExists = true
		return r
	}

	if s.Path == "" {
		r.Error = fmt.Sprintf("skill %s has no local source", s.Name)
		return r
	}

	var err error
	switch {
	case method == Symlink && scope == agents.Global:
		err = in.linkOrCopy(s.Path, s.Path, dest, &r)
	case method == Symlink:
		err = in.installLocalLink(s, safe, dest, &r)
	default:
		err = in.copyDir(s.Path, dest)
	}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.Success = true
	return r
}

// validate rejects destinations outside the target directory. Local
// installs may also land anywhere inside the project root.
func (in *Installer) validate(targetDir, dest string, scope agents.Scope) error {
	if pathsafe.IsPathSafe(targetDir, dest) {
		return nil
	}
	if scope == agents.Local && pathsafe.IsPathSafe(in.table.ProjectRoot(), dest) {
		return nil
	}
	return &pathsafe.UnsafePathError{Base: targetDir, Target: dest}
}

// installLocalLink copies the bundle to its canonical project location and
// links dest to that copy.
func (in *Installer) installLocalLink(s manifest.Skill, safe, dest string, r *Result) error {
	canonical, err := pathsafe.Join(filepath.Join(in.table.ProjectRoot(), CanonicalDir), safe)
	if err != nil {
		return err
	}

	if !samePath(s.Path, canonical) {
		if err := in.copyDir(s.Path, canonical); err != nil {
			return fmt.Errorf("creating canonical copy: %w", err)
		}
	}
	return in.linkOrCopy(canonical, s.Path, dest, r)
}

// linkOrCopy links dest to target, copying source to dest when the link
// cannot be made.
func (in *Installer) linkOrCopy(target, source, dest string, r *Result) error {
	err := in.symlink(target, dest)
	if err == nil {
		r.Method = Symlink
		return nil
	}

	logger.Debugf("Symlink %s failed, copying instead: %v", dest, err)
	if err := in.copyDir(source, dest); err != nil {
		return err
	}
	r.Method = Copy
	r.SymlinkFailed = true
	r.UsedFallback = true
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// InstallPath returns where name is installed for target in scope.
func (in *Installer) InstallPath(name, target string, scope agents.Scope) (string, error) {
	dir, err := in.table.SkillsDir(target, scope)
	if err != nil {
		return "", err
	}
	return pathsafe.Join(dir, pathsafe.SanitizeName(name))
}

// CanonicalPath returns the canonical copy location of name: under the
// project root for local scope, under the home directory for global scope.
func (in *Installer) CanonicalPath(name string, scope agents.Scope) (string, error) {
	base := in.table.ProjectRoot()
	if scope == agents.Global {
		base = in.table.Home()
	}
	return pathsafe.Join(filepath.Join(base, CanonicalDir), pathsafe.SanitizeName(name))
}

// IsInstalled reports whether anything exists at name's install path.
func (in *Installer) IsInstalled(name, target string, scope agents.Scope) bool {
	path, err := in.InstallPath(name, target, scope)
	if err != nil {
		return false
	}
	return platform.Exists(path)
}

// ListInstalled returns the names of directories and symlinks in target's
// skills directory. A missing directory yields an empty list.
func (in *Installer) ListInstalled(target string, scope agents.Scope) ([]string, error) {
	dir, err := in.table.SkillsDir(target, scope)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Type()&fs.ModeSymlink != 0 {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Remove deletes the canonical copy of name and its installation at each
// target. Each target's failure is reported independently.
func (in *Installer) Remove(name string, targets []string, scope agents.Scope) []RemoveResult {
	if canonical, err := in.CanonicalPath(name, scope); err == nil {
		if err := in.removeAll(canonical); err != nil {
			logger.Debugf("Removing canonical copy %s: %v", canonical, err)
		}
	}

	results := make([]RemoveResult, 0, len(targets))
	for _, id := range targets {
		r := RemoveResult{Target: id}
		if desc, err := in.table.Get(id); err == nil {
			r.TargetName = desc.DisplayName
		}

		path, err := in.InstallPath(name, id, scope)
		if err == nil {
			err = in.removeAll(path)
		}
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Success = true
		}
		results = append(results, r)
	}

	if err := in.tracker.RecordRemoved(name); err != nil {
		logger.Warnf("Failed to update lock file for %s: %v", name, err)
	}
	return results
}
