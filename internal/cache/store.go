package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/agentx-labs/agent-skills/internal/branding"
	"github.com/agentx-labs/agent-skills/internal/catalog"
	"github.com/agentx-labs/agent-skills/internal/logger"
	"github.com/agentx-labs/agent-skills/internal/manifest"
	"github.com/agentx-labs/agent-skills/internal/pathsafe"
)

const (
	registryFile = "registry.json"
	skillsDir    = "skills"

	// DefaultTTL is how long a cached registry is considered fresh.
	DefaultTTL = 24 * time.Hour
)

// Entry is the cached registry document with the time it was fetched.
type Entry struct {
	FetchedAt time.Time
	Registry  *catalog.Document
}

type entryJSON struct {
	FetchedAt int64             `json:"fetchedAt"`
	Registry  *catalog.Document `json:"registry"`
}

// MarshalJSON encodes FetchedAt as unix milliseconds.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{FetchedAt: e.FetchedAt.UnixMilli(), Registry: e.Registry})
}

// UnmarshalJSON decodes FetchedAt from unix milliseconds.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.FetchedAt = time.UnixMilli(raw.FetchedAt)
	e.Registry = raw.Registry
	return nil
}

// Store is a cache rooted at a base directory.
type Store struct {
	base string
	ttl  time.Duration
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the registry freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock sets the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store rooted at base.
func New(base string, opts ...Option) *Store {
	s := &Store{
		base: base,
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultBase returns the per-user cache directory.
func DefaultBase() string {
	return filepath.Join(xdg.CacheHome, branding.CacheDir())
}

// Base returns the cache root.
func (s *Store) Base() string { return s.base }

// TTL returns the registry freshness window.
func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) registryPath() string {
	return filepath.Join(s.base, registryFile)
}

// SkillsRoot returns the directory holding downloaded bundles.
func (s *Store) SkillsRoot() string {
	return filepath.Join(s.base, skillsDir)
}

// EnsureDirs creates the cache and bundle directories if needed.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.SkillsRoot(), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}

// ReadRegistry returns the cached entry, or nil when it is missing or
// unreadable.
func (s *Store) ReadRegistry() *Entry {
	data, err := os.ReadFile(s.registryPath())
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debugf("Reading registry cache: %v", err)
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Debugf("Ignoring corrupt registry cache: %v", err)
		return nil
	}
	if entry.Registry == nil {
		return nil
	}
	return &entry
}

// WriteRegistry replaces the cached document, stamping it with the current
// time.
func (s *Store) WriteRegistry(doc *catalog.Document) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(Entry{FetchedAt: s.now(), Registry: doc}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry cache: %w", err)
	}
	if err := os.WriteFile(s.registryPath(), data, 0644); err != nil {
		return fmt.Errorf("writing registry cache: %w", err)
	}
	return nil
}

// IsValid reports whether an entry fetched at fetchedAt is still fresh.
func (s *Store) IsValid(fetchedAt time.Time) bool {
	return s.now().Sub(fetchedAt) < s.ttl
}

// ClearRegistry removes the cached document.
func (s *Store) ClearRegistry() error {
	if err := os.Remove(s.registryPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing registry cache: %w", err)
	}
	return nil
}

// SkillPath returns the cache directory of the named bundle.
func (s *Store) SkillPath(name string) (string, error) {
	safe, err := pathsafe.StrictName(name)
	if err != nil {
		return "", err
	}
	return pathsafe.Join(s.SkillsRoot(), safe)
}

// IsSkillCached reports whether the bundle's marker file is present.
func (s *Store) IsSkillCached(name string) bool {
	dir, err := s.SkillPath(name)
	if err != nil {
		return false
	}
	return manifest.HasMarker(dir)
}

// ClearSkill removes one cached bundle.
func (s *Store) ClearSkill(name string) error {
	dir, err := s.SkillPath(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing cached skill %s: %w", name, err)
	}
	return nil
}

// ClearAll removes the cached registry and every cached skill. Other entries
// under the base directory are left alone since the base may be shared.
func (s *Store) ClearAll() error {
	if err := s.ClearRegistry(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.SkillsRoot()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing cached skills: %w", err)
	}
	return nil
}
