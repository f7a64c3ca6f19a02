// Package lockfile records which skills are installed in a project. The
// lock file lives at .agents/.skill-lock.yaml under the project root and
// maps each skill name to its scope and install time.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	agentsDir = ".agents"
	lockName  = ".skill-lock.yaml"

	// CurrentVersion is the lock file format version written by Save.
	CurrentVersion = 1
)

// Tracker receives install and removal events.
type Tracker interface {
	RecordInstalled(name, scope string) error
	RecordRemoved(name string) error
}

// Nop is a Tracker that records nothing.
type Nop struct{}

func (Nop) RecordInstalled(string, string) error { return nil }
func (Nop) RecordRemoved(string) error           { return nil }

// Entry is one installed skill.
type Entry struct {
	Scope       string    `yaml:"scope"`
	InstalledAt time.Time `yaml:"installed_at"`
}

// File is the lock file structure.
type File struct {
	Version int              `yaml:"version"`
	Skills  map[string]Entry `yaml:"skills"`
}

// Names returns the recorded skill names, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Skills))
	for name := range f.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the lock file path for a project.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, agentsDir, lockName)
}

// Load reads the lock file at path. A missing file yields an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{Version: CurrentVersion, Skills: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}
	if f.Skills == nil {
		f.Skills = map[string]Entry{}
	}
	return &f, nil
}

// Save writes f to path, creating the parent directory.
func Save(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating lock file directory: %w", err)
	}

	f.Version = CurrentVersion
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}
	return nil
}

// Store is a Tracker persisting to one lock file.
type Store struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewStore returns a Store for the lock file of projectRoot.
func NewStore(projectRoot string) *Store {
	return &Store{path: Path(projectRoot), now: time.Now}
}

// Path returns the lock file location.
func (s *Store) Path() string { return s.path }

// Load reads the current lock file.
func (s *Store) Load() (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Load(s.path)
}

// RecordInstalled adds or refreshes name.
func (s *Store) RecordInstalled(name, scope string) error {
	return s.update(func(f *File) {
		f.Skills[name] = Entry{Scope: scope, InstalledAt: s.now().UTC()}
	})
}

// RecordRemoved drops name. Removing an unknown name is not an error.
func (s *Store) RecordRemoved(name string) error {
	return s.update(func(f *File) {
		delete(f.Skills, name)
	})
}

func (s *Store) update(fn func(*File)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := Load(s.path)
	if err != nil {
		return err
	}
	fn(f)
	return Save(s.path, f)
}
