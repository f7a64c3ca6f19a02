package agents

import (
	"os"
	"path/filepath"
)

// DetectFunc reports whether an agent appears to be installed.
type DetectFunc func() bool

// Detectors maps agent ids to their detection predicates. It is kept apart
// from the descriptors so tests and callers can swap predicates without
// touching the static table.
type Detectors map[string]DetectFunc

// DefaultDetectors checks for each agent's configuration directory under
// home or projectRoot.
func DefaultDetectors(home, projectRoot string) Detectors {
	d := make(Detectors, len(definitions))
	for _, def := range definitions {
		var candidates []string
		for _, m := range def.homeMarkers {
			candidates = append(candidates, filepath.Join(home, filepath.FromSlash(m)))
		}
		for _, m := range def.projectMarkers {
			candidates = append(candidates, filepath.Join(projectRoot, filepath.FromSlash(m)))
		}
		d[def.id] = anyExists(candidates)
	}
	return d
}

func anyExists(paths []string) DetectFunc {
	return func() bool {
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return true
			}
		}
		return false
	}
}

// Detect returns the ids of agents whose predicate reports them installed,
// in table order. Agents without a predicate are never detected.
func (t *Table) Detect(detectors Detectors) []string {
	var found []string
	for _, d := range t.descriptors {
		if fn, ok := detectors[d.ID]; ok && fn() {
			found = append(found, d.ID)
		}
	}
	return found
}
