// Package project locates the root of the project the CLI runs in.
package project

import (
	"os"
	"path/filepath"
)

// markers identify a project root.
var markers = []string{".git", "go.mod", "package.json"}

// FindRoot walks up from start and returns the first directory containing
// one of the project markers. When none is found before the filesystem
// root, start itself (made absolute) is returned.
func FindRoot(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}

	dir := abs
	for {
		if hasMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		dir = parent
	}
}

// FindRootFromWd is FindRoot starting at the working directory.
func FindRootFromWd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRoot(wd), nil
}

func hasMarker(dir string) bool {
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}
