package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Symlink makes link point at target. The link's parent directories are
// created first and the link body is stored relative to the parent so the
// pair can be moved together.
//
// If link already exists as a symlink resolving to target it is left alone.
// Any other entry at link (file, directory or a symlink elsewhere) is removed
// recursively before the new link is created.
func Symlink(target, link string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving symlink target %s: %w", target, err)
	}
	absLink, err := filepath.Abs(link)
	if err != nil {
		return fmt.Errorf("resolving symlink path %s: %w", link, err)
	}

	same, err := cleanExisting(absLink, absTarget)
	if err != nil {
		return err
	}
	if same {
		return nil
	}

	parent := filepath.Dir(absLink)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating link parent %s: %w", parent, err)
	}

	rel, err := filepath.Rel(parent, absTarget)
	if err != nil {
		rel = absTarget
	}

	if err := os.Symlink(rel, absLink); err != nil {
		return fmt.Errorf("creating symlink %s: %w", absLink, err)
	}
	return nil
}

// cleanExisting clears the way for a new link. It reports true when link is
// already a symlink to target.
func cleanExisting(link, target string) (bool, error) {
	info, err := os.Lstat(link)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		// Unreadable entry (e.g. a link loop on some filesystems).
		_ = os.Remove(link)
		return false, nil
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if existing, err := ReadSymlinkTarget(link); err == nil && existing == target {
			return true, nil
		}
		if err := os.Remove(link); err != nil {
			return false, fmt.Errorf("removing stale symlink %s: %w", link, err)
		}
		return false, nil
	}

	if err := os.RemoveAll(link); err != nil {
		return false, fmt.Errorf("removing existing path %s: %w", link, err)
	}
	return false, nil
}

// ReadSymlinkTarget returns the absolute, cleaned target of the symlink at
// path. Relative link bodies are resolved against the link's directory.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// IsSymlink reports whether path exists and is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// Exists reports whether anything (including a dangling symlink) is at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
