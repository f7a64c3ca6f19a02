package pathsafe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxNameLength is the longest segment SanitizeName returns, in bytes.
	MaxNameLength = 255

	// Placeholder replaces names that sanitize to nothing.
	Placeholder = "unnamed-skill"
)

var (
	// ErrUnsafePath is matched by every *UnsafePathError.
	ErrUnsafePath = errors.New("path escapes base directory")

	// ErrInvalidName is returned when a name has no usable characters.
	ErrInvalidName = errors.New("invalid skill name")
)

// UnsafePathError reports a destination outside its declared base.
type UnsafePathError struct {
	Base   string
	Target string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("security: %s is outside %s", e.Target, e.Base)
}

// Is lets errors.Is(err, ErrUnsafePath) match.
func (e *UnsafePathError) Is(target error) bool {
	return target == ErrUnsafePath
}

// SanitizeName turns raw into a single path segment: separators, NUL,
// control and Windows-reserved characters are dropped, leading and trailing
// dots and whitespace are trimmed and the result is capped at MaxNameLength
// bytes. An empty result becomes Placeholder.
func SanitizeName(raw string) string {
	name := strip(raw)
	if name == "" {
		return Placeholder
	}
	return truncate(name, MaxNameLength)
}

// StrictName is SanitizeName without the placeholder: it returns
// ErrInvalidName when nothing usable remains. Cache paths use it so two
// different garbage names never share the placeholder directory.
func StrictName(raw string) (string, error) {
	name := strip(raw)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return truncate(name, MaxNameLength), nil
}

func strip(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == utf8.RuneError || unicode.IsControl(r) {
			continue
		}
		switch r {
		case '/', '\\', ':', '<', '>', '"', '|', '?', '*':
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimFunc(b.String(), func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// IsPathSafe reports whether target is base itself or nested under it.
// Both paths are made absolute and cleaned first; the prefix test happens on
// a separator boundary so "/base-evil" is not inside "/base".
func IsPathSafe(base, target string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	if absTarget == absBase {
		return true
	}
	prefix := absBase
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(absTarget, prefix)
}

// Join joins elem onto base and returns an *UnsafePathError if the result
// is not within base.
func Join(base string, elem ...string) (string, error) {
	target := filepath.Join(append([]string{base}, elem...)...)
	if !IsPathSafe(base, target) {
		return "", &UnsafePathError{Base: base, Target: target}
	}
	return target, nil
}

// Check returns an *UnsafePathError when target is not within base.
func Check(base, target string) error {
	if !IsPathSafe(base, target) {
		return &UnsafePathError{Base: base, Target: target}
	}
	return nil
}
