package pathsafe

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"demo", "demo"},
		{"../../etc/passwd", "etcpasswd"},
		{"..\\..\\windows", "windows"},
		{"  .hidden  ", "hidden"},
		{"name\x00with\x01nul", "namewithnul"},
		{"c:drive", "cdrive"},
		{"a<b>c|d?e*f\"g", "abcdefg"},
		{"", Placeholder},
		{"...", Placeholder},
		{"/", Placeholder},
		{"trailing.", "trailing"},
		{"skill.v2", "skill.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeNameProperties(t *testing.T) {
	inputs := []string{
		"",
		strings.Repeat("a", 1000),
		strings.Repeat("é", 300),
		"\t\n\r",
		"a/b\\c\x00d\x1fe",
		"../" + strings.Repeat("x/", 200),
		"日本語のスキル",
	}

	for _, in := range inputs {
		got := SanitizeName(in)
		if got == "" {
			t.Errorf("SanitizeName(%q) returned empty", in)
		}
		if len(got) > MaxNameLength {
			t.Errorf("SanitizeName(%q) length = %d, want <= %d", in, len(got), MaxNameLength)
		}
		for _, r := range got {
			if r == '/' || r == '\\' || r == 0 || unicode.IsControl(r) {
				t.Errorf("SanitizeName(%q) = %q contains forbidden rune %q", in, got, r)
			}
		}
		if !utf8.ValidString(got) {
			t.Errorf("SanitizeName(%q) produced invalid UTF-8", in)
		}
	}
}

func TestStrictName(t *testing.T) {
	if _, err := StrictName("../.."); !errors.Is(err, ErrInvalidName) {
		t.Errorf("StrictName(../..) error = %v, want ErrInvalidName", err)
	}
	got, err := StrictName("demo")
	if err != nil || got != "demo" {
		t.Errorf("StrictName(demo) = %q, %v", got, err)
	}
}

func TestIsPathSafe(t *testing.T) {
	base := filepath.Join(t.TempDir(), "base")

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"same", base, true},
		{"same with slash", base + string(filepath.Separator), true},
		{"child", filepath.Join(base, "demo"), true},
		{"nested", filepath.Join(base, "a", "b", "c"), true},
		{"sibling prefix", base + "-evil", false},
		{"parent", filepath.Dir(base), false},
		{"traversal", filepath.Join(base, "..", "other"), false},
		{"traversal back in", filepath.Join(base, "x", "..", "y"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPathSafe(base, tt.target); got != tt.want {
				t.Errorf("IsPathSafe(%q, %q) = %v, want %v", base, tt.target, got, tt.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	base := t.TempDir()

	got, err := Join(base, "skills", "demo")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if want := filepath.Join(base, "skills", "demo"); got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}

	_, err = Join(base, "..", "escape")
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("Join escape error = %v, want ErrUnsafePath", err)
	}
	var upe *UnsafePathError
	if !errors.As(err, &upe) {
		t.Fatalf("error is not *UnsafePathError: %T", err)
	}
	if upe.Base != base {
		t.Errorf("UnsafePathError.Base = %q, want %q", upe.Base, base)
	}
}

func TestCheck(t *testing.T) {
	base := t.TempDir()
	if err := Check(base, filepath.Join(base, "ok")); err != nil {
		t.Errorf("Check inside base: %v", err)
	}
	if err := Check(base, base+"-evil"); !errors.Is(err, ErrUnsafePath) {
		t.Errorf("Check sibling = %v, want ErrUnsafePath", err)
	}
}
