package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    FrontMatter
	}{
		{
			name:    "yaml block",
			content: "---\nname: demo\ndescription: A demo skill\nversion: \"1.2.0\"\n---\n# Demo\n",
			want:    FrontMatter{Name: "demo", Description: "A demo skill", Version: "1.2.0"},
		},
		{
			name:    "unquoted colon falls back to lines",
			content: "---\nname: reviewer\ndescription: Use when: reviewing PRs\n---\nbody",
			want:    FrontMatter{Name: "reviewer", Description: "Use when: reviewing PRs"},
		},
		{
			name:    "no block",
			content: "# Just markdown\nname: not-front-matter\n",
			want:    FrontMatter{},
		},
		{
			name:    "block not at start",
			content: "\n---\nname: late\n---\n",
			want:    FrontMatter{},
		},
		{
			name:    "crlf",
			content: "---\r\nname: windows\r\ndescription: CRLF file\r\n---\r\n",
			want:    FrontMatter{Name: "windows", Description: "CRLF file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFrontMatter([]byte(tt.content))
			if got != tt.want {
				t.Errorf("ParseFrontMatter = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func writeSkill(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, MarkerFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadSkillDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder-name")
	writeSkill(t, dir, "# no front matter\n")

	s, err := ReadSkill(dir, "tools")
	if err != nil {
		t.Fatalf("ReadSkill: %v", err)
	}
	if s.Name != "folder-name" {
		t.Errorf("Name = %q, want folder-name", s.Name)
	}
	if s.Description != DefaultDescription {
		t.Errorf("Description = %q, want %q", s.Description, DefaultDescription)
	}
	if s.Category != "tools" || s.Path != dir {
		t.Errorf("skill = %+v", s)
	}
}

func TestReadSkillMissingMarker(t *testing.T) {
	if _, err := ReadSkill(t.TempDir(), ""); err == nil {
		t.Error("expected error for directory without SKILL.md")
	}
}

func TestHasMarker(t *testing.T) {
	dir := t.TempDir()
	if HasMarker(dir) {
		t.Error("HasMarker on empty dir = true")
	}
	writeSkill(t, dir, "x")
	if !HasMarker(dir) {
		t.Error("HasMarker after writing SKILL.md = false")
	}
}
