package catalog

import (
	"errors"
	"testing"
)

const validDoc = `{
  "version": "1.4.0",
  "generatedAt": "2026-01-02T03:04:05Z",
  "baseUrl": "https://cdn.example.com/skills",
  "categories": {
    "development": {"name": "Development", "priority": 2},
    "cloud": {"name": "Cloud", "priority": 1},
    "misc": {"name": ""}
  },
  "skills": [
    {"name": "tdd", "description": "Test first", "category": "development", "path": "(development)/tdd", "files": ["SKILL.md", "ref/notes.md"]},
    {"name": "aws", "description": "AWS", "category": "cloud", "path": "(cloud)/aws", "files": ["SKILL.md"], "author": "ops"}
  ]
}`

func TestDecodeValidDocument(t *testing.T) {
	doc, err := Decode([]byte(validDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Version != "1.4.0" {
		t.Errorf("Version = %q", doc.Version)
	}
	if doc.GeneratedTime().Year() != 2026 {
		t.Errorf("GeneratedAt = %q", doc.GeneratedAt)
	}
	if len(doc.Skills) != 2 {
		t.Fatalf("got %d skills", len(doc.Skills))
	}

	s, ok := doc.Find("aws")
	if !ok {
		t.Fatal("Find(aws) not found")
	}
	if s.Author != "ops" || s.CategoryID() != "cloud" || s.SkillName() != "aws" {
		t.Errorf("aws = %+v", s)
	}
	if _, ok := doc.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}

	v, err := doc.SemVer()
	if err != nil || v.Minor() != 4 {
		t.Errorf("SemVer = %v, %v", v, err)
	}
}

func TestCategoryListSortsByPriority(t *testing.T) {
	doc, err := Decode([]byte(validDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	list := doc.CategoryList()
	want := []string{"cloud", "development", "misc"}
	if len(list) != len(want) {
		t.Fatalf("got %d categories", len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d] = %q, want %q", i, list[i].ID, id)
		}
	}
	if list[2].Priority != 999 || list[2].Name != "Misc" {
		t.Errorf("misc = %+v", list[2])
	}
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing skills", `{"version":"1","generatedAt":"x","baseUrl":"","categories":{}}`},
		{"files not array", `{"version":"1","generatedAt":"x","baseUrl":"","categories":{},"skills":[{"name":"a","description":"","category":"c","path":"p","files":"SKILL.md"}]}`},
		{"empty name", `{"version":"1","generatedAt":"x","baseUrl":"","categories":{},"skills":[{"name":"","description":"","category":"c","path":"p","files":[]}]}`},
		{"priority string", `{"version":"1","generatedAt":"x","baseUrl":"","categories":{"c":{"name":"C","priority":"high"}},"skills":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *SchemaError", err)
			}
			if len(se.Issues) == 0 {
				t.Error("expected at least one issue")
			}
		})
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"version":`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeRejectsDuplicateNames(t *testing.T) {
	doc := `{"version":"1.0.0","generatedAt":"2026-01-01T00:00:00Z","baseUrl":"","categories":{},"skills":[
	  {"name":"a","description":"","category":"c","path":"p1","files":["SKILL.md"]},
	  {"name":"a","description":"","category":"c","path":"p2","files":["SKILL.md"]}]}`
	if _, err := Decode([]byte(doc)); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestSemVerInvalid(t *testing.T) {
	d := &Document{Version: "not-a-version"}
	if _, err := d.SemVer(); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeAcceptsAnyISODate(t *testing.T) {
	tests := []struct {
		name      string
		generated string
		wantYear  int
	}{
		{"date only", "2024-01-15", 2024},
		{"no zone", "2024-01-15T10:30:00", 2024},
		{"fractional seconds", "2024-01-15T10:30:00.123+02:00", 2024},
		{"free form", "last tuesday", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := `{"version":"1.0.0","generatedAt":"` + tt.generated + `","baseUrl":"","categories":{},"skills":[]}`
			doc, err := Decode([]byte(data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if doc.GeneratedAt != tt.generated {
				t.Errorf("GeneratedAt = %q, want %q", doc.GeneratedAt, tt.generated)
			}
			if got := doc.GeneratedTime().Year(); got != tt.wantYear {
				t.Errorf("GeneratedTime().Year() = %d, want %d", got, tt.wantYear)
			}
		})
	}
}
