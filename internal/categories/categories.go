package categories

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// UncategorizedID is the id of the catch-all category.
	UncategorizedID = "uncategorized"

	// DefaultPriority sorts synthesized categories after discovered ones.
	DefaultPriority = 999

	// MetadataFile is the name of the override file in the skills root.
	MetadataFile = "_category.json"
)

// folderPattern matches "(id)" where id is a lowercase letter followed by
// lowercase letters, digits or hyphens.
var folderPattern = regexp.MustCompile(`^\(([a-z][a-z0-9-]*)\)$`)

var titleCaser = cases.Title(language.English)

// Info describes one category.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
}

// Uncategorized returns the catch-all category.
func Uncategorized() Info {
	return Info{
		ID:          UncategorizedID,
		Name:        "Uncategorized",
		Description: "Skills without a specific category",
		Priority:    DefaultPriority,
	}
}

// IsCategoryFolder reports whether name follows the "(id)" convention.
func IsCategoryFolder(name string) bool {
	return folderPattern.MatchString(name)
}

// ExtractID returns the id inside a category folder name.
func ExtractID(folder string) (string, bool) {
	m := folderPattern.FindStringSubmatch(folder)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FolderName returns the folder name for a category id.
func FolderName(id string) string {
	return "(" + id + ")"
}

// FormatName turns an id such as "skill-creation" into "Skill Creation".
func FormatName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

// synthesize builds a category for an id that has no folder or metadata.
func synthesize(id string, priority int) Info {
	return Info{ID: id, Name: FormatName(id), Priority: priority}
}
