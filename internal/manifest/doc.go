// Package manifest reads the SKILL.md marker that makes a directory a skill.
// The optional front matter block at the top of SKILL.md supplies the
// skill's name and description; the folder name and a fixed placeholder are
// used when it does not.
package manifest
