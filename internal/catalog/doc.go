// Package catalog defines the skills registry document: the JSON snapshot
// listing every skill and category available for remote installation. It
// decodes documents, validates them against an embedded JSON schema and
// enforces that skill names are unique. Documents are treated as immutable
// once decoded.
package catalog
