package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agent-skills/internal/logger"
)

// Override is a partial category description from _category.json.
type Override struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
}

// Metadata maps a folder name such as "(development)" to its override.
type Metadata map[string]Override

// lookup finds the override for id, keyed by folder name or, for files
// written by hand, by the bare id.
func (m Metadata) lookup(id string) Override {
	if o, ok := m[FolderName(id)]; ok {
		return o
	}
	return m[id]
}

// LoadMetadata reads _category.json from root. A missing or unparsable file
// yields an empty map.
func LoadMetadata(root string) Metadata {
	path := filepath.Join(root, MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("reading %s: %v", path, err)
		}
		return Metadata{}
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		logger.Warnf("ignoring corrupt category metadata %s: %v", path, err)
		return Metadata{}
	}
	if md == nil {
		md = Metadata{}
	}
	return md
}

// SaveMetadata writes md to root/_category.json.
func SaveMetadata(root string, md Metadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling category metadata: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(root, MetadataFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing category metadata: %w", err)
	}
	return nil
}
