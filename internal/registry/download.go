package registry

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/agentx-labs/agent-skills/internal/catalog"
	"github.com/agentx-labs/agent-skills/internal/logger"
	"github.com/agentx-labs/agent-skills/internal/pathsafe"
)

// DownloadSkill downloads every file of meta into the bundle's cache
// directory and returns that directory.
//
// Files are fetched in windows of the configured concurrency; a window
// completes before the next one starts. A file whose path would escape the
// bundle directory is skipped and logged. If fewer files land than meta
// declares, an error is returned and the files already written stay on disk.
// Files whose content already matches are not rewritten.
func (c *Client) DownloadSkill(ctx context.Context, meta *catalog.SkillMetadata) (string, error) {
	dir, err := c.store.SkillPath(meta.Name)
	if err != nil {
		return "", err
	}
	if err := c.store.EnsureDirs(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating skill cache directory: %w", err)
	}

	total := len(meta.Files)
	landed := 0
	for start := 0; start < total; start += c.concurrency {
		end := min(start+c.concurrency, total)
		landed += c.downloadWindow(ctx, meta, dir, meta.Files[start:end])
	}

	if landed < total {
		return "", fmt.Errorf("downloading %s: only %d/%d files downloaded", meta.Name, landed, total)
	}
	return dir, nil
}

// downloadWindow fetches files concurrently and returns how many landed.
func (c *Client) downloadWindow(ctx context.Context, meta *catalog.SkillMetadata, dir string, files []string) int {
	ok := make([]bool, len(files))

	var g errgroup.Group
	for i, file := range files {
		g.Go(func() error {
			if err := c.downloadFile(ctx, meta, dir, file); err != nil {
				logger.Warnf("Skill %s: %v", meta.Name, err)
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, landed := range ok {
		if landed {
			n++
		}
	}
	return n
}

func (c *Client) downloadFile(ctx context.Context, meta *catalog.SkillMetadata, dir, file string) error {
	target, err := pathsafe.Join(dir, filepath.FromSlash(file))
	if err != nil {
		return fmt.Errorf("skipping suspicious file path %q: %w", file, err)
	}

	data, err := c.fetchFirst(ctx, func(ep Endpoint) string {
		return ep.FileURL(meta.Path, file)
	})
	if err != nil {
		return fmt.Errorf("downloading %s: %w", file, err)
	}

	if sameContent(target, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", file, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return nil
}

// sameContent reports whether path already holds exactly data.
func sameContent(path string, data []byte) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != int64(len(data)) {
		return false
	}
	existing, err := os.ReadFile(path)
	return err == nil && bytes.Equal(existing, data)
}

// EnsureSkillDownloaded returns the cached bundle directory of name,
// downloading the bundle first when it is not cached.
func (c *Client) EnsureSkillDownloaded(ctx context.Context, name string) (string, error) {
	if c.store.IsSkillCached(name) {
		return c.store.SkillPath(name)
	}
	meta, err := c.SkillMetadata(ctx, name)
	if err != nil {
		return "", err
	}
	return c.DownloadSkill(ctx, meta)
}

// ForceDownloadSkill drops any cached copy of name and downloads it again.
func (c *Client) ForceDownloadSkill(ctx context.Context, name string) (string, error) {
	if err := c.store.ClearSkill(name); err != nil {
		return "", err
	}
	return c.EnsureSkillDownloaded(ctx, name)
}
