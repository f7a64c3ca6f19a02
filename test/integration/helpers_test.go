//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/agentx-labs/agent-skills/internal/cache"
	"github.com/agentx-labs/agent-skills/internal/registry"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // stands in for the user's home
	CacheDir   string // registry and skill cache
	ProjectDir string // a mock project with a .git marker
}

// setupTestEnv creates isolated temp directories so no test touches the
// real home or cache.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		CacheDir:   t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	if err := os.Mkdir(filepath.Join(env.ProjectDir, ".git"), 0755); err != nil {
		t.Fatalf("creating .git: %v", err)
	}
	return env
}

const testRegistry = `{
  "version": "1.4.0",
  "generatedAt": "2026-03-01T12:00:00Z",
  "baseUrl": "",
  "categories": {
    "development": {"name": "Development", "priority": 1},
    "cloud": {"name": "Cloud", "priority": 2}
  },
  "skills": [
    {"name": "tdd", "description": "Test-driven development", "category": "development",
     "path": "(development)/tdd", "files": ["SKILL.md", "examples/basic.md"]},
    {"name": "aws", "description": "AWS helper", "category": "cloud",
     "path": "(cloud)/aws", "files": ["SKILL.md"]},
    {"name": "notes", "description": "Uncategorized notes", "category": "",
     "path": "notes", "files": ["SKILL.md"]}
  ]
}`

// mockCDN serves a skills catalog at /catalog and records requested paths.
type mockCDN struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
	down     bool
}

func newMockCDN(t *testing.T) *mockCDN {
	t.Helper()
	files := map[string]string{
		"(development)/tdd/SKILL.md":          "---\nname: tdd\ndescription: Test-driven development\n---\n# TDD\n",
		"(development)/tdd/examples/basic.md": "Write the test first.\n",
		"(cloud)/aws/SKILL.md":                "---\nname: aws\ndescription: AWS helper\n---\n# AWS\n",
		"notes/SKILL.md":                      "---\nname: notes\ndescription: Uncategorized notes\n---\n",
	}

	m := &mockCDN{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.URL.Path)
		down := m.down
		m.mu.Unlock()

		if down {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/catalog/skills-registry.json" {
			w.Write([]byte(testRegistry))
			return
		}
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/catalog/skills/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockCDN) setDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = down
}

func (m *mockCDN) count(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.requests {
		if p == path {
			n++
		}
	}
	return n
}

// newClient returns a registry client backed by the mock CDN and a cache
// under env.CacheDir. Retries are fast so outage tests stay quick.
func newClient(env *testEnv, m *mockCDN) *registry.Client {
	policy := registry.DefaultRetryPolicy()
	policy.BaseDelay = 0
	policy.Jitter = false
	return registry.New(cache.New(env.CacheDir),
		registry.WithEndpoints(registry.NewEndpoint("mock", m.URL+"/catalog")),
		registry.WithRetryPolicy(policy),
	)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertNotExists fails the test if anything exists at path.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected %s NOT to exist", path)
	}
}

// assertSymlink fails unless path is a symlink.
func assertSymlink(t *testing.T, path string) {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("expected symlink at %s (error: %v)", path, err)
		return
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("expected %s to be a symlink, mode is %v", path, info.Mode())
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
