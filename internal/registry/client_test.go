package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agentx-labs/agent-skills/internal/cache"
	"github.com/agentx-labs/agent-skills/internal/catalog"
)

const registryJSON = `{
  "version": "1.0.0",
  "generatedAt": "2026-01-01T00:00:00Z",
  "baseUrl": "",
  "categories": {"cloud": {"name": "Cloud", "priority": 1}, "dev": {"name": "Dev"}},
  "skills": [
    {"name": "aws", "description": "AWS helper", "category": "cloud", "path": "(cloud)/aws", "files": ["SKILL.md", "refs/setup.md"]},
    {"name": "tdd", "description": "Test first", "category": "dev", "path": "(dev)/tdd", "files": ["SKILL.md"]}
  ]
}`

// fakeCDN serves a catalog under /catalog and counts requests per path.
type fakeCDN struct {
	*httptest.Server
	mu       sync.Mutex
	hits     map[string]int
	registry string
	status   int
	files    map[string]string
}

func newFakeCDN(t *testing.T) *fakeCDN {
	t.Helper()
	f := &fakeCDN{
		hits:     map[string]int{},
		registry: registryJSON,
		status:   http.StatusOK,
		files: map[string]string{
			"(cloud)/aws/SKILL.md":      "---\nname: aws\n---\n# AWS",
			"(cloud)/aws/refs/setup.md": "setup",
			"(dev)/tdd/SKILL.md":        "# TDD",
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		status, registry := f.status, f.registry
		f.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		if r.URL.Path == "/catalog/skills-registry.json" {
			w.Write([]byte(registry))
			return
		}
		body, ok := f.files[strings.TrimPrefix(r.URL.Path, "/catalog/skills/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeCDN) endpoint(name string) Endpoint {
	return NewEndpoint(name, f.URL+"/catalog")
}

func (f *fakeCDN) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func testPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	p.BaseDelay = time.Millisecond
	p.MaxDelay = 5 * time.Millisecond
	p.Jitter = false
	return p
}

func newTestClient(t *testing.T, store *cache.Store, endpoints ...Endpoint) *Client {
	t.Helper()
	if store == nil {
		store = cache.New(t.TempDir())
	}
	return New(store, WithEndpoints(endpoints...), WithRetryPolicy(testPolicy()), WithTimeout(5*time.Second))
}

func TestFetchRegistryCachesDocument(t *testing.T) {
	cdn := newFakeCDN(t)
	c := newTestClient(t, nil, cdn.endpoint("primary"))
	ctx := context.Background()

	doc := c.FetchRegistry(ctx, false)
	if doc == nil || len(doc.Skills) != 2 {
		t.Fatalf("FetchRegistry = %+v", doc)
	}
	if c.Store().ReadRegistry() == nil {
		t.Fatal("registry not written to cache")
	}

	if doc := c.FetchRegistry(ctx, false); doc == nil {
		t.Fatal("second fetch returned nil")
	}
	if n := cdn.count("/catalog/skills-registry.json"); n != 1 {
		t.Errorf("registry requested %d times, want 1 (second served from cache)", n)
	}

	c.FetchRegistry(ctx, true)
	if n := cdn.count("/catalog/skills-registry.json"); n != 2 {
		t.Errorf("forced refresh did not hit the network: %d requests", n)
	}
}

func TestFetchRegistryRetriesThenFallsBack(t *testing.T) {
	primary := newFakeCDN(t)
	primary.status = http.StatusServiceUnavailable
	mirror := newFakeCDN(t)

	c := newTestClient(t, nil, primary.endpoint("primary"), mirror.endpoint("mirror"))
	doc := c.FetchRegistry(context.Background(), false)
	if doc == nil {
		t.Fatal("expected document from mirror")
	}

	if n := primary.count("/catalog/skills-registry.json"); n != 3 {
		t.Errorf("primary hit %d times, want 3 attempts", n)
	}
	if n := mirror.count("/catalog/skills-registry.json"); n != 1 {
		t.Errorf("mirror hit %d times, want 1", n)
	}
}

func TestFetchRegistryDoesNotRetryNotFound(t *testing.T) {
	primary := newFakeCDN(t)
	primary.status = http.StatusNotFound

	c := newTestClient(t, nil, primary.endpoint("primary"))
	if doc := c.FetchRegistry(context.Background(), false); doc != nil {
		t.Fatalf("FetchRegistry = %+v, want nil with no cache", doc)
	}
	if n := primary.count("/catalog/skills-registry.json"); n != 1 {
		t.Errorf("404 retried: %d requests", n)
	}
}

func TestFetchRegistryRejectsInvalidDocument(t *testing.T) {
	primary := newFakeCDN(t)
	primary.registry = `{"version": "1.0.0", "skills": "nope"}`
	mirror := newFakeCDN(t)

	c := newTestClient(t, nil, primary.endpoint("primary"), mirror.endpoint("mirror"))
	doc := c.FetchRegistry(context.Background(), false)
	if doc == nil || len(doc.Skills) != 2 {
		t.Fatalf("FetchRegistry = %+v, want mirror document", doc)
	}
}

func TestFetchRegistryServesStaleCache(t *testing.T) {
	base := t.TempDir()
	old := cache.New(base, cache.WithClock(func() time.Time {
		return time.Now().Add(-72 * time.Hour)
	}))
	stale := &catalog.Document{Version: "0.9.0", Skills: []catalog.SkillMetadata{{Name: "legacy"}}}
	if err := old.WriteRegistry(stale); err != nil {
		t.Fatal(err)
	}

	primary := newFakeCDN(t)
	primary.status = http.StatusBadGateway
	mirror := newFakeCDN(t)
	mirror.status = http.StatusInternalServerError

	c := newTestClient(t, cache.New(base), primary.endpoint("primary"), mirror.endpoint("mirror"))
	doc := c.FetchRegistry(context.Background(), false)
	if doc == nil || doc.Version != "0.9.0" {
		t.Fatalf("FetchRegistry = %+v, want stale cached document", doc)
	}
	if primary.count("/catalog/skills-registry.json") == 0 {
		t.Error("stale cache should not be served before trying the network")
	}
}

func TestFetchRegistryNoEndpointsNoCache(t *testing.T) {
	c := newTestClient(t, nil)
	if doc := c.FetchRegistry(context.Background(), false); doc != nil {
		t.Fatalf("FetchRegistry = %+v, want nil", doc)
	}
}

func TestDownloadSkill(t *testing.T) {
	cdn := newFakeCDN(t)
	c := newTestClient(t, nil, cdn.endpoint("primary"))
	ctx := context.Background()

	meta := &catalog.SkillMetadata{Name: "aws", Path: "(cloud)/aws", Files: []string{"SKILL.md", "refs/setup.md"}}
	dir, err := c.DownloadSkill(ctx, meta)
	if err != nil {
		t.Fatalf("DownloadSkill: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "refs", "setup.md"))
	if err != nil || string(data) != "setup" {
		t.Fatalf("refs/setup.md = %q, %v", data, err)
	}
	if !c.Store().IsSkillCached("aws") {
		t.Error("aws not reported as cached")
	}

	// A repeated download leaves matching files untouched.
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	skillFile := filepath.Join(dir, "SKILL.md")
	if err := os.Chtimes(skillFile, past, past); err != nil {
		t.Fatal(err)
	}
	if _, err := c.DownloadSkill(ctx, meta); err != nil {
		t.Fatalf("second DownloadSkill: %v", err)
	}
	info, err := os.Stat(skillFile)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("unchanged file was rewritten: mtime %v, want %v", info.ModTime(), past)
	}
}

func TestDownloadSkillRepairsMismatchedFile(t *testing.T) {
	cdn := newFakeCDN(t)
	c := newTestClient(t, nil, cdn.endpoint("primary"))
	meta := &catalog.SkillMetadata{Name: "tdd", Path: "(dev)/tdd", Files: []string{"SKILL.md"}}

	dir, err := c.Store().SkillPath("tdd")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.DownloadSkill(context.Background(), meta); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if string(data) != "# TDD" {
		t.Errorf("SKILL.md = %q, want upstream content", data)
	}
}

func TestDownloadSkillSkipsUnsafePaths(t *testing.T) {
	cdn := newFakeCDN(t)
	store := cache.New(t.TempDir())
	c := newTestClient(t, store, cdn.endpoint("primary"))

	meta := &catalog.SkillMetadata{
		Name:  "aws",
		Path:  "(cloud)/aws",
		Files: []string{"SKILL.md", "../../escape.md", "refs/setup.md"},
	}
	_, err := c.DownloadSkill(context.Background(), meta)
	if err == nil || !strings.Contains(err.Error(), "only 2/3 files downloaded") {
		t.Fatalf("err = %v, want partial download error", err)
	}

	// No rollback: files that landed stay.
	dir, _ := store.SkillPath("aws")
	if _, err := os.Stat(filepath.Join(dir, "SKILL.md")); err != nil {
		t.Errorf("SKILL.md removed after partial failure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Base(), "escape.md")); !os.IsNotExist(err) {
		t.Errorf("escape.md written outside bundle: %v", err)
	}
	cdn.mu.Lock()
	defer cdn.mu.Unlock()
	for path := range cdn.hits {
		if strings.Contains(path, "escape") {
			t.Errorf("unsafe file was requested: %s", path)
		}
	}
}

func TestDownloadSkillBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	c := New(cache.New(t.TempDir()),
		WithEndpoints(NewEndpoint("primary", srv.URL)),
		WithRetryPolicy(testPolicy()),
		WithConcurrency(2))

	meta := &catalog.SkillMetadata{Name: "many", Path: "many", Files: []string{"a", "b", "c", "d", "e"}}
	if _, err := c.DownloadSkill(context.Background(), meta); err != nil {
		t.Fatalf("DownloadSkill: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestEnsureSkillDownloaded(t *testing.T) {
	cdn := newFakeCDN(t)
	c := newTestClient(t, nil, cdn.endpoint("primary"))
	ctx := context.Background()

	dir, err := c.EnsureSkillDownloaded(ctx, "tdd")
	if err != nil {
		t.Fatalf("EnsureSkillDownloaded: %v", err)
	}
	if _, err := c.EnsureSkillDownloaded(ctx, "tdd"); err != nil {
		t.Fatal(err)
	}
	if n := cdn.count("/catalog/skills/(dev)/tdd/SKILL.md"); n != 1 {
		t.Errorf("SKILL.md fetched %d times, want 1", n)
	}

	if _, err := c.ForceDownloadSkill(ctx, "tdd"); err != nil {
		t.Fatal(err)
	}
	if n := cdn.count("/catalog/skills/(dev)/tdd/SKILL.md"); n != 2 {
		t.Errorf("ForceDownloadSkill did not refetch: %d", n)
	}
	if !strings.HasPrefix(dir, c.CacheDir()) {
		t.Errorf("dir %q not under cache %q", dir, c.CacheDir())
	}

	if _, err := c.EnsureSkillDownloaded(ctx, "missing"); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("err = %v, want ErrSkillNotFound", err)
	}
}

func TestSkillMetadataUnavailable(t *testing.T) {
	c := newTestClient(t, nil)
	if _, err := c.SkillMetadata(context.Background(), "aws"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestRemoteSkillsAndCategories(t *testing.T) {
	cdn := newFakeCDN(t)
	c := newTestClient(t, nil, cdn.endpoint("primary"))
	ctx := context.Background()

	if _, err := c.EnsureSkillDownloaded(ctx, "aws"); err != nil {
		t.Fatal(err)
	}

	skills := c.RemoteSkills(ctx)
	if len(skills) != 2 {
		t.Fatalf("got %d skills", len(skills))
	}
	if skills[0].Name != "aws" || skills[0].Path == "" {
		t.Errorf("aws = %+v, want cached path", skills[0])
	}
	if skills[1].Name != "tdd" || skills[1].Path != "" {
		t.Errorf("tdd = %+v, want empty path", skills[1])
	}

	cats := c.RemoteCategories(ctx)
	if len(cats) != 2 || cats[0].ID != "cloud" || cats[1].Priority != 999 {
		t.Errorf("categories = %+v", cats)
	}
}
