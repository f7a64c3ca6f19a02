package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/agentx-labs/agent-skills/internal/branding"
	"github.com/agentx-labs/agent-skills/internal/cache"
	"github.com/agentx-labs/agent-skills/internal/catalog"
	"github.com/agentx-labs/agent-skills/internal/logger"
)

// DefaultConcurrency is how many bundle files are downloaded at once.
const DefaultConcurrency = 10

var (
	// ErrSkillNotFound is returned when the registry has no skill by that name.
	ErrSkillNotFound = errors.New("skill not found in registry")

	// ErrUnavailable is returned when no registry document could be obtained
	// from the network or the cache.
	ErrUnavailable = errors.New("skills registry unavailable")
)

// Client fetches the registry and bundles, layered on a cache.Store.
type Client struct {
	store       *cache.Store
	endpoints   []Endpoint
	policy      RetryPolicy
	timeout     time.Duration
	concurrency int
	userAgent   string
	http        *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoints replaces the endpoint list (useful for testing).
func WithEndpoints(endpoints ...Endpoint) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// WithRetryPolicy sets the retry policy applied to every request.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConcurrency sets the size of each bundle download window.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client backed by store. Without WithEndpoints the client
// targets DefaultEndpoints("main").
func New(store *cache.Store, opts ...Option) *Client {
	c := &Client{
		store:       store,
		endpoints:   DefaultEndpoints("main"),
		policy:      DefaultRetryPolicy(),
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		userAgent:   branding.CLIName(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = newHTTPClient(c.policy, c.timeout)
	return c
}

// CacheDir returns the root of the underlying cache.
func (c *Client) CacheDir() string {
	return c.store.Base()
}

// Store returns the underlying cache.
func (c *Client) Store() *cache.Store {
	return c.store
}

// FetchRegistry returns the registry document. A fresh cached copy is used
// unless forceRefresh is set. Otherwise every endpoint is tried in order and
// the first valid document is cached and returned. When all endpoints fail,
// any cached copy is returned regardless of age. FetchRegistry never fails:
// with no network and no cache it logs the error and returns nil.
func (c *Client) FetchRegistry(ctx context.Context, forceRefresh bool) *catalog.Document {
	if !forceRefresh {
		if entry := c.store.ReadRegistry(); entry != nil && c.store.IsValid(entry.FetchedAt) {
			logger.Debugf("Using cached registry fetched at %s", entry.FetchedAt.Format(time.RFC3339))
			return entry.Registry
		}
	}

	doc, err := c.fetchRemote(ctx)
	if err == nil {
		if err := c.store.WriteRegistry(doc); err != nil {
			logger.Warnf("Failed to cache registry: %v", err)
		}
		return doc
	}

	if entry := c.store.ReadRegistry(); entry != nil {
		logger.Warnf("Registry fetch failed, using cached copy from %s: %v",
			entry.FetchedAt.Format(time.RFC3339), err)
		return entry.Registry
	}

	logger.Errorf("Failed to fetch registry: %v", err)
	return nil
}

func (c *Client) fetchRemote(ctx context.Context) (*catalog.Document, error) {
	if len(c.endpoints) == 0 {
		return nil, errors.New("no registry endpoints configured")
	}

	var errs []error
	for _, ep := range c.endpoints {
		data, err := c.get(ctx, ep.RegistryURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ep.Name, err))
			continue
		}
		doc, err := catalog.Decode(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ep.Name, err))
			continue
		}
		if _, err := doc.SemVer(); err != nil {
			logger.Warnf("Registry from %s: %v", ep.Name, err)
		}
		logger.Debugf("Fetched registry %s from %s (%d skills)", doc.Version, ep.Name, len(doc.Skills))
		return doc, nil
	}
	return nil, errors.Join(errs...)
}

// fetchFirst downloads the URL that urlFor builds for each endpoint in turn
// and returns the first successful body.
func (c *Client) fetchFirst(ctx context.Context, urlFor func(Endpoint) string) ([]byte, error) {
	var errs []error
	for _, ep := range c.endpoints {
		data, err := c.get(ctx, urlFor(ep))
		if err == nil {
			return data, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", ep.Name, err))
	}
	if len(errs) == 0 {
		return nil, errors.New("no registry endpoints configured")
	}
	return nil, errors.Join(errs...)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
