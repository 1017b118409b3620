// Package offline serves the web bundle through a two-tier asset cache so the
// app keeps loading when its asset origin is unreachable.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/existflow/lifelist/internal/logger"
)

// DefaultDynamicSize bounds the dynamic cache when no size is configured
const DefaultDynamicSize = 50

// DefaultCore is the manifest cached at install
var DefaultCore = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/app.js",
	"/manifest.json",
	"/icons/icon-192.png",
}

// ErrFetch wraps network failures from a Fetcher
var ErrFetch = errors.New("fetch failed")

// Response is a cached or freshly fetched asset
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Fetcher retrieves an asset from the network
type Fetcher interface {
	Fetch(ctx context.Context, method, path string, body io.Reader) (*Response, error)
}

// HTTPFetcher fetches assets from an origin over HTTP
type HTTPFetcher struct {
	Origin *url.URL
	Client *http.Client
}

// NewHTTPFetcher builds a fetcher for origin with a bounded timeout
func NewHTTPFetcher(origin string) (*HTTPFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid asset origin %q", origin)
	}
	return &HTTPFetcher{Origin: u, Client: &http.Client{Timeout: 10 * time.Second}}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, method, p string, body io.Reader) (*Response, error) {
	target := f.Origin.ResolveReference(&url.URL{Path: path.Join(f.Origin.Path, p)})
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: data}, nil
}

// Options for New
type Options struct {
	Core        []string
	Shell       string
	DynamicSize int
	Logger      *logger.Logger
}

// Cache is the two-tier asset cache. Core assets are fetched once at Install
// and served cache-first; everything else goes network-first and lands in a
// bounded dynamic cache that drops its oldest entry when full.
type Cache struct {
	fetch Fetcher
	log   *logger.Logger
	shell string

	mu       sync.RWMutex
	manifest []string
	core     map[string]*Response
	dynamic  *lru.Cache[string, *Response]
}

// New creates an empty cache; call Install to populate the core tier.
func New(f Fetcher, opts Options) (*Cache, error) {
	if opts.DynamicSize <= 0 {
		opts.DynamicSize = DefaultDynamicSize
	}
	if len(opts.Core) == 0 {
		opts.Core = DefaultCore
	}
	if opts.Shell == "" {
		opts.Shell = "/index.html"
	}
	dyn, err := lru.New[string, *Response](opts.DynamicSize)
	if err != nil {
		return nil, err
	}
	return &Cache{
		fetch:    f,
		log:      opts.Logger,
		shell:    opts.Shell,
		manifest: append([]string{}, opts.Core...),
		core:     make(map[string]*Response, len(opts.Core)),
		dynamic:  dyn,
	}, nil
}

// Install fetches every core asset. It fails, caching nothing, if any asset
// cannot be fetched.
func (c *Cache) Install(ctx context.Context) error {
	fetched := make([]*Response, len(c.manifest))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range c.manifest {
		i, p := i, p
		g.Go(func() error {
			resp, err := c.fetch.Fetch(gctx, http.MethodGet, p, nil)
			if err != nil {
				return fmt.Errorf("core asset %s: %w", p, err)
			}
			if resp.Status != http.StatusOK {
				return fmt.Errorf("core asset %s: status %d", p, resp.Status)
			}
			fetched[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Warn("Offline cache install failed", logger.F("error", err))
		return err
	}

	c.mu.Lock()
	for i, p := range c.manifest {
		c.core[p] = fetched[i]
	}
	c.mu.Unlock()

	c.log.Info("Offline cache installed", logger.F("assets", len(fetched)))
	return nil
}

// Installed reports whether the core tier is populated
func (c *Cache) Installed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.core) > 0
}

// DynamicLen returns the number of dynamically cached assets
func (c *Cache) DynamicLen() int {
	return c.dynamic.Len()
}

// Serve resolves a request against the caches and the network.
func (c *Cache) Serve(r *http.Request) *Response {
	p := r.URL.Path
	if p == "" {
		p = "/"
	}

	if r.Method != http.MethodGet {
		resp, err := c.fetch.Fetch(r.Context(), r.Method, p, r.Body)
		if err != nil {
			return offlinePayload(p)
		}
		return resp
	}

	c.mu.RLock()
	cached, core := c.core[p]
	c.mu.RUnlock()
	if core {
		return cached
	}

	resp, err := c.fetch.Fetch(r.Context(), http.MethodGet, p, nil)
	if err == nil {
		if resp.Status == http.StatusOK {
			c.dynamic.Add(p, resp)
		}
		return resp
	}
	c.log.Debug("Serving offline fallback", logger.F("path", p), logger.F("error", err))

	if hit, ok := c.dynamic.Peek(p); ok {
		return hit
	}
	if isNavigation(r) {
		c.mu.RLock()
		shell, ok := c.core[c.shell]
		c.mu.RUnlock()
		if ok {
			return shell
		}
	}
	if isImage(r) {
		return placeholder()
	}
	return offlinePayload(p)
}

// ServeHTTP implements http.Handler
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := c.Serve(r)
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
}

func isImage(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Dest") == "image" || strings.HasPrefix(r.Header.Get("Accept"), "image/") {
		return true
	}
	return imageExts[strings.ToLower(path.Ext(r.URL.Path))]
}

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 200 200">` +
	`<rect width="200" height="200" fill="#e5e7eb"/>` +
	`<text x="100" y="105" font-family="sans-serif" font-size="14" text-anchor="middle" fill="#6b7280">Offline</text>` +
	`</svg>`

func placeholder() *Response {
	return &Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"image/svg+xml"}},
		Body:   []byte(placeholderSVG),
	}
}

func offlinePayload(p string) *Response {
	body, _ := json.Marshal(map[string]string{
		"error":   "offline",
		"message": "You are offline. This content is not available.",
		"path":    p,
	})
	return &Response{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   body,
	}
}
