package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/olegrjumin/sitescan/internal/httpclient"
	"github.com/olegrjumin/sitescan/internal/logging"
)

// Fetcher performs GET requests. *httpclient.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url, userAgent string) (*httpclient.Response, error)
}

// pageSource is the single fetch path for the crawler and every detector
type pageSource struct {
	client    Fetcher
	userAgent string
	logger    *logging.Logger

	// nil unless Options.ReuseBodies is set
	cache *bodyCache
}

func newPageSource(client Fetcher, logger *logging.Logger, opts Options) *pageSource {
	src := &pageSource{
		client:    client,
		userAgent: opts.UserAgent,
		logger:    logger,
	}
	if opts.ReuseBodies {
		src.cache = &bodyCache{bodies: make(map[string][]byte)}
	}
	return src
}

// fetch returns the response whatever its status
func (s *pageSource) fetch(ctx context.Context, url string) (*httpclient.Response, error) {
	return s.client.Get(ctx, url, s.userAgent)
}

// fetchPage returns a successful response or an error wrapping ErrUnexpectedStatus.
// Successful bodies are remembered when body reuse is on.
func (s *pageSource) fetchPage(ctx context.Context, url string) (*httpclient.Response, error) {
	resp, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if s.cache != nil {
		s.cache.put(url, resp.Body)
	}
	return resp, nil
}

// body returns the content of a visited page for a detector pass,
// from the crawl cache when possible
func (s *pageSource) body(ctx context.Context, url string) ([]byte, error) {
	if s.cache != nil {
		if b, ok := s.cache.get(url); ok {
			return b, nil
		}
	}
	resp, err := s.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// logFailure records a per-URL failure; it never escalates
func (s *pageSource) logFailure(stage, url string, err error) {
	errType, msg := ClassifyError(err)
	s.logger.Warn("Fetch failed", "stage", stage, "url", url, "error_type", errType, "error", msg)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

type bodyCache struct {
	mu     sync.RWMutex
	bodies map[string][]byte
}

func (c *bodyCache) put(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies[url] = body
}

func (c *bodyCache) get(url string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bodies[url]
	return b, ok
}
