package scanner

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/olegrjumin/sitescan/internal/httpclient"
	"github.com/olegrjumin/sitescan/internal/logging"
)

// Crawler discovers same-domain pages depth first and builds the page tree.
// Each discovered link is fetched in its own goroutine; a page's subtree is
// complete once all of its children have returned.
type Crawler struct {
	source  *pageSource
	visited *VisitedSet
	logger  *logging.Logger

	// limits fetches in flight, nil when unbounded
	sem *semaphore.Weighted

	base *url.URL
}

// NewCrawler creates a crawler that records into visited
func NewCrawler(client Fetcher, visited *VisitedSet, logger *logging.Logger, opts Options) *Crawler {
	opts = opts.withDefaults()
	return newCrawler(newPageSource(client, logger, opts), visited, logger, opts)
}

func newCrawler(source *pageSource, visited *VisitedSet, logger *logging.Logger, opts Options) *Crawler {
	c := &Crawler{
		source:  source,
		visited: visited,
		logger:  logger,
	}
	if opts.MaxInFlight > 0 {
		c.sem = semaphore.NewWeighted(int64(opts.MaxInFlight))
	}
	return c
}

// Crawl fetches baseURL and everything reachable from it on the same
// authority. The returned root represents baseURL itself; when the base
// page cannot be fetched the root has no title and no children.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*PageNode, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c.base = base

	rootURL := canonicalURL(base)
	root := newPageNode(rootURL)

	if !c.visited.Claim(rootURL) {
		return root, nil
	}

	links, ok := c.visit(ctx, root)
	if ok {
		root.Children = c.expand(ctx, links)
	}

	c.logger.Info("Crawl finished", "base_url", rootURL, "visited", c.visited.Len())
	return root, nil
}

// crawlPage fetches an already claimed URL. It returns nil when the page
// could not be fetched or parsed.
func (c *Crawler) crawlPage(ctx context.Context, pageURL string) *PageNode {
	node := newPageNode(pageURL)
	links, ok := c.visit(ctx, node)
	if !ok {
		return nil
	}
	node.Children = c.expand(ctx, links)
	return node
}

// visit fetches and parses node's URL, filling in title and metadata
func (c *Crawler) visit(ctx context.Context, node *PageNode) ([]string, bool) {
	resp, err := c.fetch(ctx, node.URL)
	if err != nil {
		c.source.logFailure("crawl", node.URL, err)
		return nil, false
	}

	parser, err := NewHTMLParser(node.URL)
	if err != nil {
		c.source.logFailure("crawl", node.URL, err)
		return nil, false
	}
	page, err := parser.Parse(resp.Body)
	if err != nil {
		c.logger.Warn("Parse failed", "stage", "crawl", "url", node.URL, "error_type", ErrorParse, "error", err)
		return nil, false
	}

	node.Title = page.Title
	node.Metadata = pageMetadata(resp)
	c.logger.Debug("Page crawled", "url", node.URL, "links", len(page.Links))

	return page.Links, true
}

// expand claims every unvisited same-domain link in document order and
// crawls the claimed ones concurrently. Children come back in claim order.
func (c *Crawler) expand(ctx context.Context, links []string) []*PageNode {
	var claimed []string
	for _, link := range links {
		if !c.sameAuthority(link) {
			continue
		}
		if c.visited.Claim(link) {
			claimed = append(claimed, link)
		}
	}
	if len(claimed) == 0 {
		return []*PageNode{}
	}

	results := make([]*PageNode, len(claimed))
	var wg sync.WaitGroup
	for i, link := range claimed {
		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()
			results[i] = c.crawlPage(ctx, link)
		}(i, link)
	}
	wg.Wait()

	children := make([]*PageNode, 0, len(results))
	for _, child := range results {
		if child != nil {
			children = append(children, child)
		}
	}
	return children
}

// fetch holds a semaphore slot only for the request itself so that
// recursion never waits on its own ancestors
func (c *Crawler) fetch(ctx context.Context, pageURL string) (*httpclient.Response, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer c.sem.Release(1)
	}
	return c.source.fetchPage(ctx, pageURL)
}

// sameAuthority compares scheme and host (including port) with the base URL
func (c *Crawler) sameAuthority(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme == c.base.Scheme && strings.EqualFold(u.Host, c.base.Host)
}

func pageMetadata(resp *httpclient.Response) map[string]interface{} {
	meta := map[string]interface{}{
		"status_code": resp.StatusCode,
		"proto":       resp.Proto,
		"dns_ms":      resp.Timings.DNS().Milliseconds(),
		"connect_ms":  resp.Timings.Connect().Milliseconds(),
		"tls_ms":      resp.Timings.TLS().Milliseconds(),
		"ttfb_ms":     resp.Timings.TTFB().Milliseconds(),
		"total_ms":    resp.Timings.Total().Milliseconds(),
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		meta["content_type"] = ct
	}
	return meta
}

// parseBaseURL accepts absolute http and https URLs only
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidBaseURL
	}
	return u, nil
}

// canonicalURL drops the fragment and gives host-only URLs a "/" path
func canonicalURL(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" && c.Opaque == "" {
		c.Path = "/"
	}
	return c.String()
}
