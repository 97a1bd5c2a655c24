package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/olegrjumin/sitescan/internal/httpclient"
	"github.com/olegrjumin/sitescan/internal/logging"
)

// testSite serves fixed HTML pages by path and answers 404 for everything else
type testSite struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func newTestSite(t *testing.T, pages map[string]string) *testSite {
	t.Helper()

	site := &testSite{hits: make(map[string]int)}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.hits[r.URL.Path]++
		site.mu.Unlock()

		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(site.Close)
	return site
}

func (s *testSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *testSite) url(path string) string {
	return s.URL + path
}

func newTestClient() *httpclient.Client {
	return httpclient.NewClient(httpclient.WithTimeout(5 * time.Second))
}

func newTestSource(opts Options) *pageSource {
	return newPageSource(newTestClient(), logging.Discard(), opts.withDefaults())
}

// fetcherFunc adapts a function to Fetcher
type fetcherFunc func(ctx context.Context, url, userAgent string) (*httpclient.Response, error)

func (f fetcherFunc) Get(ctx context.Context, url, userAgent string) (*httpclient.Response, error) {
	return f(ctx, url, userAgent)
}

func mustSignatures(t *testing.T) *Signatures {
	t.Helper()
	sigs, err := LoadSignatures()
	if err != nil {
		t.Fatalf("failed to load signatures: %v", err)
	}
	return sigs
}
