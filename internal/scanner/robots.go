package scanner

import (
	"context"
	"net/url"
	"strings"
)

// RobotsReader turns robots.txt Disallow entries into hidden URL hints
type RobotsReader struct {
	source *pageSource
}

// ReadRobots fetches /robots.txt on the base URL's authority and returns
// each Disallow path resolved to an absolute URL, first occurrence order.
// Any failure yields an empty result.
func (r *RobotsReader) ReadRobots(ctx context.Context, baseURL string) []string {
	hidden := []string{}

	base, err := parseBaseURL(baseURL)
	if err != nil {
		return hidden
	}

	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	resp, err := r.source.fetchPage(ctx, robotsURL)
	if err != nil {
		r.source.logFailure("robots", robotsURL, err)
		return hidden
	}

	return parseDisallow(base, string(resp.Body))
}

// parseDisallow extracts Disallow values; empty values allow everything and are skipped
func parseDisallow(base *url.URL, body string) []string {
	hidden := []string{}
	seen := make(map[string]bool)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "disallow") {
			continue
		}
		path := strings.TrimSpace(value)
		if path == "" {
			continue
		}
		ref, err := url.Parse(path)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		hidden = append(hidden, abs)
	}

	return hidden
}
