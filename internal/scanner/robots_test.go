package scanner

import (
	"context"
	"net/url"
	"testing"
)

func TestParseDisallow(t *testing.T) {
	base, _ := url.Parse("https://example.com/")

	body := "User-agent: *\n" +
		"Disallow: /private/\n" +
		"disallow:/tmp\r\n" +
		"  Disallow:   /secret.html   \n" +
		"Disallow:\n" +
		"Allow: /public\n" +
		"Disallow: /private/\n" +
		"# Disallow: /commented\n"

	got := parseDisallow(base, body)
	want := []string{
		"https://example.com/private/",
		"https://example.com/tmp",
		"https://example.com/secret.html",
	}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestReadRobots(t *testing.T) {
	site := newTestSite(t, map[string]string{
		"/robots.txt": "User-agent: *\nDisallow: /admin-area\n",
	})

	reader := &RobotsReader{source: newTestSource(DefaultOptions())}
	got := reader.ReadRobots(context.Background(), site.URL+"/some/page")

	if len(got) != 1 || got[0] != site.url("/admin-area") {
		t.Errorf("expected [%s], got %v", site.url("/admin-area"), got)
	}
}

func TestReadRobots_MissingFileYieldsEmpty(t *testing.T) {
	site := newTestSite(t, map[string]string{})

	reader := &RobotsReader{source: newTestSource(DefaultOptions())}
	got := reader.ReadRobots(context.Background(), site.URL)

	if got == nil {
		t.Fatal("expected an empty, non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("expected no hidden URLs, got %v", got)
	}
}

func TestParseDisallow_KeepsColonsInPaths(t *testing.T) {
	base, _ := url.Parse("https://example.com/")

	got := parseDisallow(base, "DISALLOW : /a:b\nSitemap: https://example.com/sitemap.xml\n")
	if len(got) != 1 || got[0] != "https://example.com/a:b" {
		t.Errorf("expected [https://example.com/a:b], got %v", got)
	}
}
