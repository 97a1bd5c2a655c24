package scanner

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	anchorSelector = cascadia.MustCompile("a[href]")
	titleSelector  = cascadia.MustCompile("title")
)

// parsedPage holds what the crawler needs from one document
type parsedPage struct {
	Title *string
	Links []string // absolute, fragment-free, in document order
}

// HTMLParser extracts the title and anchor targets of a page
type HTMLParser struct {
	baseURL  *url.URL
	maxLinks int
}

// NewHTMLParser creates a parser that resolves links against pageURL
func NewHTMLParser(pageURL string) (*HTMLParser, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &HTMLParser{
		baseURL:  u,
		maxLinks: 10000, // Safety limit
	}, nil
}

// Parse parses body as HTML
func (p *HTMLParser) Parse(body []byte) (*parsedPage, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	page := &parsedPage{}

	if n := titleSelector.MatchFirst(doc); n != nil {
		title := strings.TrimSpace(textContent(n))
		page.Title = &title
	}

	for _, a := range anchorSelector.MatchAll(doc) {
		if len(page.Links) >= p.maxLinks {
			break
		}
		href := strings.TrimSpace(attr(a, "href"))
		// Skip in-page anchors and script pseudo-links
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			continue
		}
		if abs, ok := p.resolveURL(href); ok {
			page.Links = append(page.Links, abs)
		}
	}

	return page, nil
}

// resolveURL resolves a potentially relative URL to its canonical absolute form
func (p *HTMLParser) resolveURL(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return canonicalURL(p.baseURL.ResolveReference(u)), true
}

// attr returns the value of the named attribute, or ""
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates the text nodes below n
func textContent(n *html.Node) string {
	var text strings.Builder

	var extract func(*html.Node)
	extract = func(node *html.Node) {
		if node.Type == html.TextNode {
			text.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(n)
	return text.String()
}
