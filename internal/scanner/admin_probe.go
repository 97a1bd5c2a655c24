package scanner

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"
)

const (
	AdminTypeStandard  = "standard"
	AdminTypePotential = "potential"

	detectionDirectAccess = "direct_access"
)

// AdminPanelProbe requests a fixed list of administrative paths on the
// base URL. It does not use crawl results.
type AdminPanelProbe struct {
	source *pageSource
	paths  []string
	limit  int
}

// Probe returns one record per path that did not answer 404, in path order
func (p *AdminPanelProbe) Probe(ctx context.Context, baseURL string) []AdminPanel {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return []AdminPanel{}
	}

	targets := make([]string, 0, len(p.paths))
	for _, path := range p.paths {
		ref, err := url.Parse(path)
		if err != nil {
			continue
		}
		targets = append(targets, base.ResolveReference(ref).String())
	}

	results := make([]*AdminPanel, len(targets))
	var g errgroup.Group
	g.SetLimit(p.limit)
	for i, target := range targets {
		g.Go(func() error {
			resp, err := p.source.fetch(ctx, target)
			if err != nil {
				p.source.logFailure("admin", target, err)
				return nil
			}
			results[i] = classifyAdminResponse(target, resp.StatusCode)
			return nil
		})
	}
	_ = g.Wait()

	panels := []AdminPanel{}
	for _, r := range results {
		if r != nil {
			panels = append(panels, *r)
		}
	}
	return panels
}

// classifyAdminResponse maps a probe status to a record; 404 yields nil
func classifyAdminResponse(target string, status int) *AdminPanel {
	switch status {
	case http.StatusNotFound:
		return nil
	case http.StatusOK:
		return &AdminPanel{
			URL:             target,
			Type:            AdminTypeStandard,
			Confidence:      1.0,
			DetectionMethod: detectionDirectAccess,
			StatusCode:      status,
		}
	default:
		return &AdminPanel{
			URL:             target,
			Type:            AdminTypePotential,
			Confidence:      0.5,
			DetectionMethod: detectionDirectAccess,
			StatusCode:      status,
		}
	}
}
