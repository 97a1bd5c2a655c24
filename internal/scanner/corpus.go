package scanner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// scanCorpus runs scan over the body of every URL with at most limit
// fetches in flight. Per-page results are concatenated in the order of
// urls, so output order does not depend on which fetch finishes first.
// Pages that fail to fetch are logged and contribute nothing.
func scanCorpus[T any](ctx context.Context, src *pageSource, stage string, urls []string, limit int, scan func(url string, body []byte) []T) []T {
	perPage := make([][]T, len(urls))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			body, err := src.body(ctx, u)
			if err != nil {
				src.logFailure(stage, u, err)
				return nil
			}
			perPage[i] = scan(u, body)
			return nil
		})
	}
	_ = g.Wait()

	out := []T{}
	for _, records := range perPage {
		out = append(out, records...)
	}
	return out
}
