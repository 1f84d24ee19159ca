package gomt

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used by TranslateAll when none is given.
const DefaultWorkers = 4

// TranslateAll translates several requests concurrently with at most
// workers in flight. Results are returned in input order. Requests for the
// same model share one pipeline load.
func (t *Translator) TranslateAll(ctx context.Context, reqs []Request, workers int) []Result {
	results := make([]Result, len(reqs))
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range reqs {
		g.Go(func() error {
			results[i] = t.Translate(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait() // Translate reports failures in Result

	return results
}
