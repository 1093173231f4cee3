package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/rcbeam/internal/design"
)

// Item is one batch entry. Exactly one of Result and Error is set.
type Item struct {
	Index  int            `json:"index"`
	Result *design.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Batch designs every request concurrently and returns the items in input
// order. A failed request is reported in its item; the returned error is
// only the context's.
func (e *Engine) Batch(ctx context.Context, reqs []design.Request) ([]Item, error) {
	start := time.Now()
	items := make([]Item, len(reqs))
	e.metrics.batchSize.Observe(float64(len(reqs)))

	g, gCtx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i, req := range reqs {
		g.Go(func() error {
			items[i].Index = i
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := e.Design(req)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, it := range items {
		if it.Error != "" || (it.Result != nil && it.Result.Status != design.StatusPass) {
			failed++
		}
	}
	e.logger.Info("batch complete",
		"requests", len(reqs),
		"not_passing", failed,
		"workers", e.workers,
		"duration", time.Since(start))
	return items, nil
}
