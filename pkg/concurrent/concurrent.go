package concurrent

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element of the sequence in its own goroutine,
// at most limit at a time (limit <= 0 means unbounded). It waits for all
// goroutines and returns the first error; the context passed to action is
// cancelled once any action fails.
func Concurrent[T any](ctx context.Context, items iter.Seq[T], limit int, action func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for value := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(gctx, value)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
