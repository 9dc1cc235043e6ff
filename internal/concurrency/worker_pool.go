package concurrency

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

type WorkerFn[In, Out any] func(ctx context.Context, index int, in In) (Out, error)

// MapOrdered fans inputs out to at most `workers` goroutines and returns the
// outputs in input order. The first error cancels the remaining work.
func MapOrdered[In, Out any](ctx context.Context, workers int, inputs []In, fn WorkerFn[In, Out]) ([]Out, error) {
	if workers < 1 {
		workers = 1
	}

	out := make([]Out, len(inputs))
	p := pool.New().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, in := range inputs {
		i, in := i, in
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := fn(ctx, i, in)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
