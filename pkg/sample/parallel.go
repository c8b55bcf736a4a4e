package sample

import (
	"context"
	"math/rand/v2"

	"github.com/chazu/detgeom/pkg/kernel"
	"golang.org/x/sync/errgroup"
)

// Parallel draws n points using the given number of workers. Worker i owns
// the PCG stream (seed, i) and produces its share of n; shares are
// concatenated in worker order, so the result depends only on seed, n and
// workers. Cancelling ctx stops every worker between draws. An attempt
// budget set with WithMaxAttempts applies to each worker separately.
func Parallel(ctx context.Context, d Region, n int, b Bounds, clearance float64, seed uint64, workers int, opts ...Option) ([]kernel.CylPoint, error) {
	if workers < 1 {
		workers = 1
	}
	if n <= 0 {
		return nil, nil
	}
	if workers > n {
		workers = n
	}
	s := newSettings(opts)

	shares := make([][]kernel.CylPoint, workers)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		share := n / workers
		if i < n%workers {
			share++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			pts, err := run(d, share, b, clearance, rng, s, ctx.Err)
			shares[i] = pts
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]kernel.CylPoint, 0, n)
	for _, pts := range shares {
		out = append(out, pts...)
	}
	return out, nil
}
