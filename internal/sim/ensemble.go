package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulation for a seed. Each call must
// return fresh bodies and metrics.
type Factory func(seed int64) (*Simulation, error)

type Ensemble struct {
	factory Factory
	limit   int
}

func NewEnsemble(f Factory) *Ensemble {
	return &Ensemble{factory: f, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit bounds the number of simulations running at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run executes n simulations seeded seedStart, seedStart+1, ... and returns
// their results in seed order. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, n int, seedStart int64, rc RunConfig) ([]*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: run count must be positive, got %d", ErrInvalidConfig, n)
	}

	results := make([]*Result, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i := 0; i < n; i++ {
		i := i
		seed := seedStart + int64(i)
		g.Go(func() error {
			s, err := e.factory(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res, err := s.Run(ctx, rc)
			results[i] = res
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
