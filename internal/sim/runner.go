package sim

import (
	"context"
	"fmt"
)

// Run steps the simulation rc.Steps times with a fixed delta. Metrics are
// reset and observe the initial frame before the first step. On
// cancellation or a step failure the partial result is returned with the
// error.
func (s *Simulation) Run(ctx context.Context, rc RunConfig) (*Result, error) {
	if err := validateRun(rc); err != nil {
		return nil, err
	}

	every := rc.SampleEvery
	if every <= 0 {
		every = 1
	}
	samples := rc.Steps/every + 1
	result := &Result{
		Times:   make([]float64, 0, samples),
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}

	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}
	s.notify(s.Frame())
	s.sample(result)

	for i := 0; i < rc.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		if err := s.Step(rc.Delta); err != nil {
			s.finish(result)
			return result, err
		}
		result.StepsTaken++

		if result.StepsTaken%every == 0 {
			s.sample(result)
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulation) sample(r *Result) {
	r.Times = append(r.Times, s.time)
	for _, m := range s.metrics {
		r.Series[m.Name()] = append(r.Series[m.Name()], m.Value())
	}
}

func (s *Simulation) finish(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func validateRun(rc RunConfig) error {
	if !positive(rc.Delta) {
		return fmt.Errorf("%w: delta must be positive, got %f", ErrInvalidConfig, rc.Delta)
	}
	if rc.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, rc.Steps)
	}
	if rc.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must be non-negative, got %d", ErrInvalidConfig, rc.SampleEvery)
	}
	return nil
}
