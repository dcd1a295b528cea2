package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is a configured simulation together with its metrics.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulation
	metrics   []sim.Metric
}

type Options struct {
	Logger *log.Logger
	// SpeedThreshold enables the stability metric when positive.
	SpeedThreshold float64
	Registry       *scenario.Registry
}

// New validates cfg, builds its bodies and wires the standard metrics.
func New(cfg *config.Config, opts Options) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sc, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	reg := opts.Registry
	if reg == nil {
		reg = scenario.NewRegistry()
	}
	bodies, err := reg.Build(cfg)
	if err != nil {
		return nil, err
	}

	ms := metrics.Standard(opts.SpeedThreshold)
	simOpts := []sim.Option{sim.WithLogger(opts.Logger)}
	for _, m := range ms {
		simOpts = append(simOpts, sim.WithMetric(m))
	}
	s, err := sim.New(sc, bodies, simOpts...)
	if err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		opts.Logger.Debug("experiment ready", "scenario", cfg.Scenario.Kind, "bodies", len(bodies), "guard", sc.Guard)
	}
	return &Experiment{cfg: cfg, simulator: s, metrics: ms}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.cfg.SimRunConfig())
}

// GetSimulator returns the underlying simulation for adding observers
func (e *Experiment) GetSimulator() *sim.Simulation {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Metrics() []sim.Metric { return e.metrics }

// Factory returns an ensemble factory that rebuilds cfg with the scenario
// seed replaced. Each simulation gets its own bodies and metrics. The
// ensemble reports the seed of a failed build.
func Factory(cfg *config.Config, opts Options) sim.Factory {
	return func(seed int64) (*sim.Simulation, error) {
		c := *cfg
		c.Scenario.Seed = seed
		c.Scenario.Bodies = append([]config.BodyConfig(nil), cfg.Scenario.Bodies...)
		e, err := New(&c, opts)
		if err != nil {
			return nil, fmt.Errorf("build experiment: %w", err)
		}
		return e.simulator, nil
	}
}
