package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

type Option func(*Simulation)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

func WithMetric(m Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, m) }
}

type Simulation struct {
	cfg      Config
	gravity  physics.Gravity
	collider physics.Collider
	bodies   []*physics.Body

	time    float64
	steps   int
	scratch []r2.Vec

	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(cfg Config, bodies []*physics.Body, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	for i, b := range bodies {
		if b == nil || !b.Valid() {
			return nil, &StepError{Body: i, Err: ErrInvalidState}
		}
	}

	s := &Simulation{
		cfg:      cfg,
		gravity:  cfg.gravity(),
		collider: physics.Collider{Dampening: cfg.CollisionDampening},
		bodies:   bodies,
		scratch:  make([]r2.Vec, len(bodies)),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances the simulation by delta seconds. Deltas above MaxDelta are
// clamped; negative or non-finite deltas are rejected without touching any
// body.
func (s *Simulation) Step(delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidDelta, delta)
	}
	if delta > s.cfg.MaxDelta {
		s.logger.Debug("delta clamped", "delta", delta, "max", s.cfg.MaxDelta)
		delta = s.cfg.MaxDelta
	}

	s.scratch = s.gravity.Apply(s.bodies, delta, s.scratch)

	for _, b := range s.bodies {
		b.Integrate(delta, s.cfg.MaxSpeed)
	}

	var contacts []physics.Contact
	if s.cfg.Collisions {
		contacts = s.collider.ResolveAll(s.bodies)
		for _, c := range contacts {
			if c.Coincident {
				s.logger.Debug("coincident collision", "a", c.A, "b", c.B, "step", s.steps+1)
			}
		}
	}

	bounces := 0
	for _, b := range s.bodies {
		bx, by := b.Reflect(s.cfg.Arena, s.cfg.Restitution)
		if bx {
			bounces++
		}
		if by {
			bounces++
		}
	}

	s.time += delta
	s.steps++

	for i, b := range s.bodies {
		if !b.Valid() {
			return &StepError{Step: s.steps, Time: s.time, Body: i, Err: ErrInvalidState}
		}
	}

	f := s.Frame()
	f.Bounces = bounces
	f.Contacts = contacts
	s.notify(f)
	return nil
}

func (s *Simulation) notify(f Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
}

// Frame returns the current state without bounce or contact information.
func (s *Simulation) Frame() Frame {
	return Frame{
		Bodies:  s.bodies,
		Gravity: s.gravity,
		Time:    s.time,
		Step:    s.steps,
	}
}

func (s *Simulation) Bodies() []*physics.Body  { return s.bodies }
func (s *Simulation) Time() float64            { return s.time }
func (s *Simulation) Steps() int               { return s.steps }
func (s *Simulation) Config() Config           { return s.cfg }
func (s *Simulation) Gravity() physics.Gravity { return s.gravity }
func (s *Simulation) Collisions() bool         { return s.cfg.Collisions }

func (s *Simulation) SetCollisions(on bool) {
	s.cfg.Collisions = on
	s.logger.Debug("collisions toggled", "enabled", on)
}
