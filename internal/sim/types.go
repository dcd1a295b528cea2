package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

const (
	DefaultG             = 6.7943e-11
	DefaultWidth         = 1200.0
	DefaultHeight        = 800.0
	DefaultDistanceScale = 1.0
	DefaultMinDistance   = 1.0
	DefaultSoftening     = 1.0
	DefaultRestitution   = 0.9
	DefaultMaxDelta      = 0.1
)

type Config struct {
	Arena r2.Box

	G             float64
	DistanceScale float64
	Guard         physics.Guard
	MinDistance   float64
	Softening     float64

	Collisions         bool
	Restitution        float64
	CollisionDampening float64

	// MaxSpeed of zero disables the speed ceiling.
	MaxSpeed float64
	MaxDelta float64
}

func DefaultConfig() Config {
	return Config{
		Arena:              physics.Arena(DefaultWidth, DefaultHeight),
		G:                  DefaultG,
		DistanceScale:      DefaultDistanceScale,
		Guard:              physics.GuardFloor,
		MinDistance:        DefaultMinDistance,
		Softening:          DefaultSoftening,
		Restitution:        DefaultRestitution,
		CollisionDampening: physics.DefaultCollisionDampening,
		MaxDelta:           DefaultMaxDelta,
	}
}

// Validate reports every violation at once, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !(c.Arena.Max.X > c.Arena.Min.X) || !(c.Arena.Max.Y > c.Arena.Min.Y) {
		bad("arena must have positive size, got %v", c.Arena)
	}
	if !positive(c.G) {
		bad("g must be positive, got %g", c.G)
	}
	if !positive(c.DistanceScale) {
		bad("distance scale must be positive, got %g", c.DistanceScale)
	}
	switch c.Guard {
	case physics.GuardFloor:
		if !positive(c.MinDistance) {
			bad("min distance must be positive for the floor guard, got %g", c.MinDistance)
		}
	case physics.GuardSoftening:
		if !positive(c.Softening) {
			bad("softening must be positive for the softening guard, got %g", c.Softening)
		}
	default:
		bad("unknown guard %v", c.Guard)
	}
	if c.Restitution < 0 || c.Restitution > 1 || math.IsNaN(c.Restitution) {
		bad("restitution must be in [0, 1], got %g", c.Restitution)
	}
	if c.CollisionDampening < 0 || c.CollisionDampening > 1 || math.IsNaN(c.CollisionDampening) {
		bad("collision dampening must be in [0, 1], got %g", c.CollisionDampening)
	}
	if c.MaxSpeed < 0 || math.IsNaN(c.MaxSpeed) {
		bad("max speed must be non-negative, got %g", c.MaxSpeed)
	}
	if !positive(c.MaxDelta) {
		bad("max delta must be positive, got %g", c.MaxDelta)
	}
	return errors.Join(errs...)
}

func (c Config) gravity() physics.Gravity {
	return physics.Gravity{
		G:           c.G,
		Scale:       c.DistanceScale,
		Guard:       c.Guard,
		MinDistance: c.MinDistance,
		Softening:   c.Softening,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Frame is the state handed to metrics and observers after a step.
type Frame struct {
	Bodies   []*physics.Body
	Gravity  physics.Gravity
	Time     float64
	Step     int
	Bounces  int
	Contacts []physics.Contact
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }

type RunConfig struct {
	Delta float64
	Steps int
	// SampleEvery controls how often metric values are recorded into
	// Result.Series. Zero records every step.
	SampleEvery int
}

type Result struct {
	Times      []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
}
