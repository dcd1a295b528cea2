package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	DefaultDt          = 0.016
	DefaultSteps       = 1000
	DefaultSampleEvery = 10
	DefaultGridSpacing = 50.0
	DefaultGridAlpha   = 0.3
	DefaultFPS         = 60
	DefaultBodyMass    = 7.35e22
	DefaultBodyRadius  = 25.0
)

const (
	KindList        = "list"
	KindRandom      = "random"
	KindFigureEight = "figure-eight"
	KindCorners     = "corners"
	KindBinary      = "binary"
)

type Config struct {
	Name     string         `yaml:"name,omitempty"`
	Arena    ArenaConfig    `yaml:"arena"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Trail    TrailConfig    `yaml:"trail"`
	Radius   RadiusConfig   `yaml:"radius"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Run      RunConfig      `yaml:"run"`
	View     ViewConfig     `yaml:"view"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	G                  float64 `yaml:"g"`
	DistanceScale      float64 `yaml:"distance_scale"`
	Guard              string  `yaml:"guard"`
	MinDistance        float64 `yaml:"min_distance"`
	Softening          float64 `yaml:"softening"`
	Collisions         bool    `yaml:"collisions"`
	Restitution        float64 `yaml:"restitution"`
	CollisionDampening float64 `yaml:"collision_dampening"`
	MaxSpeed           float64 `yaml:"max_speed"`
	MaxDelta           float64 `yaml:"max_delta"`
}

type TrailConfig struct {
	Capacity    int     `yaml:"capacity"`
	MinDistance float64 `yaml:"min_distance"`
}

type RadiusConfig struct {
	Model  string  `yaml:"model"`
	Base   float64 `yaml:"base"`
	Offset float64 `yaml:"offset"`
	Slope  float64 `yaml:"slope"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// ScenarioConfig selects how the initial bodies are produced. Kind "list"
// uses Bodies verbatim; the other kinds read the generator fields.
type ScenarioConfig struct {
	Kind string `yaml:"kind"`
	Seed int64  `yaml:"seed"`

	Count    int     `yaml:"count"`
	MassMin  float64 `yaml:"mass_min"`
	MassMax  float64 `yaml:"mass_max"`
	SpeedMax float64 `yaml:"speed_max"`
	Margin   float64 `yaml:"margin"`

	// Mass, Radius and Scale parameterise corners, binary and figure-eight.
	// Scale is the orbit length for figure-eight and the separation for
	// binary.
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
	Scale  float64 `yaml:"scale"`

	Bodies []BodyConfig `yaml:"bodies,omitempty"`
}

type BodyConfig struct {
	Pos     [2]float64 `yaml:"pos,flow"`
	Vel     [2]float64 `yaml:"vel,flow"`
	Mass    float64    `yaml:"mass"`
	Radius  float64    `yaml:"radius,omitempty"`
	Density float64    `yaml:"density,omitempty"`
	Color   string     `yaml:"color,omitempty"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	SampleEvery int     `yaml:"sample_every"`
}

type ViewConfig struct {
	GridSpacing float64 `yaml:"grid_spacing"`
	GridAlpha   float64 `yaml:"grid_alpha"`
	FPS         int     `yaml:"fps"`
	Grid        bool    `yaml:"grid"`
	Trails      bool    `yaml:"trails"`
}

func DefaultConfig() *Config {
	sc := sim.DefaultConfig()
	rm := physics.DefaultRadiusModel()
	return &Config{
		Name: "default",
		Arena: ArenaConfig{
			Width:  sim.DefaultWidth,
			Height: sim.DefaultHeight,
		},
		Physics: PhysicsConfig{
			G:                  sc.G,
			DistanceScale:      sc.DistanceScale,
			Guard:              sc.Guard.String(),
			MinDistance:        sc.MinDistance,
			Softening:          sc.Softening,
			Collisions:         sc.Collisions,
			Restitution:        sc.Restitution,
			CollisionDampening: sc.CollisionDampening,
			MaxSpeed:           sc.MaxSpeed,
			MaxDelta:           sc.MaxDelta,
		},
		Trail: TrailConfig{
			Capacity:    physics.DefaultTrailCapacity,
			MinDistance: physics.DefaultTrailMinDistance,
		},
		Radius: RadiusConfig{
			Model:  string(rm.Kind),
			Base:   rm.Base,
			Offset: rm.Offset,
			Slope:  rm.Slope,
			Min:    rm.Min,
			Max:    rm.Max,
		},
		Scenario: ScenarioConfig{
			Kind:   KindCorners,
			Mass:   DefaultBodyMass,
			Radius: DefaultBodyRadius,
		},
		Run: RunConfig{
			Dt:          DefaultDt,
			Steps:       DefaultSteps,
			SampleEvery: DefaultSampleEvery,
		},
		View: ViewConfig{
			GridSpacing: DefaultGridSpacing,
			GridAlpha:   DefaultGridAlpha,
			FPS:         DefaultFPS,
			Grid:        true,
			Trails:      true,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig converts the physics and arena sections.
func (c *Config) SimConfig() (sim.Config, error) {
	guard, err := physics.ParseGuard(c.Physics.Guard)
	if err != nil {
		return sim.Config{}, fmt.Errorf("%w: %w", sim.ErrInvalidConfig, err)
	}
	return sim.Config{
		Arena:              physics.Arena(c.Arena.Width, c.Arena.Height),
		G:                  c.Physics.G,
		DistanceScale:      c.Physics.DistanceScale,
		Guard:              guard,
		MinDistance:        c.Physics.MinDistance,
		Softening:          c.Physics.Softening,
		Collisions:         c.Physics.Collisions,
		Restitution:        c.Physics.Restitution,
		CollisionDampening: c.Physics.CollisionDampening,
		MaxSpeed:           c.Physics.MaxSpeed,
		MaxDelta:           c.Physics.MaxDelta,
	}, nil
}

func (c *Config) RadiusModel() (physics.RadiusModel, error) {
	kind, err := physics.ParseRadiusKind(c.Radius.Model)
	if err != nil {
		return physics.RadiusModel{}, fmt.Errorf("%w: %w", sim.ErrInvalidConfig, err)
	}
	return physics.RadiusModel{
		Kind:   kind,
		Base:   c.Radius.Base,
		Offset: c.Radius.Offset,
		Slope:  c.Radius.Slope,
		Min:    c.Radius.Min,
		Max:    c.Radius.Max,
	}, nil
}

func (c *Config) SimRunConfig() sim.RunConfig {
	return sim.RunConfig{
		Delta:       c.Run.Dt,
		Steps:       c.Run.Steps,
		SampleEvery: c.Run.SampleEvery,
	}
}

// Validate reports every problem found, each wrapping sim.ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{sim.ErrInvalidConfig}, args...)...))
	}

	if sc, err := c.SimConfig(); err != nil {
		errs = append(errs, err)
	} else if err := sc.Validate(); err != nil {
		errs = append(errs, err)
	}

	if rm, err := c.RadiusModel(); err != nil {
		errs = append(errs, err)
	} else if rm.Min <= 0 || rm.Max < rm.Min {
		bad("radius range must satisfy 0 < min <= max, got [%g, %g]", rm.Min, rm.Max)
	}

	// A disc wider than the arena has no position clear of both walls.
	if fit := min(c.Arena.Width, c.Arena.Height) / 2; fit > 0 {
		if c.Radius.Max >= fit {
			bad("radius max %g must be below half the arena's short side (%g)", c.Radius.Max, fit)
		}
		if c.Scenario.Radius >= fit {
			bad("scenario radius %g must be below half the arena's short side (%g)", c.Scenario.Radius, fit)
		}
		for i, b := range c.Scenario.Bodies {
			if b.Radius >= fit {
				bad("body %d: radius %g must be below half the arena's short side (%g)", i, b.Radius, fit)
			}
		}
	}

	if c.Trail.Capacity < 0 {
		bad("trail capacity must be non-negative, got %d", c.Trail.Capacity)
	}
	if c.Trail.MinDistance < 0 {
		bad("trail min distance must be non-negative, got %g", c.Trail.MinDistance)
	}

	errs = append(errs, c.Scenario.validate()...)

	if c.Run.Dt <= 0 {
		bad("run dt must be positive, got %f", c.Run.Dt)
	}
	if c.Run.Steps <= 0 {
		bad("run steps must be positive, got %d", c.Run.Steps)
	}
	if c.Run.SampleEvery < 0 {
		bad("run sample_every must be non-negative, got %d", c.Run.SampleEvery)
	}
	if c.View.GridSpacing <= 0 {
		bad("grid spacing must be positive, got %g", c.View.GridSpacing)
	}
	if c.View.GridAlpha < 0 || c.View.GridAlpha > 1 {
		bad("grid alpha must be in [0, 1], got %g", c.View.GridAlpha)
	}
	if c.View.FPS <= 0 {
		bad("fps must be positive, got %d", c.View.FPS)
	}
	return errors.Join(errs...)
}

func (s ScenarioConfig) validate() []error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: scenario: "+format, append([]any{sim.ErrInvalidConfig}, args...)...))
	}

	switch s.Kind {
	case KindList:
		if len(s.Bodies) == 0 {
			bad("list needs at least one body")
		}
	case KindRandom:
		if s.Count <= 0 {
			bad("random count must be positive, got %d", s.Count)
		}
		if s.MassMin <= 0 || s.MassMax < s.MassMin {
			bad("mass range must satisfy 0 < min <= max, got [%g, %g]", s.MassMin, s.MassMax)
		}
		if s.SpeedMax < 0 {
			bad("speed max must be non-negative, got %g", s.SpeedMax)
		}
		if s.Margin < 0 {
			bad("margin must be non-negative, got %g", s.Margin)
		}
	case KindFigureEight, KindBinary:
		if s.Scale <= 0 {
			bad("%s scale must be positive, got %g", s.Kind, s.Scale)
		}
		fallthrough
	case KindCorners:
		if s.Mass <= 0 {
			bad("%s mass must be positive, got %g", s.Kind, s.Mass)
		}
	default:
		bad("unknown kind %q", s.Kind)
	}

	for i, b := range s.Bodies {
		if b.Mass <= 0 {
			bad("body %d: mass must be positive, got %g", i, b.Mass)
		}
		if b.Color != "" {
			if _, err := colorful.Hex(b.Color); err != nil {
				bad("body %d: color %q: %v", i, b.Color, err)
			}
		}
	}
	return errs
}
