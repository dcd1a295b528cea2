package scenario

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/physics"
)

// Builder produces the initial bodies for a configuration. A zero Color is
// filled in from the palette afterwards.
type Builder func(cfg *config.Config) ([]physics.BodyConfig, error)

type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.builders[config.KindList] = List
	r.builders[config.KindRandom] = Random
	r.builders[config.KindFigureEight] = FigureEight
	r.builders[config.KindCorners] = Corners
	r.builders[config.KindBinary] = Binary

	return r
}

func (r *Registry) Register(name string, b Builder) { r.builders[name] = b }

func (r *Registry) Get(name string) (Builder, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return b, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build runs the builder selected by cfg.Scenario.Kind and turns its output
// into bodies using the configured radius model and trail settings.
func (r *Registry) Build(cfg *config.Config) ([]*physics.Body, error) {
	build, err := r.Get(cfg.Scenario.Kind)
	if err != nil {
		return nil, err
	}
	rm, err := cfg.RadiusModel()
	if err != nil {
		return nil, err
	}

	specs, err := build(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario.Kind, err)
	}
	palette := Palette(len(specs))

	bodies := make([]*physics.Body, len(specs))
	for i, spec := range specs {
		if spec.Color == nil {
			spec.Color = &palette[i]
		}
		b, err := physics.NewBody(spec, rm, cfg.Trail.Capacity, cfg.Trail.MinDistance)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: body %d: %w", cfg.Scenario.Kind, i, err)
		}
		bodies[i] = b
	}
	return bodies, nil
}

// Build uses the built-in registry.
func Build(cfg *config.Config) ([]*physics.Body, error) {
	return NewRegistry().Build(cfg)
}

// Palette returns n colours with evenly spaced hues.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hsv(360*float64(i)/float64(max(n, 1)), 0.65, 0.95)
	}
	return out
}

func arenaCentre(cfg *config.Config) r2.Vec {
	return r2.Vec{X: cfg.Arena.Width / 2, Y: cfg.Arena.Height / 2}
}

// effectiveG folds the distance scale into G so orbital speeds can be
// computed in world units.
func effectiveG(cfg *config.Config) float64 {
	s := cfg.Physics.DistanceScale
	if s <= 0 {
		s = 1
	}
	return cfg.Physics.G / (s * s)
}
