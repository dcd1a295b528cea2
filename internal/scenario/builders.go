package scenario

import (
	"errors"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/physics"
)

// List returns the explicitly configured bodies.
func List(cfg *config.Config) ([]physics.BodyConfig, error) {
	if len(cfg.Scenario.Bodies) == 0 {
		return nil, errors.New("no bodies listed")
	}
	out := make([]physics.BodyConfig, len(cfg.Scenario.Bodies))
	for i, b := range cfg.Scenario.Bodies {
		out[i] = physics.BodyConfig{
			Pos:     r2.Vec{X: b.Pos[0], Y: b.Pos[1]},
			Vel:     r2.Vec{X: b.Vel[0], Y: b.Vel[1]},
			Mass:    b.Mass,
			Radius:  b.Radius,
			Density: b.Density,
		}
		if b.Color != "" {
			c, err := colorful.Hex(b.Color)
			if err != nil {
				return nil, err
			}
			out[i].Color = &c
		}
	}
	return out, nil
}

// Random scatters Count bodies inside the arena, Margin away from the walls,
// with log-uniform masses and headings drawn uniformly. The same seed always
// yields the same bodies.
func Random(cfg *config.Config) ([]physics.BodyConfig, error) {
	s := cfg.Scenario
	if s.Count <= 0 {
		return nil, errors.New("count must be positive")
	}
	if s.MassMin <= 0 || s.MassMax < s.MassMin {
		return nil, errors.New("invalid mass range")
	}
	margin := s.Margin
	if 2*margin >= cfg.Arena.Width || 2*margin >= cfg.Arena.Height {
		return nil, errors.New("margin leaves no room in the arena")
	}

	rng := rand.New(rand.NewSource(s.Seed))
	lo, hi := math.Log(s.MassMin), math.Log(s.MassMax)

	out := make([]physics.BodyConfig, s.Count)
	for i := range out {
		pos := r2.Vec{
			X: margin + rng.Float64()*(cfg.Arena.Width-2*margin),
			Y: margin + rng.Float64()*(cfg.Arena.Height-2*margin),
		}
		angle := rng.Float64() * 2 * math.Pi
		speed := rng.Float64() * s.SpeedMax
		out[i] = physics.BodyConfig{
			Pos:  pos,
			Vel:  r2.Vec{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)},
			Mass: math.Exp(lo + rng.Float64()*(hi-lo)),
		}
	}
	return out, nil
}

// Chenciner-Montgomery figure-eight initial conditions for G = m = 1.
var (
	eightPos = r2.Vec{X: 0.97000436, Y: -0.24308753}
	eightVel = r2.Vec{X: -0.93240737, Y: -0.86473146}
)

// FigureEight places three equal masses on the periodic figure-eight orbit,
// scaled to length Scale around the arena centre.
func FigureEight(cfg *config.Config) ([]physics.BodyConfig, error) {
	s := cfg.Scenario
	if s.Scale <= 0 || s.Mass <= 0 {
		return nil, errors.New("figure-eight needs positive scale and mass")
	}
	c := arenaCentre(cfg)
	vs := math.Sqrt(effectiveG(cfg) * s.Mass / s.Scale)
	v1 := r2.Scale(-0.5, eightVel)

	pos := [3]r2.Vec{eightPos, r2.Scale(-1, eightPos), {}}
	vel := [3]r2.Vec{v1, v1, eightVel}

	out := make([]physics.BodyConfig, 3)
	for i := range out {
		out[i] = physics.BodyConfig{
			Pos:    r2.Add(c, r2.Scale(s.Scale, pos[i])),
			Vel:    r2.Scale(vs, vel[i]),
			Mass:   s.Mass,
			Radius: s.Radius,
		}
	}
	return out, nil
}

// Corners puts one resting body on each arena corner and one in the centre.
func Corners(cfg *config.Config) ([]physics.BodyConfig, error) {
	s := cfg.Scenario
	if s.Mass <= 0 {
		return nil, errors.New("corners needs a positive mass")
	}
	w, h := cfg.Arena.Width, cfg.Arena.Height
	pts := []r2.Vec{{}, {Y: h}, {X: w}, {X: w, Y: h}, {X: w / 2, Y: h / 2}}

	out := make([]physics.BodyConfig, len(pts))
	for i, p := range pts {
		out[i] = physics.BodyConfig{Pos: p, Mass: s.Mass, Radius: s.Radius}
	}
	return out, nil
}

// Binary places two equal masses Scale apart on a circular orbit about the
// arena centre.
func Binary(cfg *config.Config) ([]physics.BodyConfig, error) {
	s := cfg.Scenario
	if s.Scale <= 0 || s.Mass <= 0 {
		return nil, errors.New("binary needs positive scale and mass")
	}
	c := arenaCentre(cfg)
	v := math.Sqrt(effectiveG(cfg) * s.Mass / (2 * s.Scale))
	off := r2.Vec{X: s.Scale / 2}

	return []physics.BodyConfig{
		{Pos: r2.Sub(c, off), Vel: r2.Vec{Y: -v}, Mass: s.Mass, Radius: s.Radius},
		{Pos: r2.Add(c, off), Vel: r2.Vec{Y: v}, Mass: s.Mass, Radius: s.Radius},
	}, nil
}
