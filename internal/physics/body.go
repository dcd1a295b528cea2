package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrInvalidMass = errors.New("physics: mass must be positive and finite")

// BodyConfig describes a body before creation. A non-positive Radius is
// derived from Mass by the radius model.
type BodyConfig struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Mass    float64
	Radius  float64
	Density float64
	// Color is nil when the body has no colour of its own.
	Color   *colorful.Color
}

type Body struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Radius  float64
	Density float64
	Color   colorful.Color
	Trail   *Trail

	mass float64
}

func NewBody(cfg BodyConfig, rm RadiusModel, trailCap int, trailMinDist float64) (*Body, error) {
	if cfg.Mass <= 0 || math.IsNaN(cfg.Mass) || math.IsInf(cfg.Mass, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidMass, cfg.Mass)
	}
	b := &Body{
		Pos:     cfg.Pos,
		Vel:     cfg.Vel,
		Radius:  cfg.Radius,
		Density: cfg.Density,
		Trail:   NewTrail(trailCap, trailMinDist),
		mass:    cfg.Mass,
	}
	if cfg.Color != nil {
		b.Color = *cfg.Color
	}
	if b.Radius <= 0 {
		b.UpdateRadius(rm)
	}
	return b, nil
}

func (b *Body) Mass() float64 { return b.mass }

// Accelerate applies acceleration a over delta seconds to the velocity.
func (b *Body) Accelerate(a r2.Vec, delta float64) {
	b.Vel = r2.Add(b.Vel, r2.Scale(delta, a))
}

// Integrate advances the position by Vel*delta and samples the trail.
// A positive maxSpeed rescales the velocity down to that ceiling first.
func (b *Body) Integrate(delta, maxSpeed float64) {
	if maxSpeed > 0 {
		if speed := r2.Norm(b.Vel); speed > maxSpeed {
			b.Vel = r2.Scale(maxSpeed/speed, b.Vel)
		}
	}
	b.Pos = r2.Add(b.Pos, r2.Scale(delta, b.Vel))
	b.Trail.Record(b.Pos)
}

// Reflect keeps the disc inside box. Each axis is checked on its own: the
// position is clamped to the wall and the velocity component is inverted
// and scaled by restitution.
func (b *Body) Reflect(box r2.Box, restitution float64) (bouncedX, bouncedY bool) {
	if lo, hi := box.Min.X+b.Radius, box.Max.X-b.Radius; b.Pos.X < lo || b.Pos.X > hi {
		if b.Pos.X < lo {
			b.Pos.X = lo
		} else {
			b.Pos.X = hi
		}
		b.Vel.X *= -restitution
		bouncedX = true
	}
	if lo, hi := box.Min.Y+b.Radius, box.Max.Y-b.Radius; b.Pos.Y < lo || b.Pos.Y > hi {
		if b.Pos.Y < lo {
			b.Pos.Y = lo
		} else {
			b.Pos.Y = hi
		}
		b.Vel.Y *= -restitution
		bouncedY = true
	}
	return bouncedX, bouncedY
}

func (b *Body) UpdateRadius(rm RadiusModel) {
	b.Radius = rm.Radius(b.mass, b.Density)
}

// Momentum is m*v.
func (b *Body) Momentum() r2.Vec {
	return r2.Scale(b.mass, b.Vel)
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * r2.Norm2(b.Vel)
}

// Valid reports whether position and velocity are finite.
func (b *Body) Valid() bool {
	for _, v := range [...]float64{b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Arena returns the box spanning [0, width] x [0, height].
func Arena(width, height float64) r2.Box {
	return r2.Box{Max: r2.Vec{X: width, Y: height}}
}
