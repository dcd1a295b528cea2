package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type Guard int

const (
	GuardFloor Guard = iota
	GuardSoftening
)

func (g Guard) String() string {
	switch g {
	case GuardFloor:
		return "floor"
	case GuardSoftening:
		return "softening"
	default:
		return fmt.Sprintf("guard(%d)", int(g))
	}
}

func ParseGuard(s string) (Guard, error) {
	switch s {
	case "floor", "":
		return GuardFloor, nil
	case "softening":
		return GuardSoftening, nil
	default:
		return 0, fmt.Errorf("unknown guard: %s", s)
	}
}

// Gravity holds the force law parameters. Scale converts world distance to
// the unit G is expressed in before the guard is applied.
type Gravity struct {
	G           float64
	Scale       float64
	Guard       Guard
	MinDistance float64
	Softening   float64
}

// dist2 returns the guarded squared distance for a raw separation d.
func (g Gravity) dist2(d float64) float64 {
	s := d * g.Scale
	switch g.Guard {
	case GuardSoftening:
		return s*s + g.Softening*g.Softening
	default:
		if s < g.MinDistance {
			s = g.MinDistance
		}
		return s * s
	}
}

// Pair returns the acceleration on a body at pa caused by mass mb at pb.
func (g Gravity) Pair(pa, pb r2.Vec, mb float64) r2.Vec {
	d := r2.Sub(pb, pa)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}
	}
	acc := g.G * mb / g.dist2(dist)
	return r2.Scale(acc/dist, d)
}

// Accelerations computes the acceleration of every body from the positions
// as they are on entry; no body is mutated. out is reused when large enough.
func (g Gravity) Accelerations(bodies []*Body, out []r2.Vec) []r2.Vec {
	n := len(bodies)
	if cap(out) < n {
		out = make([]r2.Vec, n)
	}
	out = out[:n]
	for i := range out {
		out[i] = r2.Vec{}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out[i] = r2.Add(out[i], g.Pair(bodies[i].Pos, bodies[j].Pos, bodies[j].mass))
		}
	}
	return out
}

// Apply accumulates one step of gravitational acceleration into every
// velocity. Positions are left untouched.
func (g Gravity) Apply(bodies []*Body, delta float64, scratch []r2.Vec) []r2.Vec {
	scratch = g.Accelerations(bodies, scratch)
	for i, b := range bodies {
		b.Accelerate(scratch[i], delta)
	}
	return scratch
}

// Potential is the total pairwise potential energy under the same guard
// used for the force.
func (g Gravity) Potential(bodies []*Body) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			d := r2.Norm(r2.Sub(bodies[j].Pos, bodies[i].Pos))
			pe -= g.G * bodies[i].mass * bodies[j].mass / math.Sqrt(g.dist2(d))
		}
	}
	return pe
}
