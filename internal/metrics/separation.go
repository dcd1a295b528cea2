package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/sim"
)

// MinSeparation is the smallest centre-to-centre distance seen across all
// observed frames. It is +Inf until two bodies have been observed.
type MinSeparation struct {
	name string
	min  float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(f sim.Frame) {
	for i := 0; i < len(f.Bodies); i++ {
		for j := i + 1; j < len(f.Bodies); j++ {
			d := r2.Norm(r2.Sub(f.Bodies[j].Pos, f.Bodies[i].Pos))
			m.min = math.Min(m.min, d)
		}
	}
}

func (m *MinSeparation) Value() float64 { return m.min }

func (m *MinSeparation) Reset() { m.min = math.Inf(1) }
