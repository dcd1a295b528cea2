package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/sim"
)

// Stability is the fraction of observed frames in which every body moved
// slower than threshold. Close encounters that slingshot a body show up as
// violations.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	for _, b := range f.Bodies {
		if r2.Norm(b.Vel) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
