package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/sim"
)

// Momentum reports the magnitude of the total momentum vector of the last
// observed frame.
type Momentum struct {
	name  string
	total r2.Vec
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(f sim.Frame) {
	m.total = r2.Vec{}
	for _, b := range f.Bodies {
		m.total = r2.Add(m.total, b.Momentum())
	}
}

func (m *Momentum) Value() float64 { return r2.Norm(m.total) }

func (m *Momentum) Vector() r2.Vec { return m.total }

func (m *Momentum) Reset() { m.total = r2.Vec{} }
