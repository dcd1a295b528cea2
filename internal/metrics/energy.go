package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

// TotalEnergy is kinetic plus potential energy, using the guard and scale
// of the frame's gravity law.
func TotalEnergy(f sim.Frame) float64 {
	ke := 0.0
	for _, b := range f.Bodies {
		ke += b.KineticEnergy()
	}
	return ke + f.Gravity.Potential(f.Bodies)
}

type Energy struct {
	name   string
	energy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.energy = TotalEnergy(f)
}

func (e *Energy) Value() float64 { return e.energy }

func (e *Energy) Reset() { e.energy = 0 }

// EnergyDrift tracks the relative change of total energy against the first
// observed frame. Value is the drift of the latest frame; Max the largest
// seen.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	drift         float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	energy := TotalEnergy(f)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		e.drift = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, e.drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.drift }

func (e *EnergyDrift) Max() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.drift = 0
	e.maxDrift = 0
	e.samples = 0
}
