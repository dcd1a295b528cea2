package metrics

import "github.com/san-kum/gravsim/internal/sim"

// Standard returns fresh instances of every metric reported by the CLI.
// A non-positive speedThreshold leaves out Stability.
func Standard(speedThreshold float64) []sim.Metric {
	ms := []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewMinSeparation(),
		NewBounces(),
		NewCollisions(),
	}
	if speedThreshold > 0 {
		ms = append(ms, NewStability(speedThreshold))
	}
	return ms
}
