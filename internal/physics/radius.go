package physics

import (
	"fmt"
	"math"
)

type RadiusKind string

const (
	RadiusLog     RadiusKind = "log"
	RadiusDensity RadiusKind = "density"
)

const (
	DefaultBaseRadius   = 15.0
	DefaultMinRadius    = 10.0
	DefaultMaxRadius    = 50.0
	DefaultRadiusOffset = 20.0
	DefaultRadiusSlope  = 3.0
	// hydrogen, kg/m^3
	DefaultDensity = 0.08375
)

// RadiusModel maps a mass to a display radius. Every model is monotonic
// non-decreasing in mass and clamped to [Min, Max].
type RadiusModel struct {
	Kind   RadiusKind
	Base   float64
	Offset float64
	Slope  float64
	Min    float64
	Max    float64
}

func DefaultRadiusModel() RadiusModel {
	return RadiusModel{
		Kind:   RadiusLog,
		Base:   DefaultBaseRadius,
		Offset: DefaultRadiusOffset,
		Slope:  DefaultRadiusSlope,
		Min:    DefaultMinRadius,
		Max:    DefaultMaxRadius,
	}
}

func ParseRadiusKind(s string) (RadiusKind, error) {
	switch RadiusKind(s) {
	case RadiusLog, "":
		return RadiusLog, nil
	case RadiusDensity:
		return RadiusDensity, nil
	default:
		return "", fmt.Errorf("unknown radius model: %s", s)
	}
}

// Radius derives the radius for mass. density is only read by the density
// model; a non-positive value falls back to DefaultDensity.
func (m RadiusModel) Radius(mass, density float64) float64 {
	var r float64
	switch m.Kind {
	case RadiusDensity:
		if density <= 0 {
			density = DefaultDensity
		}
		r = math.Cbrt(3 * mass / (4 * math.Pi * density))
	default:
		r = m.Base + (math.Log10(mass)-m.Offset)*m.Slope
	}
	return clamp(r, m.Min, m.Max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
