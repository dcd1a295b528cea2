package physics_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

func TestPhysics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Physics Suite")
}

func newBody(pos, vel r2.Vec, mass, radius float64) *physics.Body {
	b, err := physics.NewBody(physics.BodyConfig{
		Pos:    pos,
		Vel:    vel,
		Mass:   mass,
		Radius: radius,
	}, physics.DefaultRadiusModel(), physics.DefaultTrailCapacity, physics.DefaultTrailMinDistance)
	Expect(err).NotTo(HaveOccurred())
	return b
}
