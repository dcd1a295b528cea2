package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

var _ = Describe("Gravity", func() {
	floor := physics.Gravity{G: 1, Scale: 1, Guard: physics.GuardFloor, MinDistance: 1}
	soft := physics.Gravity{G: 1, Scale: 1, Guard: physics.GuardSoftening, Softening: 2}

	It("follows the inverse square law toward the other body", func() {
		a := floor.Pair(r2.Vec{}, r2.Vec{X: 10}, 500)
		Expect(a.X).To(BeNumerically("~", 5, 1e-12))
		Expect(a.Y).To(Equal(0.0))

		a = floor.Pair(r2.Vec{}, r2.Vec{Y: -20}, 500)
		Expect(a.Y).To(BeNumerically("~", -1.25, 1e-12))
	})

	It("applies the distance scale before the law", func() {
		g := floor
		g.Scale = 10
		a := g.Pair(r2.Vec{}, r2.Vec{X: 10}, 500)
		Expect(a.X).To(BeNumerically("~", 0.05, 1e-12))
	})

	It("obeys Newton's third law", func() {
		bodies := []*physics.Body{
			newBody(r2.Vec{X: 10, Y: 20}, r2.Vec{}, 3, 1),
			newBody(r2.Vec{X: 40, Y: -5}, r2.Vec{}, 7, 1),
		}
		acc := floor.Accelerations(bodies, nil)
		fa := r2.Scale(bodies[0].Mass(), acc[0])
		fb := r2.Scale(bodies[1].Mass(), acc[1])
		Expect(fa.X).To(BeNumerically("~", -fb.X, 1e-12))
		Expect(fa.Y).To(BeNumerically("~", -fb.Y, 1e-12))
	})

	DescribeTable("never produces NaN or Inf near a singularity",
		func(g physics.Gravity, sep float64) {
			bodies := []*physics.Body{
				newBody(r2.Vec{X: 100, Y: 100}, r2.Vec{}, 1e6, 1),
				newBody(r2.Vec{X: 100 + sep, Y: 100}, r2.Vec{}, 1e6, 1),
			}
			scratch := g.Apply(bodies, 0.016, nil)
			for i, b := range bodies {
				Expect(finite(scratch[i])).To(BeTrue())
				Expect(b.Valid()).To(BeTrue())
			}
			Expect(math.IsNaN(g.Potential(bodies))).To(BeFalse())
		},
		Entry("floor, coincident", floor, 0.0),
		Entry("floor, 1e-12 apart", floor, 1e-12),
		Entry("floor, half the floor apart", floor, 0.5),
		Entry("softening, coincident", soft, 0.0),
		Entry("softening, 1e-12 apart", soft, 1e-12),
	)

	It("caps the force at the floor distance", func() {
		a := floor.Pair(r2.Vec{}, r2.Vec{X: 1e-9}, 4)
		Expect(a.X).To(BeNumerically("~", 4, 1e-9))
	})

	It("bounds the softened force by G m / eps^2", func() {
		a := soft.Pair(r2.Vec{}, r2.Vec{X: 1e-9}, 4)
		Expect(a.X).To(BeNumerically("<=", 1.0))
		Expect(a.X).To(BeNumerically(">", 0))
	})

	It("leaves coincident pairs without acceleration", func() {
		Expect(floor.Pair(r2.Vec{X: 3}, r2.Vec{X: 3}, 10)).To(Equal(r2.Vec{}))
	})

	It("computes from positions on entry, regardless of order", func() {
		mk := func() []*physics.Body {
			return []*physics.Body{
				newBody(r2.Vec{X: 0, Y: 0}, r2.Vec{}, 5, 1),
				newBody(r2.Vec{X: 30, Y: 10}, r2.Vec{}, 2, 1),
				newBody(r2.Vec{X: -20, Y: 40}, r2.Vec{}, 9, 1),
			}
		}
		fwd := mk()
		rev := mk()
		rev[0], rev[2] = rev[2], rev[0]

		floor.Apply(fwd, 0.1, nil)
		floor.Apply(rev, 0.1, nil)

		Expect(fwd[0].Vel).To(Equal(rev[2].Vel))
		Expect(fwd[1].Vel).To(Equal(rev[1].Vel))
		Expect(fwd[2].Vel).To(Equal(rev[0].Vel))
		Expect(fwd[0].Pos).To(Equal(r2.Vec{}))
	})

	It("reuses the scratch slice", func() {
		bodies := []*physics.Body{
			newBody(r2.Vec{}, r2.Vec{}, 1, 1),
			newBody(r2.Vec{X: 10}, r2.Vec{}, 1, 1),
		}
		scratch := make([]r2.Vec, 0, 8)
		out := floor.Accelerations(bodies, scratch)
		Expect(out).To(HaveLen(2))
		Expect(cap(out)).To(Equal(8))
	})

	It("reports negative potential for a bound pair", func() {
		bodies := []*physics.Body{
			newBody(r2.Vec{}, r2.Vec{}, 2, 1),
			newBody(r2.Vec{X: 4}, r2.Vec{}, 3, 1),
		}
		Expect(floor.Potential(bodies)).To(BeNumerically("~", -1.5, 1e-12))
	})

	It("parses guard names", func() {
		g, err := physics.ParseGuard("softening")
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(Equal(physics.GuardSoftening))
		Expect(g.String()).To(Equal("softening"))

		_, err = physics.ParseGuard("clamp")
		Expect(err).To(HaveOccurred())
	})
})
