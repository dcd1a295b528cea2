package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Body", func() {
	arena := physics.Arena(1200, 800)

	It("rejects non-positive mass", func() {
		for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			_, err := physics.NewBody(physics.BodyConfig{Mass: m}, physics.DefaultRadiusModel(), 10, 5)
			Expect(err).To(MatchError(physics.ErrInvalidMass))
		}
	})

	It("derives the radius when none is given", func() {
		b := newBody(r2.Vec{}, r2.Vec{}, 1e20, 0)
		Expect(b.Radius).To(BeNumerically("~", physics.DefaultBaseRadius, 1e-9))

		b = newBody(r2.Vec{}, r2.Vec{}, 1e20, 25)
		Expect(b.Radius).To(Equal(25.0))
	})

	It("accumulates acceleration into velocity", func() {
		b := newBody(r2.Vec{}, r2.Vec{X: 1}, 1, 10)
		b.Accelerate(r2.Vec{X: 2, Y: -4}, 0.5)
		Expect(b.Vel).To(Equal(r2.Vec{X: 2, Y: -2}))
		Expect(b.Pos).To(Equal(r2.Vec{}))
	})

	It("integrates position with explicit Euler", func() {
		b := newBody(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 10, Y: -20}, 1, 10)
		b.Integrate(0.5, 0)
		Expect(b.Pos.X).To(BeNumerically("~", 105, 1e-12))
		Expect(b.Pos.Y).To(BeNumerically("~", 90, 1e-12))
		Expect(b.Trail.Len()).To(Equal(1))
	})

	It("caps speed when a ceiling is configured", func() {
		b := newBody(r2.Vec{}, r2.Vec{X: 30, Y: 40}, 1, 10)
		b.Integrate(1, 10)
		Expect(r2.Norm(b.Vel)).To(BeNumerically("~", 10, 1e-12))
		Expect(b.Pos.X).To(BeNumerically("~", 6, 1e-12))
		Expect(b.Pos.Y).To(BeNumerically("~", 8, 1e-12))
	})

	Describe("Reflect", func() {
		It("clamps to the bottom wall and reverses with restitution", func() {
			b := newBody(r2.Vec{X: 600, Y: 10 - 1}, r2.Vec{Y: -100}, 1, 10)
			b.Integrate(0.01, 0)

			bx, by := b.Reflect(arena, 0.9)
			Expect(bx).To(BeFalse())
			Expect(by).To(BeTrue())
			Expect(b.Pos.Y).To(Equal(10.0))
			Expect(b.Vel.Y).To(BeNumerically("~", 90, 1e-9))
		})

		It("clamps to the top and right walls", func() {
			b := newBody(r2.Vec{X: 1195, Y: 600}, r2.Vec{X: 50, Y: 5}, 1, 10)
			bx, by := b.Reflect(arena, 0.9)
			Expect(bx).To(BeTrue())
			Expect(by).To(BeFalse())
			Expect(b.Pos.X).To(Equal(1190.0))
			Expect(b.Vel.X).To(BeNumerically("~", -45, 1e-9))
			Expect(b.Vel.Y).To(Equal(5.0))
		})

		It("corrects both axes in a corner", func() {
			b := newBody(r2.Vec{X: -5, Y: -5}, r2.Vec{X: -10, Y: -20}, 1, 10)
			bx, by := b.Reflect(arena, 0.9)
			Expect(bx).To(BeTrue())
			Expect(by).To(BeTrue())
			Expect(b.Pos).To(Equal(r2.Vec{X: 10, Y: 10}))
			Expect(b.Vel.X).To(BeNumerically("~", 9, 1e-9))
			Expect(b.Vel.Y).To(BeNumerically("~", 18, 1e-9))
		})

		It("leaves bodies inside the arena alone", func() {
			b := newBody(r2.Vec{X: 600, Y: 400}, r2.Vec{X: 3, Y: 4}, 1, 10)
			bx, by := b.Reflect(arena, 0.9)
			Expect(bx || by).To(BeFalse())
			Expect(b.Vel).To(Equal(r2.Vec{X: 3, Y: 4}))
		})
	})

	It("reports non-finite state", func() {
		b := newBody(r2.Vec{}, r2.Vec{}, 1, 10)
		Expect(b.Valid()).To(BeTrue())
		b.Vel.Y = math.NaN()
		Expect(b.Valid()).To(BeFalse())
	})
})

var _ = Describe("RadiusModel", func() {
	masses := []float64{1, 1e10, 1e18, 1e20, 5e21, 7.35e22, 1e24, 1e28, 1e40}

	DescribeTable("is monotonic and clamped",
		func(rm physics.RadiusModel) {
			prev := 0.0
			for _, m := range masses {
				r := rm.Radius(m, 0)
				Expect(r).To(BeNumerically(">=", rm.Min))
				Expect(r).To(BeNumerically("<=", rm.Max))
				Expect(r).To(BeNumerically(">=", prev))
				prev = r
			}
		},
		Entry("log", physics.DefaultRadiusModel()),
		Entry("density", func() physics.RadiusModel {
			rm := physics.DefaultRadiusModel()
			rm.Kind = physics.RadiusDensity
			return rm
		}()),
	)

	It("follows the log mapping inside the clamp range", func() {
		rm := physics.DefaultRadiusModel()
		Expect(rm.Radius(7.35e22, 0)).To(BeNumerically("~", 15+(math.Log10(7.35e22)-20)*3, 1e-9))
	})

	It("parses model names", func() {
		k, err := physics.ParseRadiusKind("density")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(physics.RadiusDensity))

		_, err = physics.ParseRadiusKind("cubic")
		Expect(err).To(HaveOccurred())
	})
})
