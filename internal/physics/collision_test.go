package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Collider", func() {
	collider := physics.Collider{Dampening: physics.DefaultCollisionDampening}

	It("ignores separated bodies", func() {
		a := newBody(r2.Vec{}, r2.Vec{X: 1}, 1, 10)
		b := newBody(r2.Vec{X: 20}, r2.Vec{X: -1}, 1, 10)
		_, ok := collider.Resolve(a, b)
		Expect(ok).To(BeFalse())
		Expect(a.Vel).To(Equal(r2.Vec{X: 1}))
		Expect(b.Pos).To(Equal(r2.Vec{X: 20}))
	})

	It("separates in inverse proportion to mass", func() {
		a := newBody(r2.Vec{}, r2.Vec{}, 2, 10)
		b := newBody(r2.Vec{X: 15}, r2.Vec{}, 1, 10)

		ct, ok := collider.Resolve(a, b)
		Expect(ok).To(BeTrue())
		Expect(ct.Depth).To(BeNumerically("~", 5, 1e-12))

		shiftA := -a.Pos.X
		shiftB := b.Pos.X - 15
		Expect(shiftA).To(BeNumerically("~", 5.0/3, 1e-12))
		Expect(shiftB).To(BeNumerically("~", 2*shiftA, 1e-12))
		Expect(b.Pos.X - a.Pos.X).To(BeNumerically("~", 20, 1e-12))
	})

	It("conserves momentum up to the dampening factor", func() {
		a := newBody(r2.Vec{}, r2.Vec{X: 3, Y: 1}, 2, 10)
		b := newBody(r2.Vec{X: 12, Y: 5}, r2.Vec{X: -2, Y: 4}, 1, 10)
		before := r2.Add(a.Momentum(), b.Momentum())

		_, ok := collider.Resolve(a, b)
		Expect(ok).To(BeTrue())

		after := r2.Add(a.Momentum(), b.Momentum())
		Expect(after.X).To(BeNumerically("~", before.X*0.95, 1e-12))
		Expect(after.Y).To(BeNumerically("~", before.Y*0.95, 1e-12))
	})

	It("conserves kinetic energy without dampening", func() {
		c := physics.Collider{Dampening: 1}
		a := newBody(r2.Vec{}, r2.Vec{X: 3, Y: 1}, 2, 10)
		b := newBody(r2.Vec{X: 12, Y: 5}, r2.Vec{X: -2, Y: 4}, 1, 10)
		before := a.KineticEnergy() + b.KineticEnergy()

		c.Resolve(a, b)
		Expect(a.KineticEnergy() + b.KineticEnergy()).To(BeNumerically("~", before, 1e-9))
	})

	It("exchanges velocities for equal masses", func() {
		c := physics.Collider{Dampening: 1}
		a := newBody(r2.Vec{}, r2.Vec{X: 5}, 1, 10)
		b := newBody(r2.Vec{X: 19}, r2.Vec{X: -1}, 1, 10)
		c.Resolve(a, b)
		Expect(a.Vel.X).To(BeNumerically("~", -1, 1e-12))
		Expect(b.Vel.X).To(BeNumerically("~", 5, 1e-12))
	})

	It("separates coincident bodies along +X", func() {
		a := newBody(r2.Vec{X: 100, Y: 100}, r2.Vec{}, 1, 10)
		b := newBody(r2.Vec{X: 100, Y: 100}, r2.Vec{}, 3, 10)

		ct, ok := collider.Resolve(a, b)
		Expect(ok).To(BeTrue())
		Expect(ct.Coincident).To(BeTrue())
		Expect(a.Pos.X).To(BeNumerically("~", 85, 1e-12))
		Expect(b.Pos.X).To(BeNumerically("~", 105, 1e-12))
		Expect(a.Pos.Y).To(Equal(100.0))
		Expect(a.Valid() && b.Valid()).To(BeTrue())
	})

	It("resolves every overlapping pair once in index order", func() {
		bodies := []*physics.Body{
			newBody(r2.Vec{X: 0}, r2.Vec{}, 1, 10),
			newBody(r2.Vec{X: 15}, r2.Vec{}, 1, 10),
			newBody(r2.Vec{X: 100}, r2.Vec{}, 1, 10),
		}
		contacts := collider.ResolveAll(bodies)
		Expect(contacts).To(HaveLen(1))
		Expect(contacts[0].A).To(Equal(0))
		Expect(contacts[0].B).To(Equal(1))
	})

	Context("with a chain of overlapping bodies", func() {
		chain := func() []*physics.Body {
			return []*physics.Body{
				newBody(r2.Vec{X: 0}, r2.Vec{}, 1, 10),
				newBody(r2.Vec{X: 15}, r2.Vec{}, 1, 10),
				newBody(r2.Vec{X: 30}, r2.Vec{}, 1, 10),
			}
		}

		It("lets later pairs see earlier corrections", func() {
			bodies := chain()
			contacts := collider.ResolveAll(bodies)

			Expect(contacts).To(HaveLen(2))
			Expect(contacts[0].Depth).To(BeNumerically("~", 5, 1e-12))
			// body 1 was pushed to 17.5 by the first pair
			Expect(contacts[1].A).To(Equal(1))
			Expect(contacts[1].Depth).To(BeNumerically("~", 7.5, 1e-12))

			Expect(bodies[0].Pos.X).To(BeNumerically("~", -2.5, 1e-12))
			Expect(bodies[1].Pos.X).To(BeNumerically("~", 13.75, 1e-12))
			Expect(bodies[2].Pos.X).To(BeNumerically("~", 33.75, 1e-12))
		})

		It("depends on slice order", func() {
			reversed := chain()
			reversed[0], reversed[2] = reversed[2], reversed[0]
			collider.ResolveAll(reversed)

			Expect(reversed[2].Pos.X).To(BeNumerically("~", -3.75, 1e-12))
			Expect(reversed[1].Pos.X).To(BeNumerically("~", 16.25, 1e-12))
			Expect(reversed[0].Pos.X).To(BeNumerically("~", 32.5, 1e-12))

			forward := chain()
			collider.ResolveAll(forward)
			Expect(forward[1].Pos.X).NotTo(BeNumerically("~", reversed[1].Pos.X, 1e-6))
		})
	})
})
