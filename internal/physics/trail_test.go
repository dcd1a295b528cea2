package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Trail", func() {
	It("never grows past capacity and evicts the oldest points", func() {
		b := newBody(r2.Vec{}, r2.Vec{X: 10}, 1, 1)
		steps := physics.DefaultTrailCapacity + 50
		for i := 0; i < steps; i++ {
			b.Integrate(1, 0)
		}

		Expect(b.Trail.Len()).To(Equal(physics.DefaultTrailCapacity))
		// points recorded at x = 10, 20, ..., 5500; the first 50 were evicted
		Expect(b.Trail.At(0).X).To(BeNumerically("~", 510, 1e-9))
		Expect(b.Trail.At(0).X).To(BeNumerically(">", 500))
		last, ok := b.Trail.Last()
		Expect(ok).To(BeTrue())
		Expect(last.X).To(BeNumerically("~", float64(steps)*10, 1e-9))
	})

	It("keeps points ordered oldest first", func() {
		tr := physics.NewTrail(3, 0)
		for i := 1; i <= 5; i++ {
			tr.Record(r2.Vec{X: float64(i)})
		}
		Expect(tr.Points()).To(Equal([]r2.Vec{{X: 3}, {X: 4}, {X: 5}}))
	})

	It("skips samples closer than the minimum distance", func() {
		b := newBody(r2.Vec{}, r2.Vec{X: 10}, 1, 1)
		b.Integrate(1, 0)
		Expect(b.Trail.Len()).To(Equal(1))

		b.Vel = r2.Vec{X: 1}
		for i := 0; i < 5; i++ {
			b.Integrate(1, 0)
			Expect(b.Trail.Len()).To(Equal(1))
		}

		b.Integrate(1, 0)
		Expect(b.Trail.Len()).To(Equal(2))
	})

	It("fades from oldest to newest", func() {
		tr := physics.NewTrail(10, 0)
		for i := 0; i < 4; i++ {
			tr.Record(r2.Vec{X: float64(i)})
		}
		Expect(tr.Alpha(0)).To(Equal(0.0))
		Expect(tr.Alpha(2)).To(Equal(0.5))
		Expect(tr.Alpha(3)).To(BeNumerically("<", 1))
	})

	It("is disabled with zero capacity", func() {
		tr := physics.NewTrail(0, 5)
		Expect(tr.Record(r2.Vec{X: 100})).To(BeFalse())
		Expect(tr.Len()).To(Equal(0))
		_, ok := tr.Last()
		Expect(ok).To(BeFalse())
	})

	It("resets to empty", func() {
		tr := physics.NewTrail(4, 0)
		tr.Record(r2.Vec{X: 1})
		tr.Record(r2.Vec{X: 2})
		tr.Reset()
		Expect(tr.Len()).To(Equal(0))
		Expect(tr.Record(r2.Vec{X: 1})).To(BeTrue())
	})
})
