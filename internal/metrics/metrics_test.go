package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
)

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	m.Observe(frame(
		newBody(t, r2.Vec{}, r2.Vec{X: 3}, 2),
		newBody(t, r2.Vec{X: 50}, r2.Vec{Y: 8}, 1),
	))
	if math.Abs(m.Value()-10) > 1e-12 {
		t.Errorf("expected momentum 10, got %f", m.Value())
	}
	if v := m.Vector(); v.X != 6 || v.Y != 8 {
		t.Errorf("expected (6, 8), got %v", v)
	}
}

func TestMinSeparation(t *testing.T) {
	m := NewMinSeparation()
	if !math.IsInf(m.Value(), 1) {
		t.Errorf("expected +Inf before observing, got %f", m.Value())
	}

	a := newBody(t, r2.Vec{}, r2.Vec{}, 1)
	b := newBody(t, r2.Vec{X: 30}, r2.Vec{}, 1)
	c := newBody(t, r2.Vec{Y: 40}, r2.Vec{}, 1)
	m.Observe(frame(a, b, c))
	if m.Value() != 30 {
		t.Errorf("expected 30, got %f", m.Value())
	}

	b.Pos.X = 100
	m.Observe(frame(a, b, c))
	if m.Value() != 30 {
		t.Errorf("expected minimum to persist, got %f", m.Value())
	}

	m.Reset()
	m.Observe(frame(a, b, c))
	if m.Value() != 40 {
		t.Errorf("expected 40 after reset, got %f", m.Value())
	}
}

func TestCounters(t *testing.T) {
	b := NewBounces()
	c := NewCollisions()
	f := frame(newBody(t, r2.Vec{}, r2.Vec{}, 1))
	f.Bounces = 2
	f.Contacts = []physics.Contact{{A: 0, B: 1}}

	for i := 0; i < 3; i++ {
		b.Observe(f)
		c.Observe(f)
	}
	if b.Value() != 6 {
		t.Errorf("expected 6 bounces, got %f", b.Value())
	}
	if c.Value() != 3 {
		t.Errorf("expected 3 collisions, got %f", c.Value())
	}

	b.Reset()
	c.Reset()
	if b.Value() != 0 || c.Value() != 0 {
		t.Error("expected zero counts after reset")
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	if s.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", s.Value())
	}

	slow := newBody(t, r2.Vec{}, r2.Vec{X: 3}, 1)
	fast := newBody(t, r2.Vec{}, r2.Vec{X: 30}, 1)
	s.Observe(frame(slow))
	s.Observe(frame(slow, fast))
	s.Observe(frame(slow))
	s.Observe(frame(fast))

	if math.Abs(s.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", s.Value())
	}
}

func TestStandard(t *testing.T) {
	tests := []struct {
		threshold float64
		want      int
	}{
		{0, 6},
		{500, 7},
	}

	for _, tt := range tests {
		ms := Standard(tt.threshold)
		if len(ms) != tt.want {
			t.Errorf("threshold %f: expected %d metrics, got %d", tt.threshold, tt.want, len(ms))
		}
		seen := map[string]bool{}
		for _, m := range ms {
			if seen[m.Name()] {
				t.Errorf("duplicate metric %s", m.Name())
			}
			seen[m.Name()] = true
		}
	}
}
