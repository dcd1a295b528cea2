package physics

import "gonum.org/v1/gonum/spatial/r2"

const DefaultCollisionDampening = 0.95

// Collider resolves overlapping discs.
type Collider struct {
	Dampening float64
}

// Contact describes a resolved overlap.
type Contact struct {
	A, B       int
	Depth      float64
	Coincident bool
}

// Resolve separates a and b if they overlap and exchanges their velocities.
// Coincident centres have no contact normal; +X is used so the pair still
// separates.
func (c Collider) Resolve(a, b *Body) (Contact, bool) {
	if a == b {
		return Contact{}, false
	}
	d := r2.Sub(b.Pos, a.Pos)
	dist := r2.Norm(d)
	sumR := a.Radius + b.Radius
	if dist >= sumR {
		return Contact{}, false
	}

	contact := Contact{Depth: sumR - dist}
	normal := r2.Vec{X: 1}
	if dist > 0 {
		normal = r2.Scale(1/dist, d)
	} else {
		contact.Coincident = true
	}

	total := a.mass + b.mass
	a.Pos = r2.Sub(a.Pos, r2.Scale(contact.Depth*b.mass/total, normal))
	b.Pos = r2.Add(b.Pos, r2.Scale(contact.Depth*a.mass/total, normal))

	va, vb := a.Vel, b.Vel
	a.Vel = r2.Vec{
		X: elastic(va.X, vb.X, a.mass, b.mass),
		Y: elastic(va.Y, vb.Y, a.mass, b.mass),
	}
	b.Vel = r2.Vec{
		X: elastic(vb.X, va.X, b.mass, a.mass),
		Y: elastic(vb.Y, va.Y, b.mass, a.mass),
	}

	a.Vel = r2.Scale(c.Dampening, a.Vel)
	b.Vel = r2.Scale(c.Dampening, b.Vel)
	return contact, true
}

// ResolveAll checks every unordered pair once, i < j, mutating bodies in
// place so later pairs see earlier corrections.
func (c Collider) ResolveAll(bodies []*Body) []Contact {
	var contacts []Contact
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if ct, ok := c.Resolve(bodies[i], bodies[j]); ok {
				ct.A, ct.B = i, j
				contacts = append(contacts, ct)
			}
		}
	}
	return contacts
}

// elastic is the 1-D elastic collision outcome for the first body.
func elastic(v1, v2, m1, m2 float64) float64 {
	return (v1*(m1-m2) + 2*m2*v2) / (m1 + m2)
}
