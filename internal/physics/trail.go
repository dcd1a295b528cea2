package physics

import "gonum.org/v1/gonum/spatial/r2"

const (
	DefaultTrailCapacity    = 500
	DefaultTrailMinDistance = 5.0
)

// Trail is a fixed-capacity ring of recent positions, oldest first.
// A zero capacity disables recording.
type Trail struct {
	points  []r2.Vec
	head    int
	n       int
	minDist float64
}

func NewTrail(capacity int, minDist float64) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{
		points:  make([]r2.Vec, capacity),
		minDist: minDist,
	}
}

// Record appends p unless it lies within the minimum sample distance of the
// newest point. The oldest point is evicted once the trail is full.
func (t *Trail) Record(p r2.Vec) bool {
	if len(t.points) == 0 {
		return false
	}
	if last, ok := t.Last(); ok && r2.Norm(r2.Sub(p, last)) <= t.minDist {
		return false
	}
	if t.n < len(t.points) {
		t.points[(t.head+t.n)%len(t.points)] = p
		t.n++
		return true
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % len(t.points)
	return true
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.points) }

// At returns the i-th point, 0 being the oldest.
func (t *Trail) At(i int) r2.Vec {
	return t.points[(t.head+i)%len(t.points)]
}

func (t *Trail) Last() (r2.Vec, bool) {
	if t.n == 0 {
		return r2.Vec{}, false
	}
	return t.At(t.n - 1), true
}

// Alpha is the render opacity of point i: 0 for the oldest, approaching 1
// for the newest.
func (t *Trail) Alpha(i int) float64 {
	if t.n == 0 {
		return 0
	}
	return float64(i) / float64(t.n)
}

func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

func (t *Trail) Reset() {
	t.head = 0
	t.n = 0
}
