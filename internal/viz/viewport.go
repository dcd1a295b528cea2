package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps arena coordinates onto canvas dots. World y grows upward,
// canvas rows grow downward.
type Viewport struct {
	Arena  r2.Box
	DotsW  int
	DotsH  int
	scaleX float64
	scaleY float64
}

func NewViewport(arena r2.Box, dotsW, dotsH int) Viewport {
	w := arena.Max.X - arena.Min.X
	h := arena.Max.Y - arena.Min.Y
	return Viewport{
		Arena:  arena,
		DotsW:  dotsW,
		DotsH:  dotsH,
		scaleX: float64(dotsW-1) / w,
		scaleY: float64(dotsH-1) / h,
	}
}

func (v Viewport) Project(p r2.Vec) (int, int) {
	x := (p.X - v.Arena.Min.X) * v.scaleX
	y := (v.Arena.Max.Y - p.Y) * v.scaleY
	return int(math.Round(x)), int(math.Round(y))
}

// Radius converts a world radius into dot radii along each axis.
func (v Viewport) Radius(r float64) (float64, float64) {
	return r * v.scaleX, r * v.scaleY
}
