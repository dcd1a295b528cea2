package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

type SVGOptions struct {
	// Scale is output pixels per world unit.
	Scale       float64
	Background  colorful.Color
	GridColor   colorful.Color
	GridSpacing float64
	GridAlpha   float64
	Grid        bool
	Trails      bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Scale:       1,
		Background:  colorful.Color{R: 0.04, G: 0.04, B: 0.04},
		GridColor:   colorful.Color{R: 1, G: 1, B: 1},
		GridSpacing: 50,
		GridAlpha:   0.3,
		Grid:        true,
		Trails:      true,
	}
}

// SnapshotSVG writes the current frame of s: background, grid, trails with
// per-segment opacity, then bodies. World y points up.
func SnapshotSVG(w io.Writer, s *sim.Simulation, opts SVGOptions) error {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	arena := s.Config().Arena
	width := (arena.Max.X - arena.Min.X) * opts.Scale
	height := (arena.Max.Y - arena.Min.Y) * opts.Scale
	project := func(p r2.Vec) (float64, float64) {
		return (p.X - arena.Min.X) * opts.Scale, (arena.Max.Y - p.Y) * opts.Scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, opts.Background.Clamped().Hex()))

	if opts.Grid && opts.GridSpacing > 0 {
		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-opacity="%.2f" stroke-width="1">
`, opts.GridColor.Clamped().Hex(), opts.GridAlpha))
		for x := arena.Min.X; x <= arena.Max.X; x += opts.GridSpacing {
			px, _ := project(r2.Vec{X: x})
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%.1f"/>
`, px, px, height))
		}
		for y := arena.Min.Y; y <= arena.Max.Y; y += opts.GridSpacing {
			_, py := project(r2.Vec{Y: y})
			sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, py, width, py))
		}
		sb.WriteString("</g>\n")
	}

	bodies := s.Bodies()
	if opts.Trails {
		for _, b := range bodies {
			writeTrail(&sb, b, project)
		}
	}

	for _, b := range bodies {
		cx, cy := project(b.Pos)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, b.Radius*opts.Scale, b.Color.Clamped().Hex()))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTrail(sb *strings.Builder, b *physics.Body, project func(r2.Vec) (float64, float64)) {
	tr := b.Trail
	if tr.Len() < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="2" fill="none">
`, b.Color.Clamped().Hex()))
	for i := 1; i < tr.Len(); i++ {
		x0, y0 := project(tr.At(i - 1))
		x1, y1 := project(tr.At(i))
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-opacity="%.3f"/>
`, x0, y0, x1, y1, tr.Alpha(i)))
	}
	sb.WriteString("</g>\n")
}
