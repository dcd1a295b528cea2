package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel grid. Each terminal cell holds 2x4 dots and a
// single colour; the last colour written to a cell wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color
	painted       [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Colors:  make([][]colorful.Color, h),
		painted: make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
		c.painted[i] = make([]bool, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a pixel at (x, y) in sub-pixel coordinates without changing the
// cell colour.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a pixel and paints its cell.
func (c *Canvas) SetColor(x, y int, col colorful.Color) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cl] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cl] = col
	c.painted[row][cl] = true
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.painted[i][j] = false
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetColor(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillEllipse fills the ellipse centred at (cx, cy). Radii below one dot
// still mark the centre.
func (c *Canvas) FillEllipse(cx, cy int, rx, ry float64, col colorful.Color) {
	c.SetColor(cx, cy, col)
	ix, iy := int(rx+0.5), int(ry+0.5)
	for dy := -iy; dy <= iy; dy++ {
		for dx := -ix; dx <= ix; dx++ {
			nx, ny := float64(dx)/max(rx, 0.5), float64(dy)/max(ry, 0.5)
			if nx*nx+ny*ny <= 1 {
				c.SetColor(cx+dx, cy+dy, col)
			}
		}
	}
}

// String renders the dots without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the dots with each painted cell in its colour.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if !c.painted[i][j] || r == blank {
				b.WriteRune(r)
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[i][j].Clamped().Hex()))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
