package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/clothsim/internal/dynamo"
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

const blank rune = 0x2800

// Canvas is a grid of braille cells, each 2x4 sub-pixels. A cell may carry
// a colour; uncoloured cells use the style passed to Render.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

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

// Set lights the sub-pixel (x, y).
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// Mark lights (x, y) and colours its cell.
func (c *Canvas) Mark(x, y int, color lipgloss.Color) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Set(x, y)
	c.Colors[row][col] = color
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the canvas with runs of equally coloured cells styled
// together.
func (c *Canvas) Render(base lipgloss.Style) string {
	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && c.Colors[r][i] == c.Colors[r][start] {
				continue
			}
			style := base
			if col := c.Colors[r][start]; col != "" {
				style = base.Foreground(col)
			}
			b.WriteString(style.Render(string(row[start:i])))
			start = i
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

// Viewport maps world coordinates onto canvas sub-pixels with one uniform
// scale, so the cloth keeps its aspect ratio.
type Viewport struct {
	MinX, MinY float64
	Scale      float64 // sub-pixels per world unit
}

// Fit returns the viewport that shows the world box centred in a w x h
// sub-pixel area.
func Fit(minX, minY, maxX, maxY float64, w, h int) Viewport {
	bw, bh := maxX-minX, maxY-minY
	if !(bw > 0) {
		bw = 1
	}
	if !(bh > 0) {
		bh = 1
	}
	scale := math.Min(float64(w)/bw, float64(h)/bh)
	return Viewport{
		MinX:  minX - (float64(w)/scale-bw)/2,
		MinY:  minY - (float64(h)/scale-bh)/2,
		Scale: scale,
	}
}

func (v Viewport) ToCanvas(p dynamo.Vec2) (int, int) {
	return int(math.Floor((p.X - v.MinX) * v.Scale)), int(math.Floor((p.Y - v.MinY) * v.Scale))
}

// ToWorld maps a sub-pixel back to the world position of its centre.
func (v Viewport) ToWorld(x, y int) dynamo.Vec2 {
	return dynamo.V(v.MinX+(float64(x)+0.5)/v.Scale, v.MinY+(float64(y)+0.5)/v.Scale)
}

// CellToWorld maps a terminal cell to the world position of its centre.
func (v Viewport) CellToWorld(col, row int) dynamo.Vec2 {
	return dynamo.V(v.MinX+(float64(col)*2+1)/v.Scale, v.MinY+(float64(row)*4+2)/v.Scale)
}

// Segment draws the world segment a-b. Segments wholly off one side of the
// canvas, or far longer than it, are skipped.
func (c *Canvas) Segment(v Viewport, a, b dynamo.Vec2) {
	if !a.IsValid() || !b.IsValid() {
		return
	}
	w, h := float64(c.SubWidth()), float64(c.SubHeight())
	ax, ay := (a.X-v.MinX)*v.Scale, (a.Y-v.MinY)*v.Scale
	bx, by := (b.X-v.MinX)*v.Scale, (b.Y-v.MinY)*v.Scale
	if ax < 0 && bx < 0 || ay < 0 && by < 0 || ax >= w && bx >= w || ay >= h && by >= h {
		return
	}
	if math.Abs(bx-ax)+math.Abs(by-ay) > 4*(w+h) {
		return
	}
	c.DrawLine(int(math.Floor(ax)), int(math.Floor(ay)), int(math.Floor(bx)), int(math.Floor(by)))
}
