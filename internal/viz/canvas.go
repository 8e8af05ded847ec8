package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid of Width x Height cells, addressed in dots
// (Width*2 x Height*4).
type Canvas struct {
	Width, Height int
	grid          [][]rune
	labels        map[[2]int]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h), labels: make(map[[2]int]rune)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBlank
		}
	}
	clear(c.labels)
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

// Label replaces the cell holding dot (x, y) with r.
func (c *Canvas) Label(x, y int, r rune) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.labels[[2]int{y / 4, x / 2}] = r
}

// Line draws with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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
	for i, row := range c.grid {
		for j, r := range row {
			if l, ok := c.labels[[2]int{i, j}]; ok {
				r = l
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Bounds is the world XY rectangle a Map shows.
type Bounds struct {
	Min, Max mgl64.Vec2
}

// FitBounds covers every point with a margin of 10%. Y is world Y.
func FitBounds(points ...mgl64.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{Min: mgl64.Vec2{-1, -1}, Max: mgl64.Vec2{1, 1}}
	}
	b := Bounds{Min: mgl64.Vec2{math.Inf(1), math.Inf(1)}, Max: mgl64.Vec2{math.Inf(-1), math.Inf(-1)}}
	for _, p := range points {
		b.Min = mgl64.Vec2{min(b.Min[0], p[0]), min(b.Min[1], p[1])}
		b.Max = mgl64.Vec2{max(b.Max[0], p[0]), max(b.Max[1], p[1])}
	}
	for i := range 2 {
		pad := (b.Max[i] - b.Min[i]) * 0.1
		if pad == 0 {
			pad = 1
		}
		b.Min[i] -= pad
		b.Max[i] += pad
	}
	return b
}

// Map projects world XY onto a canvas, looking down the Z axis.
type Map struct {
	*Canvas
	Bounds Bounds
}

func NewMap(w, h int, b Bounds) *Map {
	return &Map{Canvas: NewCanvas(w, h), Bounds: b}
}

// Dot maps p to canvas dots. Larger world Y is drawn higher.
func (m *Map) Dot(p mgl64.Vec3) (int, int) {
	span := m.Bounds.Max.Sub(m.Bounds.Min)
	fx := (p[0] - m.Bounds.Min[0]) / span[0]
	fy := (p[1] - m.Bounds.Min[1]) / span[1]
	x := int(math.Round(fx * float64(m.Width*2-1)))
	y := int(math.Round((1 - fy) * float64(m.Height*4-1)))
	return x, y
}

// Path draws a polyline through pts.
func (m *Map) Path(pts []mgl64.Vec3) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := m.Dot(pts[i-1])
		x1, y1 := m.Dot(pts[i])
		m.Line(x0, y0, x1, y1)
	}
	if len(pts) == 1 {
		m.Set(m.Dot(pts[0]))
	}
}

// Mark labels the cell under p.
func (m *Map) Mark(p mgl64.Vec3, r rune) {
	x, y := m.Dot(p)
	m.Label(x, y, r)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
