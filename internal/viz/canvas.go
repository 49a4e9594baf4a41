package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitals/internal/palette"
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

// Canvas is a braille grid with one color per cell. Each cell keeps the color
// of the nearest point plotted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	hex    [][]uint32
	depth  [][]float64
	styles map[uint32]lipgloss.Style
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		hex:    make([][]uint32, h),
		depth:  make([][]float64, h),
		styles: make(map[uint32]lipgloss.Style),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.hex[i] = make([]uint32, w)
		c.depth[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// cell maps sub-pixel (x, y) to its grid cell. The canvas size in sub-pixels
// is (Width*2) x (Height*4).
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

// Set turns on the dot at sub-pixel (x, y) without touching the cell color.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot sets the dot at (x, y) and takes col as the cell color if depth is
// nearer than anything plotted there before. Colors are clamped here, at the
// terminal boundary.
func (c *Canvas) Plot(x, y int, col palette.Color, depth float64) {
	row, cc, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cc] |= rune(pixelMap[y%4][x%2])
	if depth < c.depth[row][cc] {
		c.depth[row][cc] = depth
		c.hex[row][cc] = palette.Hex(col)
	}
}

// PlotDisc plots a filled square of side size sub-pixels centered on (x, y).
func (c *Canvas) PlotDisc(x, y int, size float64, col palette.Color, depth float64) {
	side := int(size + 0.5)
	if side <= 1 {
		c.Plot(x, y, col, depth)
		return
	}
	off := side / 2
	for dy := 0; dy < side; dy++ {
		for dx := 0; dx < side; dx++ {
			c.Plot(x-off+dx, y-off+dy, col, depth)
		}
	}
}

// ColorAt returns the clamped color of a grid cell and whether any colored
// point landed in it.
func (c *Canvas) ColorAt(row, col int) (uint32, bool) {
	if row < 0 || row >= c.Height || col < 0 || col >= c.Width {
		return 0, false
	}
	return c.hex[row][col], c.depth[row][col] < farAway
}

const farAway = 1e300

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.hex[i][j] = 0
			c.depth[i][j] = farAway
		}
	}
}

// DrawLine sets every dot between two sub-pixels, leaving cell colors as they
// are.
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

func (c *Canvas) style(hex uint32) lipgloss.Style {
	s, ok := c.styles[hex]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%06x", hex)))
		c.styles[hex] = s
	}
	return s
}

// String renders the grid, batching runs of same-colored cells into one
// styled segment.
func (c *Canvas) String() string {
	var b strings.Builder
	var run []rune
	for row := range c.Grid {
		runHex, runColored := uint32(0), false
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColored {
				b.WriteString(c.style(runHex).Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for col, r := range c.Grid[row] {
			hex, colored := c.ColorAt(row, col)
			if colored != runColored || hex != runHex {
				flush()
				runHex, runColored = hex, colored
			}
			run = append(run, r)
		}
		flush()
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
