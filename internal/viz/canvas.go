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

// tint accumulates the colors plotted into one cell.
type tint struct {
	r, g, b float64
	n       int
}

// Canvas is a braille canvas with Width*2 x Height*4 sub-pixels. Each cell
// remembers the average color of everything plotted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	tints         [][]tint
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		tints:  make([][]tint, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.tints[i] = make([]tint, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	return col, row, col < c.Width && row < c.Height
}

// Set sets a pixel at (x, y) where x,y are in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	if col, row, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	}
}

// Plot sets a pixel and mixes r, g, b into the cell color.
func (c *Canvas) Plot(x, y int, r, g, b float64) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	t := &c.tints[row][col]
	t.r += r
	t.g += g
	t.b += b
	t.n++
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.tints[i][j] = tint{}
		}
	}
}

// Lit counts the lit sub-pixels.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - blank; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the canvas with per-cell colors. Cells without a plotted color
// use fallback.
func (c *Canvas) Render(fallback lipgloss.Color) string {
	var b strings.Builder
	plain := lipgloss.NewStyle().Foreground(fallback)
	for i, row := range c.Grid {
		for j, r := range row {
			if r == blank {
				b.WriteRune(r)
				continue
			}
			t := c.tints[i][j]
			if t.n == 0 {
				b.WriteString(plain.Render(string(r)))
				continue
			}
			n := float64(t.n)
			col := colorful.Color{R: t.r / n, G: t.g / n, B: t.b / n}.Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
