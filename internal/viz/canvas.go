package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orrery/internal/palette"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille character grid that implements frame.Surface. Each
// cell holds 2x4 dots, one foreground colour and one background colour.
// Drawing coordinates are pixels of the viewport passed to Clear.
type Canvas struct {
	Width, Height int // in cells
	Grid          [][]rune
	fg            [][]string
	bg            [][]string

	sx, sy float64 // dots per viewport pixel
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{sx: 1, sy: 1}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid. The content is lost.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.fg = make([][]string, h)
	c.bg = make([][]string, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.fg[i] = make([]string, w)
		c.bg[i] = make([]string, w)
	}
	c.clearCells()
}

func (c *Canvas) clearCells() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.fg[i][j] = ""
			c.bg[i][j] = ""
		}
	}
}

// Clear empties the grid and maps a w×h pixel viewport onto it.
func (c *Canvas) Clear(w, h float64) {
	if w > 0 && h > 0 {
		c.sx = float64(c.Width*2) / w
		c.sy = float64(c.Height*4) / h
	}
	c.clearCells()
}

// FillRect paints the background of every cell the rectangle touches and
// removes their dots.
func (c *Canvas) FillRect(x, y, w, h float64, color string) {
	hex := palette.Hex(color)
	col0, row0 := c.cell(x, y)
	col1, row1 := c.cell(x+w, y+h)
	for row := max(row0, 0); row <= min(row1, c.Height-1); row++ {
		for col := max(col0, 0); col <= min(col1, c.Width-1); col++ {
			c.Grid[row][col] = blank
			c.bg[row][col] = hex
		}
	}
}

// FillCircle sets every dot inside the circle. Circles smaller than a dot
// still light the dot under their center.
func (c *Canvas) FillCircle(x, y, r float64, color string) {
	hex := palette.Hex(color)
	cx, cy := x*c.sx, y*c.sy
	rx, ry := r*c.sx, r*c.sy

	if rx < 1 || ry < 1 {
		c.set(int(math.Floor(cx)), int(math.Floor(cy)), hex)
		return
	}

	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx, ny := dx/rx, dy/ry
			if nx*nx+ny*ny <= 1 {
				c.set(int(math.Floor(cx+dx)), int(math.Floor(cy+dy)), hex)
			}
		}
	}
}

func (c *Canvas) cell(x, y float64) (int, int) {
	return int(math.Floor(x * c.sx / 2)), int(math.Floor(y * c.sy / 4))
}

// Set turns on the dot at (x, y) in dot coordinates. The canvas is
// (Width*2) x (Height*4) dots.
func (c *Canvas) Set(x, y int) { c.set(x, y, "") }

func (c *Canvas) set(x, y int, hex string) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= pixelMap[y%4][x%2]
	if hex != "" {
		c.fg[row][col] = hex
	}
}

// Dot reports whether the dot at (x, y) is set.
func (c *Canvas) Dot(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

// String renders the grid without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the grid with cell colours. Runs of cells sharing the same
// colours are styled together.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.fg[row][col] == c.fg[row][start] && c.bg[row][col] == c.bg[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			style := lipgloss.NewStyle()
			if fg := c.fg[row][start]; fg != "" {
				style = style.Foreground(lipgloss.Color(fg))
			}
			if bg := c.bg[row][start]; bg != "" {
				style = style.Background(lipgloss.Color(bg))
			}
			b.WriteString(style.Render(run))
			start = col
		}
		b.WriteString("\n")
	}
	return b.String()
}
