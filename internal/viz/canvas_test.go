package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("cell 0 = %U, want %U", c.Grid[0][0], blank|0x1)
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("cell 1 = %U, want %U", c.Grid[0][1], blank|0x80)
	}
	if !c.Dot(3, 3) || c.Dot(2, 3) {
		t.Error("Dot() disagrees with Set()")
	}
}

func TestCanvasClearMapsViewport(t *testing.T) {
	c := NewCanvas(40, 10) // 80x40 dots
	c.Set(1, 1)

	c.Clear(800, 400)

	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != blank && r != '\n' }) {
		t.Error("Clear left dots behind")
	}

	c.FillCircle(400, 200, 0, "white")
	if !c.Dot(40, 20) {
		t.Error("point circle at viewport center not drawn at dot (40, 20)")
	}
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(20, 10) // 40x40 dots
	c.Clear(40, 40)

	c.FillCircle(20, 20, 5, "orange")

	if !c.Dot(20, 20) {
		t.Error("center dot not set")
	}
	if !c.Dot(24, 20) || !c.Dot(20, 16) {
		t.Error("points inside the radius not set")
	}
	if c.Dot(26, 20) || c.Dot(24, 24) {
		t.Error("points outside the radius set")
	}
	if c.fg[5][10] != "#ffa500" {
		t.Errorf("cell colour = %q, want #ffa500", c.fg[5][10])
	}
}

func TestCanvasFillRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Clear(8, 8)
	c.Set(0, 0)

	c.FillRect(0, 0, 8, 8, "black")

	if c.Dot(0, 0) {
		t.Error("FillRect did not clear dots")
	}
	for row := range c.bg {
		for col := range c.bg[row] {
			if c.bg[row][col] != "#000000" {
				t.Fatalf("bg[%d][%d] = %q, want #000000", row, col, c.bg[row][col])
			}
		}
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Resize(10, 3)

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3", len(lines))
	}
	if n := len([]rune(lines[0])); n != 10 {
		t.Errorf("got %d cols, want 10", n)
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(6, 2)
	c.Clear(12, 8)
	c.FillRect(0, 0, 12, 8, "black")
	c.FillCircle(6, 4, 1, "green")

	out := c.Render()
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("rendered %d rows, want 2", got)
	}
	if !strings.ContainsRune(out, blank) {
		t.Error("render lost the blank cells")
	}
}
