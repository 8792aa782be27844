package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/palette"
	"github.com/san-kum/orrery/internal/physics"
)

// Surface draws into the current raylib frame. Calls must happen between
// rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	cache map[string]rl.Color
}

func NewSurface() *Surface {
	return &Surface{cache: make(map[string]rl.Color)}
}

func (s *Surface) Clear(w, h float64) {
	rl.ClearBackground(rl.Blank)
}

func (s *Surface) FillRect(x, y, w, h float64, color string) {
	rl.DrawRectangleV(rl.NewVector2(float32(x), float32(y)), rl.NewVector2(float32(w), float32(h)), s.color(color))
}

func (s *Surface) FillCircle(x, y, r float64, color string) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), s.color(color))
}

func (s *Surface) color(id string) rl.Color {
	if c, ok := s.cache[id]; ok {
		return c
	}
	c := toRL(palette.MustParse(id), 255)
	s.cache[id] = c
	return c
}

func toRL(c color.RGBA, alpha uint8) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, alpha)
}

// trails keeps the last max positions of every body.
type trails struct {
	max    int
	points [][]rl.Vector2
}

func newTrails(n, max int) *trails {
	t := &trails{max: max, points: make([][]rl.Vector2, n)}
	for i := range t.points {
		t.points[i] = make([]rl.Vector2, 0, max)
	}
	return t
}

func (t *trails) push(sys *physics.System, scale float64) {
	for i, b := range sys.Bodies {
		if i >= len(t.points) || !b.Position.IsFinite() {
			continue
		}
		p := b.Position.Scale(scale)
		pts := append(t.points[i], rl.NewVector2(float32(p.X), float32(p.Y)))
		if len(pts) > t.max {
			pts = pts[1:]
		}
		t.points[i] = pts
	}
}

func (t *trails) draw(sys *physics.System) {
	for i, pts := range t.points {
		if len(pts) < 2 || i >= len(sys.Bodies) {
			continue
		}
		b := sys.Bodies[i]
		id := b.TrailColor
		if id == "" {
			id = b.Color
		}
		base := palette.MustParse(id)
		for j := 1; j < len(pts); j++ {
			// fade older segments
			alpha := uint8(40 + 215*j/len(pts))
			rl.DrawLineV(pts[j-1], pts[j], toRL(base, alpha))
		}
	}
}
