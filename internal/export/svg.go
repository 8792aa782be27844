// Package export renders systems and recorded trajectories as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/palette"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/storage"
)

// SVGSurface is a frame.Surface that records draw calls as SVG elements.
// Clear discards everything drawn so far, so after a cycle it holds exactly
// one frame.
type SVGSurface struct {
	width, height float64
	elems         []string
}

func NewSVGSurface() *SVGSurface {
	return &SVGSurface{elems: make([]string, 0)}
}

func (s *SVGSurface) Clear(w, h float64) {
	s.width, s.height = w, h
	s.elems = s.elems[:0]
}

func (s *SVGSurface) FillRect(x, y, w, h float64, color string) {
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
		x, y, w, h, palette.Hex(color)))
}

func (s *SVGSurface) FillCircle(x, y, r float64, color string) {
	s.elems = append(s.elems, fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
		x, y, r, palette.Hex(color)))
}

// Len returns the number of recorded elements.
func (s *SVGSurface) Len() int { return len(s.elems) }

func (s *SVGSurface) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
%s
</svg>`, s.width, s.height, s.width, s.height, strings.Join(s.elems, "\n"))
	return int64(n), err
}

// TrajectoryToSVG draws every body's path, fitted to width x height with
// 10% padding. Paths are stroked with the trajectory's colours, and the
// final position of each body is marked.
func TrajectoryToSVG(traj *storage.Trajectory, width, height int, background string) string {
	if traj == nil || len(traj.Samples) < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, row := range traj.Samples {
		for _, s := range row {
			if !s.Position.IsFinite() {
				continue
			}
			minX = math.Min(minX, s.Position.X)
			maxX = math.Max(maxX, s.Position.X)
			minY = math.Min(minY, s.Position.Y)
			maxY = math.Max(maxY, s.Position.Y)
		}
	}
	if math.IsInf(minX, 0) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p physics.Vector) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width), (p.Y - minY) / rangeY * float64(height)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, palette.Hex(background)))

	for i := range traj.Bodies {
		color := "white"
		if i < len(traj.Colors) && traj.Colors[i] != "" {
			color = traj.Colors[i]
		}
		hex := palette.Hex(color)

		path := traj.Path(i)
		if len(path) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, hex))
		move := true
		for _, p := range path {
			if !p.IsFinite() {
				move = true
				continue
			}
			x, y := project(p)
			if move {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				move = false
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		last := path[len(path)-1]
		if last.IsFinite() {
			x, y := project(last)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, hex))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
