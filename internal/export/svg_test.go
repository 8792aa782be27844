package export

import (
	"strings"
	"testing"

	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/storage"
)

func TestSVGSurfaceSnapshot(t *testing.T) {
	sys := physics.NewSystem("pair")
	sys.Add(&physics.Body{Name: "a", Mass: 10, Position: physics.Vector{X: 100, Y: 50}, Radius: 8, Color: "orange"})
	sys.Add(&physics.Body{Name: "b", Mass: 1, Position: physics.Vector{X: 200, Y: 50}, Radius: 4, Color: "#00ff00"})

	surf := NewSVGSurface()
	opts := frame.DefaultOptions()
	opts.Width, opts.Height = 400, 300
	drv := frame.New(sys, surf, nil, opts)

	drv.Render()
	drv.Render()

	if surf.Len() != 3 {
		t.Fatalf("expected background plus 2 bodies, got %d elements", surf.Len())
	}

	out := surf.String()
	for _, want := range []string{
		`width="400" height="300"`,
		`<rect x="0.0" y="0.0" width="400.0" height="300.0" fill="#000000"/>`,
		`<circle cx="100.0" cy="50.0" r="8.0" fill="#ffa500"/>`,
		`<circle cx="200.0" cy="50.0" r="4.0" fill="#00ff00"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in\n%s", want, out)
		}
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	traj := &storage.Trajectory{
		Bodies: []string{"a", "b"},
		Colors: []string{"lime", ""},
		Times:  []float64{0, 1, 2},
		Samples: [][]storage.Sample{
			{{Position: physics.Vector{X: 0, Y: 0}}, {Position: physics.Vector{X: 10, Y: 10}}},
			{{Position: physics.Vector{X: 1, Y: 1}}, {Position: physics.Vector{X: 9, Y: 9}}},
			{{Position: physics.Vector{X: 2, Y: 2}}, {Position: physics.Vector{X: 8, Y: 8}}},
		},
	}

	out := TrajectoryToSVG(traj, 200, 100, "black")

	if strings.Count(out, "<path") != 2 {
		t.Errorf("expected 2 paths:\n%s", out)
	}
	if !strings.Contains(out, `stroke="#00ff00"`) {
		t.Error("missing trail colour for a")
	}
	if !strings.Contains(out, `stroke="#ffffff"`) {
		t.Error("missing default colour for b")
	}
	if strings.Count(out, "<circle") != 2 {
		t.Error("expected a final-position marker per body")
	}
}

func TestTrajectoryToSVGTooShort(t *testing.T) {
	if TrajectoryToSVG(nil, 10, 10, "black") != "" {
		t.Error("nil trajectory should render nothing")
	}
	traj := &storage.Trajectory{Bodies: []string{"a"}, Times: []float64{0}, Samples: [][]storage.Sample{{{}}}}
	if TrajectoryToSVG(traj, 10, 10, "black") != "" {
		t.Error("single sample should render nothing")
	}
}
