// Package gui hosts a system in a raylib window.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/physics"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

const maxTrail = 240

type App struct {
	opts    frame.Options
	driver  *frame.Driver
	surface *Surface
	trails  *trails
}

func NewApp(sys *physics.System, opts frame.Options) *App {
	surface := NewSurface()
	return &App{
		opts:    opts,
		driver:  frame.New(sys, surface, nil, opts),
		surface: surface,
		trails:  newTrails(sys.Len(), maxTrail),
	}
}

func (a *App) AddObserver(o frame.Observer) { a.driver.AddObserver(o) }

// Run opens a window sized to the viewport and blocks until it is closed.
// Frame pacing comes from rl.SetTargetFPS.
func Run(sys *physics.System, opts frame.Options, observers ...frame.Observer) {
	rl.InitWindow(int32(opts.Width), int32(opts.Height), sys.Name)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(rl.KeyQ)
	defer rl.CloseWindow()

	app := NewApp(sys, opts)
	for _, o := range observers {
		app.AddObserver(o)
	}
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Draw()
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()

	a.driver.Cycle()
	a.trails.push(a.driver.System(), a.opts.Scale)
	a.trails.draw(a.driver.System())
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	sys := a.driver.System()
	rl.DrawText(sys.Name, 20, 20, 20, ColSelect)

	rl.DrawText(fmt.Sprintf("frame %d  t=%.2fs  days=%.1f", a.driver.Frames(), a.driver.SimTime(),
		a.driver.SimTime()*physics.Timestep/86400), 20, 48, 14, ColText)
	if !sys.Finite() {
		rl.DrawText("state diverged (NaN/Inf)", 20, 70, 14, rl.Red)
	}

	h := int32(a.opts.Height)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 20, h-30, 14, ColTextDim)
	rl.DrawText("[Q] QUIT", 140, h-30, 14, ColTextDim)
}
