// Package viz hosts the simulation in a terminal.
//
// [Canvas] is a braille pixel grid that implements frame.Surface, mapping
// the configured viewport onto 2x4 dots per character cell. [Model] is a
// Bubble Tea model that runs one frame cycle per tick and reschedules the
// next tick at the configured frame rate.
//
//	canvas := viz.NewCanvas(80, 24)
//	drv := frame.New(sys, canvas, clock.New(nil), opts)
//	p := tea.NewProgram(viz.NewModel(drv, canvas, viz.GetTheme("deepspace")))
//	_, err := p.Run()
package viz
