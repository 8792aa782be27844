package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/physics"
)

const (
	historyCapacity = 300
	panelWidth      = 42
)

// TickMsg triggers one frame cycle.
type TickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type styles struct {
	canvas lipgloss.Style
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(th.Border).Padding(1, 2).Width(panelWidth),
		header: lipgloss.NewStyle().Foreground(th.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(th.Muted).Width(10),
		value:  lipgloss.NewStyle().Foreground(th.Text),
		graph:  lipgloss.NewStyle().Foreground(th.Accent).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1),
	}
}

// Model hosts a frame.Driver inside a bubbletea program. Every TickMsg runs
// one cycle and schedules the next tick after the driver's interval, so the
// event loop stays free between frames.
type Model struct {
	driver        *frame.Driver
	canvas        *Canvas
	styles        styles
	energyHistory []float64
}

func NewModel(drv *frame.Driver, canvas *Canvas, th Theme) Model {
	return Model{
		driver:        drv,
		canvas:        canvas,
		styles:        newStyles(th),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick(m.driver.Interval())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		cols := msg.Width - panelWidth - 8
		rows := msg.Height - 4
		if cols > 10 && rows > 4 {
			m.canvas.Resize(cols, rows)
			m.driver.Render()
		}
	case TickMsg:
		m.step()
		return m, tick(m.driver.Interval())
	}
	return m, nil
}

func (m *Model) step() {
	m.driver.Cycle()

	sys := m.driver.System()
	m.energyHistory = append(m.energyHistory, sys.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m Model) View() string {
	sys := m.driver.System()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(sys.Name)) + "\n")

	simDays := m.driver.SimTime() * physics.Timestep / 86400
	s.WriteString(st.label.Render("Frame") + st.value.Render(fmt.Sprintf("%d", m.driver.Frames())) + "\n")
	s.WriteString(st.label.Render("Wall") + st.value.Render(fmt.Sprintf("%.2fs", m.driver.SimTime())) + "\n")
	s.WriteString(st.label.Render("Δt") + st.value.Render(fmt.Sprintf("%.4fs", m.driver.Elapsed())) + "\n")
	s.WriteString(st.label.Render("Days") + st.value.Render(fmt.Sprintf("%.1f", simDays)) + "\n")
	s.WriteString(st.label.Render("FPS") + st.value.Render(fmt.Sprintf("%d", m.driver.Options().FPS)) + "\n")

	if len(m.energyHistory) > 1 && finite(m.energyHistory) {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(panelWidth-12), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for _, b := range sys.Bodies {
		line := fmt.Sprintf("%-8s %9.2f %9.2f", b.Name, b.Position.X, b.Position.Y)
		s.WriteString(st.value.Render(line) + "\n")
	}
	if !sys.Finite() {
		s.WriteString(st.header.Render("state diverged (NaN/Inf)") + "\n")
	}

	s.WriteString(st.help.Render("Q:Quit"))

	canvasView := st.canvas.Render(m.canvas.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}

func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
