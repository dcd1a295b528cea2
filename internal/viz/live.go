package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 44
	minCanvasWidth  = 20
	minCanvasHeight = 8
	historyCapacity = 300
	sparkWidth      = statsWidth - 6
)

type TickMsg time.Time

// Model steps a simulation from a wall-clock frame clock and draws its
// bodies, trails and reference grid.
type Model struct {
	cfg  *config.Config
	opts experiment.Options

	exp   *experiment.Experiment
	sim   *sim.Simulation
	clock *sim.Clock
	err   error

	canvas        *Canvas
	width, height int
	theme         Theme

	running    bool
	showGrid   bool
	showTrails bool
	showHelp   bool

	energyHistory []float64
	speedHistory  []float64
}

// NewModel builds the configured experiment and a canvas of the default
// size.
func NewModel(cfg *config.Config, opts experiment.Options) (Model, error) {
	m := Model{
		cfg:        cfg,
		opts:       opts,
		clock:      sim.NewClock(cfg.Physics.MaxDelta),
		canvas:     NewCanvas(width, height),
		width:      width,
		height:     height,
		theme:      ThemeDeepSpace,
		running:    true,
		showGrid:   cfg.View.Grid,
		showTrails: cfg.View.Trails,
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// WithClock replaces the frame clock.
func (m Model) WithClock(c *sim.Clock) Model {
	m.clock = c
	return m
}

func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) Simulation() *sim.Simulation { return m.sim }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.err }

func (m *Model) rebuild() error {
	e, err := experiment.New(m.cfg, m.opts)
	if err != nil {
		return err
	}
	m.exp = e
	m.sim = e.GetSimulator()
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.clock.Reset()
	return nil
}

func (m Model) tick() tea.Cmd {
	fps := m.cfg.View.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
			if m.running {
				m.clock.Reset()
			}
		case "r":
			if err := m.rebuild(); err != nil {
				m.err = err
				m.running = false
			} else {
				m.running = true
			}
		case "c":
			m.sim.SetCollisions(!m.sim.Collisions())
		case "g":
			m.showGrid = !m.showGrid
		case "l":
			m.showTrails = !m.showTrails
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		dt := m.clock.Tick()
		if m.running {
			m.step(dt)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-4, minCanvasWidth)
	ch := max(h-3, minCanvasHeight)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// step advances the physics simulation.
func (m *Model) step(dt float64) {
	if err := m.sim.Step(dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	for _, mt := range m.exp.Metrics() {
		if mt.Name() == "energy" {
			m.energyHistory = append(m.energyHistory, mt.Value())
		}
	}
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	top := 0.0
	for _, b := range m.sim.Bodies() {
		top = max(top, r2.Norm(b.Vel))
	}
	m.speedHistory = append(m.speedHistory, top)
	if len(m.speedHistory) > historyCapacity {
		m.speedHistory = m.speedHistory[1:]
	}
}

// draw renders grid, trails and bodies onto the canvas in that order.
func (m *Model) draw() {
	m.canvas.Clear()
	dw, dh := m.canvas.Dots()
	vp := NewViewport(m.sim.Config().Arena, dw, dh)
	bg := toColorful(m.theme.Space)

	if m.showGrid {
		m.drawGrid(vp, bg.BlendRgb(toColorful(m.theme.Grid), m.cfg.View.GridAlpha))
	}

	bodies := m.sim.Bodies()
	if m.showTrails {
		for _, b := range bodies {
			tr := b.Trail
			for i := 1; i < tr.Len(); i++ {
				x0, y0 := vp.Project(tr.At(i - 1))
				x1, y1 := vp.Project(tr.At(i))
				m.canvas.DrawLine(x0, y0, x1, y1, bg.BlendRgb(b.Color, tr.Alpha(i)))
			}
		}
	}

	for _, b := range bodies {
		x, y := vp.Project(b.Pos)
		rx, ry := vp.Radius(b.Radius)
		m.canvas.FillEllipse(x, y, rx, ry, b.Color)
	}
}

func (m *Model) drawGrid(vp Viewport, col colorful.Color) {
	spacing := m.cfg.View.GridSpacing
	if spacing <= 0 {
		return
	}
	a := vp.Arena
	for x := a.Min.X; x <= a.Max.X; x += spacing {
		x0, y0 := vp.Project(r2.Vec{X: x, Y: a.Min.Y})
		x1, y1 := vp.Project(r2.Vec{X: x, Y: a.Max.Y})
		m.canvas.DrawLine(x0, y0, x1, y1, col)
	}
	for y := a.Min.Y; y <= a.Max.Y; y += spacing {
		x0, y0 := vp.Project(r2.Vec{X: a.Min.X, Y: y})
		x1, y1 := vp.Project(r2.Vec{X: a.Max.X, Y: y})
		m.canvas.DrawLine(x0, y0, x1, y1, col)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.cfg.Name), m.theme.TitleFrom, m.theme.TitleTo) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("ERROR") + "\n" + wrap(m.err.Error(), statsWidth-4) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	cfg := m.sim.Config()
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	row("Bodies", fmt.Sprintf("%d", len(m.sim.Bodies())))
	row("Guard", cfg.Guard.String())
	row("Collisions", onOff(cfg.Collisions))
	if n := len(m.speedHistory); n > 0 {
		row("Top speed", formatValue(m.speedHistory[n-1]))
		s.WriteString(SparklineChart(m.speedHistory, sparkWidth, m.theme) + "\n")
	}
	s.WriteString("\n")
	for _, mt := range m.exp.Metrics() {
		row(mt.Name(), formatValue(mt.Value()))
	}

	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset C:Collide Q:Quit\nG:Grid L:Trails T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space/P  - Pause/Resume simulation  ║
║  R        - Rebuild the scenario     ║
║  C        - Toggle collisions        ║
║  G        - Toggle grid              ║
║  L        - Toggle trails            ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return "-"
	case v != 0 && (math.Abs(v) >= 1e5 || math.Abs(v) < 1e-3):
		return fmt.Sprintf("%.3e", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

func wrap(s string, w int) string {
	if w <= 0 || len(s) <= w {
		return s
	}
	var b strings.Builder
	for len(s) > w {
		b.WriteString(s[:w] + "\n")
		s = s[w:]
	}
	b.WriteString(s)
	return b.String()
}

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
