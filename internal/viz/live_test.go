package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

func fakeClock(step time.Duration) *sim.Clock {
	now := time.Unix(0, 0)
	return sim.NewClock(0.1).WithSource(func() time.Time {
		now = now.Add(step)
		return now
	})
}

func newTestModel(t *testing.T, preset string) Model {
	t.Helper()
	m, err := NewModel(config.GetPreset(preset), experiment.Options{})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m.WithClock(fakeClock(16 * time.Millisecond))
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicksStepSimulation(t *testing.T) {
	m := newTestModel(t, "binary")
	for i := 0; i < 3; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	if m.Simulation().Steps() != 3 {
		t.Errorf("expected 3 steps, got %d", m.Simulation().Steps())
	}
	// first tick yields a zero delta
	if got := m.Simulation().Time(); got < 0.031 || got > 0.033 {
		t.Errorf("expected time ~0.032, got %f", got)
	}
	if len(m.energyHistory) != 3 {
		t.Errorf("expected 3 energy samples, got %d", len(m.energyHistory))
	}
	if len(m.speedHistory) != 3 || m.speedHistory[2] <= 0 {
		t.Errorf("expected 3 positive speed samples, got %v", m.speedHistory)
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t, "binary")
	m = update(m, key(" "))
	if m.Running() {
		t.Fatal("expected paused")
	}
	m = update(m, TickMsg(time.Now()))
	if m.Simulation().Steps() != 0 {
		t.Errorf("paused model must not step, got %d steps", m.Simulation().Steps())
	}
	m = update(m, key("p"))
	if !m.Running() {
		t.Error("expected running after p")
	}
}

func TestModelToggles(t *testing.T) {
	m := newTestModel(t, "corners")
	if m.Simulation().Collisions() {
		t.Fatal("corners starts without collisions")
	}
	m = update(m, key("c"))
	if !m.Simulation().Collisions() {
		t.Error("expected collisions on")
	}

	grid := m.showGrid
	m = update(m, key("g"))
	if m.showGrid == grid {
		t.Error("expected grid toggled")
	}

	theme := m.theme.Name
	m = update(m, key("t"))
	if m.theme.Name == theme {
		t.Error("expected theme changed")
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t, "collide")
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	before := m.Simulation()
	m = update(m, key("r"))
	if m.Simulation() == before {
		t.Error("expected a fresh simulation after reset")
	}
	if m.Simulation().Steps() != 0 {
		t.Errorf("expected 0 steps after reset, got %d", m.Simulation().Steps())
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, "binary")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, "binary")
	m = update(m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if m.canvas.Width != 160-statsWidth-4 || m.canvas.Height != 47 {
		t.Errorf("unexpected canvas size %dx%d", m.canvas.Width, m.canvas.Height)
	}

	m = update(m, tea.WindowSizeMsg{Width: 10, Height: 2})
	if m.canvas.Width != minCanvasWidth || m.canvas.Height != minCanvasHeight {
		t.Errorf("expected minimum canvas, got %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, "figure-eight")
	for i := 0; i < 10; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	out := m.View()
	for _, want := range []string{"RUNNING", "Bodies", "Top speed", "min_separation", "energy_drift"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	dots := 0
	for _, row := range m.canvas.Grid {
		for _, r := range row {
			if r != blank {
				dots++
			}
		}
	}
	if dots == 0 {
		t.Error("expected something drawn on the canvas")
	}
}

func TestBrowserOpensPreset(t *testing.T) {
	var b tea.Model = NewBrowser(experiment.Options{}, "nebula")
	b, _ = b.Update(key("j"))
	b, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected tick command after opening a preset")
	}
	br := b.(browser)
	if br.state != stateSim {
		t.Fatal("expected live view")
	}
	if br.live.cfg.Name != config.ListPresets()[1] {
		t.Errorf("expected preset %s, got %s", config.ListPresets()[1], br.live.cfg.Name)
	}
	if br.live.theme.Name != "nebula" {
		t.Errorf("expected nebula theme, got %s", br.live.theme.Name)
	}

	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if b.(browser).state != stateMenu {
		t.Error("expected menu after esc")
	}
	if !strings.Contains(b.View(), "GRAVSIM") {
		t.Error("expected menu view")
	}
}
