package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
)

var presetInfo = map[string]string{
	"corners":      "five resting moons",
	"figure-eight": "periodic three-body",
	"random":       "seeded swarm",
	"binary":       "circular pair",
	"collide":      "elastic impacts",
}

const (
	stateMenu = iota
	stateSim
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// browser lists presets and opens the live view for the chosen one. Esc
// returns to the list.
type browser struct {
	state, cursor int
	presets       []string
	opts          experiment.Options
	theme         string
	live          Model
	err           error
	width, height int
}

func NewBrowser(opts experiment.Options, theme string) tea.Model {
	return browser{
		presets: config.ListPresets(),
		opts:    opts,
		theme:   theme,
	}
}

func (m browser) Init() tea.Cmd { return nil }

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		if msg.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if m.state != stateSim {
			return m, nil
		}
	}
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m browser) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		live, err := NewModel(config.GetPreset(m.presets[m.cursor]), m.opts)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.live = live.WithTheme(m.theme)
		if m.width > 0 {
			m.live.resize(m.width, m.height)
		}
		m.state = stateSim
		return m, m.live.Init()
	}
	return m, nil
}

func (m browser) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("GRAVSIM") + "\n    " + menuSub.Render("n-body gravity in the terminal") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-14s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-14s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuSub.Render(" navigate  ") + menuKey.Render("enter") + menuSub.Render(" open  ") + menuKey.Render("esc") + menuSub.Render(" back  ") + menuKey.Render("q") + menuSub.Render(" quit") + "\n")
	return b.String()
}

func RunBrowser(opts experiment.Options, theme string) error {
	_, err := tea.NewProgram(NewBrowser(opts, theme), tea.WithAltScreen()).Run()
	return err
}
