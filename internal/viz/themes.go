package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colours the arena and the stats panel.
type Theme struct {
	Name string
	// TitleFrom and TitleTo bound the title gradient.
	TitleFrom lipgloss.Color
	TitleTo   lipgloss.Color
	// Space is the arena background; trails and the grid fade into it.
	Space lipgloss.Color
	Grid  lipgloss.Color
	// Fast, Cruise and Slow band the top-speed sparkline.
	Fast   lipgloss.Color
	Cruise lipgloss.Color
	Slow   lipgloss.Color
}

var (
	ThemeDeepSpace = Theme{
		Name:      "deep-space",
		TitleFrom: lipgloss.Color("#7f7fff"),
		TitleTo:   lipgloss.Color("#ff7fd4"),
		Space:     lipgloss.Color("#05060f"),
		Grid:      lipgloss.Color("#2c3566"),
		Fast:      lipgloss.Color("#ff6f91"),
		Cruise:    lipgloss.Color("#c9a7ff"),
		Slow:      lipgloss.Color("#5b7cfa"),
	}

	ThemePhosphor = Theme{
		Name:      "phosphor",
		TitleFrom: lipgloss.Color("#33ff66"),
		TitleTo:   lipgloss.Color("#b3ffc6"),
		Space:     lipgloss.Color("#020b04"),
		Grid:      lipgloss.Color("#0f5c22"),
		Fast:      lipgloss.Color("#d6ff5c"),
		Cruise:    lipgloss.Color("#33ff66"),
		Slow:      lipgloss.Color("#138a34"),
	}

	ThemeNebula = Theme{
		Name:      "nebula",
		TitleFrom: lipgloss.Color("#00d4c8"),
		TitleTo:   lipgloss.Color("#8a5cff"),
		Space:     lipgloss.Color("#0d0620"),
		Grid:      lipgloss.Color("#3b2a6e"),
		Fast:      lipgloss.Color("#ff5ca8"),
		Cruise:    lipgloss.Color("#00d4c8"),
		Slow:      lipgloss.Color("#4a3aa8"),
	}

	ThemeSolar = Theme{
		Name:      "solar",
		TitleFrom: lipgloss.Color("#ffd23f"),
		TitleTo:   lipgloss.Color("#ff5e1a"),
		Space:     lipgloss.Color("#1a0a02"),
		Grid:      lipgloss.Color("#6b3a12"),
		Fast:      lipgloss.Color("#ffffff"),
		Cruise:    lipgloss.Color("#ffd23f"),
		Slow:      lipgloss.Color("#c2410c"),
	}

	ThemeChalk = Theme{
		Name:      "chalk",
		TitleFrom: lipgloss.Color("#f2f2f2"),
		TitleTo:   lipgloss.Color("#9aa5b1"),
		Space:     lipgloss.Color("#1e2a23"),
		Grid:      lipgloss.Color("#8fa396"),
		Fast:      lipgloss.Color("#ffb3b3"),
		Cruise:    lipgloss.Color("#f2f2f2"),
		Slow:      lipgloss.Color("#9fc5e8"),
	}

	Themes = []Theme{
		ThemeDeepSpace,
		ThemePhosphor,
		ThemeNebula,
		ThemeSolar,
		ThemeChalk,
	}
)

// GetTheme returns a theme by name, falling back to deep-space.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDeepSpace
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func toColorful(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return col
}
