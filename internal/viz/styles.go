package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(statsWidth)

	canvasStyle = lipgloss.NewStyle().Padding(1, 1)

	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))
)

// GradientText colours each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, to := toColorful(start), toColorful(end)

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendRgb(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineChart renders the most recent width values, scaled between zero
// and their maximum and banded with the theme's speed colours.
func SparklineChart(values []float64, width int, th Theme) string {
	if len(values) == 0 || width <= 0 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	hi := 0.0
	for _, v := range values {
		hi = max(hi, v)
	}
	if hi == 0 {
		hi = 1
	}

	fast := lipgloss.NewStyle().Foreground(th.Fast)
	cruise := lipgloss.NewStyle().Foreground(th.Cruise)
	slow := lipgloss.NewStyle().Foreground(th.Slow)

	var b strings.Builder
	for _, v := range values {
		norm := max(0, min(v/hi, 1))
		c := string(sparkChars[int(norm*float64(len(sparkChars)-1))])
		switch {
		case norm > 0.7:
			b.WriteString(fast.Render(c))
		case norm > 0.3:
			b.WriteString(cruise.Render(c))
		default:
			b.WriteString(slow.Render(c))
		}
	}
	return b.String()
}

// Separator draws a decorative rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
