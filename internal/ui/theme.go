package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

const defaultTheme = "stripe"

type palette struct {
	Surface  lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Border   lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	BarFill  lipgloss.Color
	BarEmpty lipgloss.Color
}

var palettes = map[string]palette{
	"stripe": {
		Surface:  lipgloss.Color("#0a2540"),
		Text:     lipgloss.Color("#f6f9fc"),
		Muted:    lipgloss.Color("#8898aa"),
		Accent:   lipgloss.Color("#635bff"),
		Border:   lipgloss.Color("#425466"),
		Success:  lipgloss.Color("#00d4aa"),
		Warning:  lipgloss.Color("#ffbb00"),
		BarFill:  lipgloss.Color("#635bff"),
		BarEmpty: lipgloss.Color("#1a3a5c"),
	},
	"catppuccin": {
		Surface:  lipgloss.Color("#313244"),
		Text:     lipgloss.Color("#cdd6f4"),
		Muted:    lipgloss.Color("#a6adc8"),
		Accent:   lipgloss.Color("#cba6f7"),
		Border:   lipgloss.Color("#585b70"),
		Success:  lipgloss.Color("#94e2d5"),
		Warning:  lipgloss.Color("#f9e2af"),
		BarFill:  lipgloss.Color("#94e2d5"),
		BarEmpty: lipgloss.Color("#313244"),
	},
	"dracula": {
		Surface:  lipgloss.Color("#343746"),
		Text:     lipgloss.Color("#f8f8f2"),
		Muted:    lipgloss.Color("#6272a4"),
		Accent:   lipgloss.Color("#ff79c6"),
		Border:   lipgloss.Color("#44475a"),
		Success:  lipgloss.Color("#50fa7b"),
		Warning:  lipgloss.Color("#f1fa8c"),
		BarFill:  lipgloss.Color("#50fa7b"),
		BarEmpty: lipgloss.Color("#343746"),
	},
	"paper": {
		Surface:  lipgloss.Color("#eef1f5"),
		Text:     lipgloss.Color("#1a1f36"),
		Muted:    lipgloss.Color("#697386"),
		Accent:   lipgloss.Color("#5469d4"),
		Border:   lipgloss.Color("#c1c9d2"),
		Success:  lipgloss.Color("#09825d"),
		Warning:  lipgloss.Color("#c84801"),
		BarFill:  lipgloss.Color("#5469d4"),
		BarEmpty: lipgloss.Color("#e3e8ee"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[defaultTheme]
}

// glamourStyle picks the markdown style that suits a palette.
func glamourStyle(name string) string {
	if name == "paper" {
		return "light"
	}
	return "dark"
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

type styles struct {
	title   lipgloss.Style
	topBar  lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	panel   lipgloss.Style
	current lipgloss.Style
	barFill lipgloss.Style
	barRest lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		topBar:  lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Surface),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
		accent:  lipgloss.NewStyle().Foreground(p.Accent),
		success: lipgloss.NewStyle().Foreground(p.Success),
		warning: lipgloss.NewStyle().Foreground(p.Warning),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		current: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		barFill: lipgloss.NewStyle().Foreground(p.BarFill),
		barRest: lipgloss.NewStyle().Foreground(p.BarEmpty),
	}
}
