package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors and styles for the chart and chrome. The
// series palette comes from configuration; everything else is fixed.
type Theme struct {
	Palette []lipgloss.Color

	Title     lipgloss.Style
	Status    lipgloss.Style
	StatusKey lipgloss.Style
	Axis      lipgloss.Style
	Muted     lipgloss.Style
	Warn      lipgloss.Style
	Help      lipgloss.Style
}

// NewTheme builds the default theme around the configured palette.
func NewTheme(palette []string) Theme {
	colors := make([]lipgloss.Color, len(palette))
	for i, c := range palette {
		colors[i] = lipgloss.Color(c)
	}
	return Theme{
		Palette: colors,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),
		Status: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("250")),
		StatusKey: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true),
		Axis: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// SeriesColor cycles the palette for series beyond its length.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Palette) == 0 {
		return lipgloss.Color("252")
	}
	return t.Palette[i%len(t.Palette)]
}
