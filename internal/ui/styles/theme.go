// Package styles holds the viewer's colour palette and lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the viewer.
type Theme struct {
	Primary lipgloss.Color // Purple - file name

	// Text hierarchy (most to least prominent)
	FgBase  lipgloss.Color // Primary text (bright)
	FgMuted lipgloss.Color // Secondary text (dimmed)

	BgBar lipgloss.Color // Status bar background

	Error lipgloss.Color // Red - errors

	styles *Styles
}

// Styles contains pre-built lipgloss styles for the status bar.
type Styles struct {
	Bar   lipgloss.Style // Full-width bar background
	Base  lipgloss.Style // Default text
	Muted lipgloss.Style // Dimmed text, separators
	Title lipgloss.Style // File name
	Error lipgloss.Style
}

var defaultTheme = Theme{
	Primary: lipgloss.Color("#a78bfa"),

	FgBase:  lipgloss.Color("#c0c0c0"),
	FgMuted: lipgloss.Color("#808080"),

	BgBar: lipgloss.Color("#1a1a1a"),

	Error: lipgloss.Color("#ff5555"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	bar := lipgloss.NewStyle().Background(t.BgBar)

	return &Styles{
		Bar:   bar.Foreground(t.FgBase),
		Base:  bar.Foreground(t.FgBase),
		Muted: bar.Foreground(t.FgMuted),
		Title: bar.Foreground(t.Primary).Bold(true),
		Error: bar.Foreground(t.Error),
	}
}
