// Package tui provides the terminal user interface for PantryMind.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/tui/components"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	AccentColor    lipgloss.Color
	MutedColor     lipgloss.Color

	Base lipgloss.Style

	// Color styles
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style

	// Component styles
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Box       lipgloss.Style
	Selected  lipgloss.Style
	Alert     lipgloss.Style
	AlertWarn lipgloss.Style
	AlertCrit lipgloss.Style

	StatusDivider lipgloss.Style
}

// NewTheme creates a theme for the configured color scheme.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeTomato:
		return newTomatoTheme()
	case config.ColorSchemePlain:
		return newPlainTheme()
	default:
		return newHerbTheme()
	}
}

// newHerbTheme is the default green palette.
func newHerbTheme() *Theme {
	return buildTheme(palette{
		primary:   "#8FD694",
		secondary: "#5A9E5F",
		accent:    "#C5F2A6",
		muted:     "#3E5E41",
		errorC:    "#FF5F56",
		warning:   "#FFBD2E",
		success:   "#8FD694",
	})
}

func newTomatoTheme() *Theme {
	return buildTheme(palette{
		primary:   "#FF8A65",
		secondary: "#C75B39",
		accent:    "#FFCCBC",
		muted:     "#6D3B2B",
		errorC:    "#FF3D3D",
		warning:   "#FFD54F",
		success:   "#AED581",
	})
}

func newPlainTheme() *Theme {
	return buildTheme(palette{
		primary:   "#FFFFFF",
		secondary: "#AAAAAA",
		accent:    "#FFFFFF",
		muted:     "#666666",
		errorC:    "#FF4444",
		warning:   "#FFAA00",
		success:   "#00FF00",
	})
}

type palette struct {
	primary, secondary, accent, muted lipgloss.Color
	errorC, warning, success          lipgloss.Color
}

func buildTheme(p palette) *Theme {
	t := &Theme{
		PrimaryColor:   p.primary,
		SecondaryColor: p.secondary,
		AccentColor:    p.accent,
		MutedColor:     p.muted,
	}

	t.Base = lipgloss.NewStyle().Foreground(p.primary)

	t.Primary = lipgloss.NewStyle().Foreground(p.primary)
	t.Secondary = lipgloss.NewStyle().Foreground(p.secondary)
	t.Accent = lipgloss.NewStyle().Foreground(p.accent)
	t.Error = lipgloss.NewStyle().Foreground(p.errorC)
	t.Warning = lipgloss.NewStyle().Foreground(p.warning)
	t.Success = lipgloss.NewStyle().Foreground(p.success)
	t.Muted = lipgloss.NewStyle().Foreground(p.muted)

	t.Header = lipgloss.NewStyle().
		Foreground(p.primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(p.secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true).
		Padding(0, 1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(p.primary).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().Foreground(p.secondary)
	t.Value = lipgloss.NewStyle().Foreground(p.primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.secondary).
		Padding(0, 1)

	t.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(p.primary).
		Bold(true)

	t.Alert = lipgloss.NewStyle().Foreground(p.primary).Bold(true)
	t.AlertWarn = lipgloss.NewStyle().Foreground(p.warning).Bold(true)
	t.AlertCrit = lipgloss.NewStyle().Foreground(p.errorC).Bold(true)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(p.muted).
		SetString(" │ ")

	return t
}

// ViewStyles returns the subset of the theme the views render with.
func (t *Theme) ViewStyles() components.Styles {
	return components.Styles{
		Title:    t.Title,
		Section:  t.Subtitle,
		Label:    t.Label,
		Value:    t.Value,
		Muted:    t.Muted,
		Warning:  t.Warning,
		Error:    t.Error,
		Header:   t.Accent.Bold(true),
		Row:      t.Primary,
		RowAlt:   t.Secondary,
		Selected: t.Selected,
		Border:   t.Secondary,
	}
}

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Secondary.Render(strings.Repeat("─", max(width, 0)))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat("═", max(width, 0)))
}
