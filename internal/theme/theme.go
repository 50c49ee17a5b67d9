package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds all visual configuration for the application.
type Theme struct {
	// Name of the theme
	Name string

	// Color palette
	Colors ColorPalette
}

// ColorPalette holds all color definitions.
type ColorPalette struct {
	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Focus     lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Accent    lipgloss.Color

	// Background colors
	BgPanel     lipgloss.Color
	BgHeader    lipgloss.Color
	BgSelection lipgloss.Color

	// Text colors
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
}

// DefaultTheme returns the default theme.
func DefaultTheme() *Theme {
	return MidnightTheme()
}
