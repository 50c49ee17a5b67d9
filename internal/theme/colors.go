package theme

import "github.com/charmbracelet/lipgloss"

// Semantic colors. ApplyTheme overwrites these; components read them at
// render time so a theme switch takes effect on the next frame.
var (
	ColorPrimary   = lipgloss.Color("#FF00FF") // Focused borders, active buttons
	ColorSecondary = lipgloss.Color("#00FFFF") // Titles, group headers
	ColorFocus     = lipgloss.Color("#FF10F0") // Cursor
	ColorSuccess   = lipgloss.Color("#39FF14") // Running indicator
	ColorError     = lipgloss.Color("#FF3131") // Errors
	ColorWarning   = lipgloss.Color("#FFFF00") // Notices
	ColorAccent    = lipgloss.Color("#7B68EE") // Links, theme name

	BgPanel     = lipgloss.Color("#1A0A2E")
	BgHeader    = lipgloss.Color("#2D1B4E") // Shown group header bar
	BgSelection = lipgloss.Color("#3D2D5E")

	TextPrimary   = lipgloss.Color("#FFFFFF")
	TextSecondary = lipgloss.Color("#E0E0E0")
	TextMuted     = lipgloss.Color("#888899") // Descriptions, disabled buttons
	TextDim       = lipgloss.Color("#4A4A6A") // Inactive borders
)
