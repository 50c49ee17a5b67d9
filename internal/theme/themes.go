package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Available themes
var (
	themes       []*Theme
	currentIndex int
)

func init() {
	themes = []*Theme{
		MidnightTheme(),
		PaperTheme(),
		AmberTheme(),
	}
	currentIndex = 0
	ApplyTheme(themes[0])
}

// AllThemes returns all available themes.
func AllThemes() []*Theme {
	return themes
}

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	return themes[currentIndex]
}

// CurrentThemeIndex returns the index of the current theme.
func CurrentThemeIndex() int {
	return currentIndex
}

// NextTheme cycles to the next theme and applies it.
func NextTheme() *Theme {
	currentIndex = (currentIndex + 1) % len(themes)
	ApplyTheme(themes[currentIndex])
	return themes[currentIndex]
}

// SetThemeIndex sets the current theme by index and applies it.
// Returns false if index is out of bounds.
func SetThemeIndex(index int) bool {
	if index < 0 || index >= len(themes) {
		return false
	}
	currentIndex = index
	ApplyTheme(themes[currentIndex])
	return true
}

// SetThemeByName applies the theme called name, ignoring case.
// Returns false if there is no such theme.
func SetThemeByName(name string) bool {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return SetThemeIndex(i)
		}
	}
	return false
}

// ApplyTheme sets all the global color variables to match the theme.
func ApplyTheme(t *Theme) {
	ColorPrimary = t.Colors.Primary
	ColorSecondary = t.Colors.Secondary
	ColorFocus = t.Colors.Focus
	ColorSuccess = t.Colors.Success
	ColorError = t.Colors.Error
	ColorWarning = t.Colors.Warning
	ColorAccent = t.Colors.Accent

	BgPanel = t.Colors.BgPanel
	BgHeader = t.Colors.BgHeader
	BgSelection = t.Colors.BgSelection

	TextPrimary = t.Colors.TextPrimary
	TextSecondary = t.Colors.TextSecondary
	TextMuted = t.Colors.TextMuted
	TextDim = t.Colors.TextDim

	regenerateStyles()
}

// MidnightTheme - Neon pink and cyan on deep purple
func MidnightTheme() *Theme {
	return &Theme{
		Name: "Midnight",
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#FF00FF"),
			Secondary:     lipgloss.Color("#00FFFF"),
			Focus:         lipgloss.Color("#FF10F0"),
			Success:       lipgloss.Color("#39FF14"),
			Error:         lipgloss.Color("#FF3131"),
			Warning:       lipgloss.Color("#FFFF00"),
			Accent:        lipgloss.Color("#7B68EE"),
			BgPanel:       lipgloss.Color("#1A0A2E"),
			BgHeader:      lipgloss.Color("#2D1B4E"),
			BgSelection:   lipgloss.Color("#3D2D5E"),
			TextPrimary:   lipgloss.Color("#FFFFFF"),
			TextSecondary: lipgloss.Color("#E0E0E0"),
			TextMuted:     lipgloss.Color("#888899"),
			TextDim:       lipgloss.Color("#4A4A6A"),
		},
	}
}

// PaperTheme - Ink on newsprint
func PaperTheme() *Theme {
	return &Theme{
		Name: "Paper",
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#1F3A93"), // Fountain pen
			Secondary:     lipgloss.Color("#8E2800"), // Rubric red
			Focus:         lipgloss.Color("#C0392B"),
			Success:       lipgloss.Color("#2E7D32"),
			Error:         lipgloss.Color("#B71C1C"),
			Warning:       lipgloss.Color("#AD6800"),
			Accent:        lipgloss.Color("#5E35B1"),
			BgPanel:       lipgloss.Color("#F5F1E6"),
			BgHeader:      lipgloss.Color("#E6DFCC"),
			BgSelection:   lipgloss.Color("#D8CFB4"),
			TextPrimary:   lipgloss.Color("#1B1B1B"),
			TextSecondary: lipgloss.Color("#3C3C3C"),
			TextMuted:     lipgloss.Color("#6D6D6D"),
			TextDim:       lipgloss.Color("#A8A8A8"),
		},
	}
}

// AmberTheme - Monochrome phosphor terminal
func AmberTheme() *Theme {
	return &Theme{
		Name: "Amber",
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#FFB000"),
			Secondary:     lipgloss.Color("#FFCC00"),
			Focus:         lipgloss.Color("#FFE066"),
			Success:       lipgloss.Color("#FFB000"),
			Error:         lipgloss.Color("#FF5F1F"),
			Warning:       lipgloss.Color("#FFD27F"),
			Accent:        lipgloss.Color("#E89B00"),
			BgPanel:       lipgloss.Color("#140C00"),
			BgHeader:      lipgloss.Color("#2A1A00"),
			BgSelection:   lipgloss.Color("#3D2600"),
			TextPrimary:   lipgloss.Color("#FFC966"),
			TextSecondary: lipgloss.Color("#E0A940"),
			TextMuted:     lipgloss.Color("#9E7424"),
			TextDim:       lipgloss.Color("#5C4414"),
		},
	}
}
