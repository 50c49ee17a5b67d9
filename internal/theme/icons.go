package theme

import "github.com/avitaltamir/manview/internal/collapse"

// Group toggle icons
const (
	IconShown  = "▾"
	IconHidden = "▸"
)

// Panel decorations
const (
	PanelDiamond = "◈"
	LinkArrow    = "→"
)

// Status indicators
const (
	StatusRunning = "●"
	StatusIdle    = "○"
)

// SpinnerDots are the frames of the loading spinner.
var SpinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ToggleIcon returns the toggle glyph for a group state.
func ToggleIcon(s collapse.State) string {
	if s == collapse.Hidden {
		return IconHidden
	}
	return IconShown
}
