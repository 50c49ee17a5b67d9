package layout

// Layout constants
const (
	DefaultLeftPanelPercent = 45
	MinLeftPanelPercent     = 25
	MaxLeftPanelPercent     = 75
	StatusBarHeight         = 1
	MinPanelWidth           = 20
	MinPanelHeight          = 5
)

// Layout holds calculated dimensions for all panels.
type Layout struct {
	// Total terminal dimensions
	TotalWidth  int
	TotalHeight int

	// Panel widths
	LeftWidth  int
	RightWidth int

	// Panel height (both panels share it)
	MainHeight int

	// Status bar
	StatusHeight int

	// RightVisible is false until a manual page has been opened; the
	// results panel then spans the full width.
	RightVisible bool
}

// Calculate computes the layout dimensions based on terminal size.
// leftPercent controls the width of the results panel when the manual
// page panel is visible.
func Calculate(width, height, leftPercent int, rightVisible bool) Layout {
	l := Layout{
		TotalWidth:   width,
		TotalHeight:  height,
		StatusHeight: StatusBarHeight,
		RightVisible: rightVisible,
	}

	// Clamp left panel percentage to valid range
	leftPercent = min(max(leftPercent, MinLeftPanelPercent), MaxLeftPanelPercent)

	if rightVisible {
		l.LeftWidth = max(width*leftPercent/100, MinPanelWidth)
		l.RightWidth = max(width-l.LeftWidth, MinPanelWidth)

		// Ensure we don't exceed total width
		if l.LeftWidth+l.RightWidth > width {
			l.RightWidth = max(width-l.LeftWidth, 0)
		}
	} else {
		l.LeftWidth = width
	}

	l.MainHeight = max(height-l.StatusHeight, 0)

	return l
}

// ContentWidth returns the inner width for content (excluding borders).
func (l Layout) ContentWidth(panelWidth int, borderWidth int) int {
	return max(panelWidth-borderWidth*2, 0)
}

// ContentHeight returns the inner height for content (excluding borders).
func (l Layout) ContentHeight(panelHeight int, borderHeight int) int {
	return max(panelHeight-borderHeight*2, 0)
}

// LeftPanelBounds returns the position and size of the results panel.
func (l Layout) LeftPanelBounds() (x, y, width, height int) {
	return 0, 0, l.LeftWidth, l.MainHeight
}

// RightPanelBounds returns the position and size of the manual page panel.
func (l Layout) RightPanelBounds() (x, y, width, height int) {
	if !l.RightVisible {
		return 0, 0, 0, 0
	}
	return l.LeftWidth, 0, l.RightWidth, l.MainHeight
}

// StatusBarBounds returns the position and size of the status bar.
func (l Layout) StatusBarBounds() (x, y, width, height int) {
	return 0, l.MainHeight, l.TotalWidth, l.StatusHeight
}
