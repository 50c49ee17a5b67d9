package theme

import (
	"fmt"
	"strings"

	"github.com/avitaltamir/manview/internal/collapse"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border definitions
var (
	// NeonBorder uses heavy lines for the focused panel
	NeonBorder = lipgloss.Border{
		Top:         "━",
		Bottom:      "━",
		Left:        "┃",
		Right:       "┃",
		TopLeft:     "┏",
		TopRight:    "┓",
		BottomLeft:  "┗",
		BottomRight: "┛",
	}

	// GlowBorder uses rounded corners for a softer look
	GlowBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      "─",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "╰",
		BottomRight: "╯",
	}
)

// Text styles
var (
	TextH1         lipgloss.Style
	TextBody       lipgloss.Style
	TextMutedStyle lipgloss.Style
	TextDimStyle   lipgloss.Style
	ErrorStyle     lipgloss.Style
)

// Result list styles
var (
	RowLabel       lipgloss.Style
	RowDescription lipgloss.Style
	RowSelected    lipgloss.Style
	TableHeading   lipgloss.Style
	LinkStyle      lipgloss.Style
)

// Group header styles, one per collapse state
var (
	GroupHeaderShown  lipgloss.Style
	GroupHeaderHidden lipgloss.Style
	ToggleShown       lipgloss.Style
	ToggleHidden      lipgloss.Style
)

// Button styles
var (
	ButtonIdle     lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonDisabled lipgloss.Style
)

// Status bar styles
var (
	StatusBarStyle     lipgloss.Style
	StatusBarHighlight lipgloss.Style
)

// Dialog and spinner styles
var (
	DialogStyle  lipgloss.Style
	SpinnerStyle lipgloss.Style
)

// regenerateStyles rebuilds all style variables based on current color values.
// Called when theme changes.
func regenerateStyles() {
	TextH1 = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	TextBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	TextMutedStyle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	TextDimStyle = lipgloss.NewStyle().
		Foreground(TextDim).
		Faint(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	RowLabel = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	RowDescription = lipgloss.NewStyle().
		Foreground(TextSecondary)

	RowSelected = lipgloss.NewStyle().
		Foreground(ColorFocus).
		Background(BgSelection).
		Bold(true)

	TableHeading = lipgloss.NewStyle().
		Foreground(TextMuted).
		Underline(true)

	LinkStyle = lipgloss.NewStyle().
		Foreground(ColorAccent)

	GroupHeaderShown = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Background(BgHeader).
		Bold(true)

	GroupHeaderHidden = lipgloss.NewStyle().
		Foreground(TextMuted)

	ToggleShown = lipgloss.NewStyle().
		Foreground(ColorPrimary)

	ToggleHidden = lipgloss.NewStyle().
		Foreground(TextMuted)

	ButtonIdle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	ButtonActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	ButtonDisabled = lipgloss.NewStyle().
		Foreground(TextDim).
		Strikethrough(true).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	StatusBarHighlight = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	DialogStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Padding(1, 2)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
}

// GroupHeaderStyle returns the header bar style for a group state.
func GroupHeaderStyle(s collapse.State) lipgloss.Style {
	if s == collapse.Hidden {
		return GroupHeaderHidden
	}
	return GroupHeaderShown
}

// ToggleStyle returns the toggle button style for a group state.
func ToggleStyle(s collapse.State) lipgloss.Style {
	if s == collapse.Hidden {
		return ToggleHidden
	}
	return ToggleShown
}

// ButtonStyle returns the style for a control button.
func ButtonStyle(active, disabled bool) lipgloss.Style {
	switch {
	case disabled:
		return ButtonDisabled
	case active:
		return ButtonActive
	default:
		return ButtonIdle
	}
}

// FormatScrollIndicator returns a formatted scroll percentage indicator.
// Returns empty string if percent is 100 (at bottom) or invalid.
func FormatScrollIndicator(percent float64) string {
	if percent >= 99.9 || percent < 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(percent))
}

// FormatStatusIndicator returns a running/idle status indicator.
func FormatStatusIndicator(running bool) string {
	if running {
		return StatusRunning
	}
	return StatusIdle
}

// PanelTitleOptions configures what to show in panel borders.
type PanelTitleOptions struct {
	Title         string  // Main title text (e.g., "RESULTS", "ls(1)")
	StatusRunning bool    // Show running indicator (●) vs idle (○)
	ShowStatus    bool    // Whether to show status at all
	ScrollPercent float64 // Scroll position (0-100), negative to hide
	BottomHints   string  // Key hints for bottom border
}

// RenderPanelWithTitle renders content in a panel with title embedded in the border.
func RenderPanelWithTitle(content string, opts PanelTitleOptions, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}

	var border lipgloss.Border
	var borderColor lipgloss.Color
	var titleColor lipgloss.Color

	if focused {
		border = NeonBorder
		borderColor = ColorPrimary
		titleColor = ColorSecondary
	} else {
		border = GlowBorder
		borderColor = TextDim
		titleColor = TextDim
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(TextMuted)
	scrollStyle := lipgloss.NewStyle().Foreground(TextDim)
	statusStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	if !opts.StatusRunning {
		statusStyle = lipgloss.NewStyle().Foreground(TextDim)
	}

	innerWidth := width - 2

	topBorder := buildTopBorder(border, borderStyle, titleStyle, scrollStyle, statusStyle, opts, innerWidth)
	bottomBorder := buildBottomBorder(border, borderStyle, hintStyle, opts.BottomHints, innerWidth)

	contentHeight := max(height-2, 0)

	contentLines := strings.Split(content, "\n")
	renderedLines := make([]string, contentHeight)

	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		line = ansi.Truncate(line, innerWidth, "")
		if lineLen := ansi.StringWidth(line); lineLen < innerWidth {
			line += strings.Repeat(" ", innerWidth-lineLen)
		}
		renderedLines[i] = borderStyle.Render(border.Left) + line + borderStyle.Render(border.Right)
	}

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")
	result.WriteString(strings.Join(renderedLines, "\n"))
	result.WriteString("\n")
	result.WriteString(bottomBorder)

	return result.String()
}

// buildTopBorder creates the top border with title and optional scroll/status indicators.
func buildTopBorder(border lipgloss.Border, borderStyle, titleStyle, scrollStyle, statusStyle lipgloss.Style, opts PanelTitleOptions, innerWidth int) string {
	titleSegment := "[ " + titleStyle.Render(opts.Title)
	if opts.ShowStatus {
		titleSegment += " " + statusStyle.Render(FormatStatusIndicator(opts.StatusRunning))
	}
	titleSegment += " ]"

	var scrollSegment string
	if scrollText := FormatScrollIndicator(opts.ScrollPercent); scrollText != "" {
		scrollSegment = "[ " + scrollStyle.Render(scrollText) + " ]"
	}

	leftFiller := 2 // Small gap after corner
	maxTitle := innerWidth - leftFiller - ansi.StringWidth(scrollSegment)
	if ansi.StringWidth(titleSegment) > maxTitle {
		titleSegment = ansi.Truncate(titleSegment, max(maxTitle, 0), "…")
	}
	titleWidth := ansi.StringWidth(titleSegment)
	scrollWidth := ansi.StringWidth(scrollSegment)

	rightFiller := max(innerWidth-leftFiller-titleWidth-scrollWidth, 0)

	var result strings.Builder
	result.WriteString(borderStyle.Render(border.TopLeft))
	result.WriteString(borderStyle.Render(strings.Repeat(border.Top, leftFiller)))
	result.WriteString(titleSegment)
	result.WriteString(borderStyle.Render(strings.Repeat(border.Top, rightFiller)))
	result.WriteString(scrollSegment)
	result.WriteString(borderStyle.Render(border.TopRight))

	return result.String()
}

// buildBottomBorder creates the bottom border with optional key hints.
func buildBottomBorder(border lipgloss.Border, borderStyle, hintStyle lipgloss.Style, hints string, innerWidth int) string {
	if hints == "" {
		return borderStyle.Render(border.BottomLeft) +
			borderStyle.Render(strings.Repeat(border.Bottom, innerWidth)) +
			borderStyle.Render(border.BottomRight)
	}

	hintSegment := "[ " + hintStyle.Render(hints) + " ]"
	leftFiller := 2
	if ansi.StringWidth(hintSegment) > innerWidth-leftFiller {
		hintSegment = ansi.Truncate(hintSegment, max(innerWidth-leftFiller, 0), "…")
	}
	rightFiller := max(innerWidth-leftFiller-ansi.StringWidth(hintSegment), 0)

	var result strings.Builder
	result.WriteString(borderStyle.Render(border.BottomLeft))
	result.WriteString(borderStyle.Render(strings.Repeat(border.Bottom, leftFiller)))
	result.WriteString(hintSegment)
	result.WriteString(borderStyle.Render(strings.Repeat(border.Bottom, rightFiller)))
	result.WriteString(borderStyle.Render(border.BottomRight))

	return result.String()
}
