package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the application.
type KeyMap struct {
	// Global keys
	Quit      key.Binding
	Help      key.Binding
	FocusNext key.Binding
	FocusPrev key.Binding

	// Panels
	FocusResults key.Binding
	FocusManPage key.Binding
	ClosePage    key.Binding
	ShrinkLeft   key.Binding
	WidenLeft    key.Binding

	// Appearance
	CycleTheme key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "help"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),

		// Panels
		FocusResults: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "focus results"),
		),
		FocusManPage: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "focus page"),
		),
		ClosePage: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close page"),
		),
		ShrinkLeft: key.NewBinding(
			key.WithKeys("alt+["),
			key.WithHelp("alt+[", "shrink results"),
		),
		WidenLeft: key.NewBinding(
			key.WithKeys("alt+]"),
			key.WithHelp("alt+]", "widen results"),
		),

		CycleTheme: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "cycle theme"),
		),
	}
}

// ShortHelp returns the short help text for the key map.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.FocusNext}
}

// FullHelp returns the full help text for the key map.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.FocusResults, k.FocusManPage},
		{k.ClosePage, k.ShrinkLeft, k.WidenLeft},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
