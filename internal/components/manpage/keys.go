package manpage

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the man page panel.
type KeyMap struct {
	PrevSection key.Binding
	NextSection key.Binding
	GoTo        key.Binding
	Toggle      key.Binding
	ShowAll     key.Binding
	HideAll     key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevSection: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous section"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next section"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "go to section"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle section"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "show all"),
		),
		HideAll: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "hide all"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// ShortHelp returns the short help text for the key map.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevSection, k.NextSection, k.Toggle}
}

// FullHelp returns the full help text for the key map.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevSection, k.NextSection, k.GoTo},
		{k.Toggle, k.ShowAll, k.HideAll},
		{k.Top, k.Bottom},
	}
}
