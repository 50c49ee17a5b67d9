package controller

import "github.com/avitaltamir/manview/internal/render"

// Button is a clickable control. Its handler is rebound on every render.
type Button struct {
	Label    string
	Active   bool
	Disabled bool

	onClick func()
}

// NewButton creates an enabled button with no handler.
func NewButton(label string) *Button {
	return &Button{Label: label}
}

// Click invokes the bound handler. It reports whether anything ran.
func (b *Button) Click() bool {
	if b.Disabled || b.onClick == nil {
		return false
	}
	b.onClick()
	return true
}

func (b *Button) bind(fn func()) {
	b.onClick = fn
}

// Container holds the rendered tree and the per-group toggle handlers.
type Container struct {
	tree    *render.Tree
	toggles []func()
}

// NewContainer creates an empty results container.
func NewContainer() *Container {
	return &Container{}
}

// Tree returns the current tree, or nil before the first render.
func (c *Container) Tree() *render.Tree {
	return c.tree
}

// Replace discards the previous tree together with its handlers.
func (c *Container) Replace(tree *render.Tree, toggles []func()) {
	c.tree = tree
	c.toggles = toggles
}

// Toggle clicks the toggle of the group at index. It reports whether
// such a group exists.
func (c *Container) Toggle(index int) bool {
	if index < 0 || index >= len(c.toggles) || c.toggles[index] == nil {
		return false
	}
	c.toggles[index]()
	return true
}

// StatusText is the summary line.
type StatusText struct {
	Text string
}

// Set replaces the text.
func (s *StatusText) Set(text string) {
	s.Text = text
}

// Controls are the UI elements the controller drives.
type Controls struct {
	ByName    *Button
	BySection *Button
	ShowAll   *Button
	HideAll   *Button
	Results   *Container
	Status    *StatusText
}

// DefaultControls creates a complete set of controls.
func DefaultControls() Controls {
	return Controls{
		ByName:    NewButton("By name"),
		BySection: NewButton("By section"),
		ShowAll:   NewButton("Show all"),
		HideAll:   NewButton("Hide all"),
		Results:   NewContainer(),
		Status:    &StatusText{},
	}
}

func (c Controls) missing() []string {
	var names []string
	if c.ByName == nil {
		names = append(names, "by-name button")
	}
	if c.BySection == nil {
		names = append(names, "by-section button")
	}
	if c.ShowAll == nil {
		names = append(names, "show-all button")
	}
	if c.HideAll == nil {
		names = append(names, "hide-all button")
	}
	if c.Results == nil {
		names = append(names, "results container")
	}
	if c.Status == nil {
		names = append(names, "status text")
	}
	return names
}
