package components

// Panel is what the root model needs to frame a component: its content
// plus the decorations drawn into the border.
type Panel interface {
	// View renders the panel content, without borders
	View() string
	// ViewCached returns View, reusing the last render when nothing changed
	ViewCached() string
	// Focused returns whether this panel currently has focus
	Focused() bool
	// Title is shown in the top border
	Title() string
	// ScrollPercent is shown in the top border; negative hides it
	ScrollPercent() float64
	// Hints are the key hints shown in the bottom border when focused
	Hints() string
}

// Base provides common functionality for all components.
// Embed this in your component structs to get default implementations.
type Base struct {
	focused bool
	width   int
	height  int
	// cache is shared by value copies of the component, so a view
	// rendered from a copy stays valid for the model bubbletea holds.
	cache *viewCache
}

type viewCache struct {
	view  string
	dirty bool
}

// NewBase creates a new Base with the given dimensions.
func NewBase(width, height int) Base {
	return Base{
		width:  width,
		height: height,
		cache:  &viewCache{dirty: true},
	}
}

// Focus sets the focused state to true.
func (b *Base) Focus() {
	b.focused = true
	b.MarkDirty()
}

// Blur sets the focused state to false.
func (b *Base) Blur() {
	b.focused = false
	b.MarkDirty()
}

// Focused returns the current focus state.
func (b Base) Focused() bool {
	return b.focused
}

// SetSize updates the component's dimensions.
func (b *Base) SetSize(width, height int) {
	if b.width != width || b.height != height {
		b.MarkDirty()
	}
	b.width = width
	b.height = height
}

// Size returns the component's current dimensions.
func (b Base) Size() (width, height int) {
	return b.width, b.height
}

// MarkDirty flags the cached view as stale.
func (b *Base) MarkDirty() {
	if b.cache == nil {
		b.cache = &viewCache{}
	}
	b.cache.dirty = true
}

// IsDirty reports whether the view must be rebuilt.
func (b Base) IsDirty() bool {
	return b.cache == nil || b.cache.dirty
}

// CachedView returns the last view while the component is clean and
// otherwise renders a fresh one with render.
func (b Base) CachedView(render func() string) string {
	if !b.IsDirty() {
		return b.cache.view
	}
	view := render()
	if b.cache != nil {
		b.cache.view = view
		b.cache.dirty = false
	}
	return view
}
