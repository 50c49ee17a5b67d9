// Package collapse implements the expand/collapse state of a single
// collapsible region, including an animated height transition.
package collapse

// State is the visibility of a region.
type State int

const (
	Shown State = iota
	Hidden
)

// String returns "shown" or "hidden".
func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "shown"
}

// Action is a requested transition.
type Action int

const (
	ActionNone Action = iota
	Show
	Hide
	Toggle
)

// ParseAction maps "show", "hide" and "toggle" to an Action.
// Unknown tokens map to ActionNone, which Apply ignores.
func ParseAction(token string) Action {
	switch token {
	case "show":
		return Show
	case "hide":
		return Hide
	case "toggle":
		return Toggle
	default:
		return ActionNone
	}
}

// String returns the token for the action.
func (a Action) String() string {
	switch a {
	case Show:
		return "show"
	case Hide:
		return "hide"
	case Toggle:
		return "toggle"
	default:
		return "none"
	}
}

// Marker is a presentational element that reflects the region state,
// such as the header bar or the toggle button of a group.
type Marker interface {
	Mark(State)
}

// DefaultFrames is the number of animation frames per transition.
const DefaultFrames = 6

// Machine holds the state of one collapsible region. The state lives here;
// attached markers only mirror it.
type Machine struct {
	state   State
	extent  int // rows currently visible
	target  int // rows the animation is heading to
	stride  int // rows moved per frame
	frames  int
	markers []Marker
}

// New creates a machine in the Shown state, fully extended to natural rows.
func New(natural int, markers ...Marker) *Machine {
	if natural < 0 {
		natural = 0
	}
	m := &Machine{
		state:   Shown,
		extent:  natural,
		target:  natural,
		frames:  DefaultFrames,
		markers: markers,
	}
	m.mark()
	return m
}

// SetFrames sets how many frames a transition takes. Values below one
// make transitions instant.
func (m *Machine) SetFrames(frames int) {
	if frames < 1 {
		frames = 1
	}
	m.frames = frames
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Shown reports whether the region is shown.
func (m *Machine) Shown() bool {
	return m.state == Shown
}

// Apply performs action. natural is the region's full height, measured
// now. It returns false when the action leaves the state unchanged, in
// which case nothing is animated or marked.
func (m *Machine) Apply(action Action, natural int) bool {
	var next State
	switch action {
	case Show:
		next = Shown
	case Hide:
		next = Hidden
	case Toggle:
		next = Shown
		if m.state == Shown {
			next = Hidden
		}
	default:
		return false
	}

	if next == m.state {
		return false
	}

	if natural < 0 {
		natural = 0
	}
	if next == Shown {
		m.target = natural
	} else {
		m.target = 0
	}
	m.stride = (abs(m.target-m.extent) + m.frames - 1) / m.frames
	if m.stride < 1 {
		m.stride = 1
	}
	m.state = next
	m.mark()
	return true
}

// Step advances the animation by one frame and reports whether more
// frames remain.
func (m *Machine) Step() bool {
	delta := m.target - m.extent
	if delta == 0 {
		return false
	}

	stride := max(m.stride, 1)
	if delta > 0 {
		m.extent = min(m.extent+stride, m.target)
	} else {
		m.extent = max(m.extent-stride, m.target)
	}
	return m.extent != m.target
}

// Finish jumps to the end of any running animation.
func (m *Machine) Finish() {
	m.extent = m.target
}

// Animating reports whether a transition is in progress.
func (m *Machine) Animating() bool {
	return m.extent != m.target
}

// Extent returns how many rows of the region are currently visible.
func (m *Machine) Extent() int {
	return m.extent
}

// Resize updates the natural height of a shown region, for example after
// the content was re-rendered at a different width.
func (m *Machine) Resize(natural int) {
	if m.state != Shown || natural < 0 {
		return
	}
	m.target = natural
	m.extent = natural
}

func (m *Machine) mark() {
	for _, marker := range m.markers {
		marker.Mark(m.state)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
