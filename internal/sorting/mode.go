package sorting

// Mode selects how the result set is ordered and grouped.
type Mode int

const (
	ModeNone Mode = iota
	ByName
	BySection
)

// String returns the token for the mode.
func (m Mode) String() string {
	switch m {
	case ByName:
		return "name"
	case BySection:
		return "section"
	default:
		return "none"
	}
}

// ParseMode maps "name" and "section" to a Mode. Any other token
// reports ok=false.
func ParseMode(token string) (Mode, bool) {
	switch token {
	case "name":
		return ByName, true
	case "section":
		return BySection, true
	default:
		return ModeNone, false
	}
}
