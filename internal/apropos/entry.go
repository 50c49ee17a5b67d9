package apropos

import "strings"

// Entry is a single apropos hit.
type Entry struct {
	Page        string
	Section     string
	Description string
}

// IsQualified reports whether the page name carries a namespace qualifier
// (for example "Tcl:Interp" style Perl or Tcl pages).
func (e Entry) IsQualified() bool {
	return strings.Contains(e.Page, ":")
}

// Label returns the page with its section, as shown in the flat listing.
func (e Entry) Label() string {
	return e.Page + "(" + e.Section + ")"
}

// Link returns the navigation target for the entry. The prefix is only
// applied to qualified page names; the section is always present.
func (e Entry) Link(prefix string) string {
	target := "man/" + e.Label()
	if e.IsQualified() {
		return prefix + target
	}
	return target
}

// DistinctSections returns the number of different sections in entries.
func DistinctSections(entries []Entry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Section] = struct{}{}
	}
	return len(seen)
}
