package manpage

// Placeholder is the navigator label when no section is selected.
const Placeholder = "-----"

// Navigator is the "Go to section" selector. Sections are numbered from 1;
// 0 means nothing is selected.
type Navigator struct {
	titles   []string
	selected int
	token    int
}

// SetTitles replaces the section list and clears the selection. Any
// pending reset is invalidated.
func (n *Navigator) SetTitles(titles []string) {
	n.titles = titles
	n.selected = 0
	n.token++
}

// Len returns the number of sections.
func (n Navigator) Len() int {
	return len(n.titles)
}

// Selected returns the selected section number, or 0.
func (n Navigator) Selected() int {
	return n.selected
}

// Label is the text shown in the selector.
func (n Navigator) Label() string {
	if n.selected == 0 {
		return Placeholder
	}
	return n.titles[n.selected-1]
}

// Select picks section i and returns the token the reset must carry.
// Numbers outside 1..Len are ignored.
func (n *Navigator) Select(i int) (int, bool) {
	if i <= 0 || i > len(n.titles) {
		return 0, false
	}
	n.selected = i
	n.token++
	return n.token, true
}

// Next returns the section delta steps away from the current selection,
// wrapping around. It returns 0 when there are no sections.
func (n Navigator) Next(delta int) int {
	count := len(n.titles)
	if count == 0 {
		return 0
	}
	current := n.selected
	if current == 0 && delta < 0 {
		current = 1
	}
	next := (current - 1 + delta) % count
	if next < 0 {
		next += count
	}
	return next + 1
}

// Reset clears the selection if token belongs to the latest Select.
func (n *Navigator) Reset(token int) bool {
	if token != n.token || n.selected == 0 {
		return false
	}
	n.selected = 0
	return true
}
