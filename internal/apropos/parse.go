package apropos

import (
	"strings"
)

// ParseOutput parses the output of "apropos --long".
//
// Each line has the form "page (section) - description". Several names may
// share one line ("a, b (1) - ..."), producing one entry per name. Lines
// that lack a section or a description are skipped.
func ParseOutput(out string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		entries = append(entries, parseLine(line)...)
	}
	return entries
}

func parseLine(line string) []Entry {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return nil
	}
	names := strings.TrimSpace(line[:open])
	if names == "" {
		return nil
	}

	rest := line[open+1:]
	closing := strings.IndexByte(rest, ')')
	if closing < 0 {
		return nil
	}
	section := strings.TrimSpace(rest[:closing])
	if section == "" {
		return nil
	}

	rest = rest[closing+1:]
	dash := strings.IndexByte(rest, '-')
	if dash < 0 {
		return nil
	}
	desc := strings.TrimSpace(rest[dash+1:])
	if desc == "" {
		return nil
	}
	desc = capitalize(desc)

	var entries []Entry
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Page: name, Section: section, Description: desc})
	}
	return entries
}

// capitalize upper-cases a leading ASCII lower-case letter.
func capitalize(s string) string {
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
