// Package man fetches formatted manual pages and splits them into their
// titled sections.
package man

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Section is one titled part of a manual page, such as NAME or SYNOPSIS.
type Section struct {
	Title string
	Lines []string
}

// Document is a parsed manual page.
type Document struct {
	// Title is the running header, e.g. "LS(1) User Commands LS(1)".
	Title string
	// Prologue holds indented text that appears before the first section.
	Prologue []string
	Sections []Section
}

// Parse splits formatted man output into sections. The first and last
// non-blank lines are the running header and footer. Every other
// non-indented line starts a new section.
func Parse(text string) Document {
	lines := strings.Split(Clean(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}

	first, last := -1, -1
	for i, line := range lines {
		if line == "" {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}

	var doc Document
	if first < 0 {
		return doc
	}
	doc.Title = strings.Join(strings.Fields(lines[first]), " ")
	if first == last {
		return doc
	}

	var current *Section
	for _, line := range lines[first+1 : last] {
		if line != "" && !isIndented(line) {
			doc.Sections = append(doc.Sections, Section{Title: strings.TrimSpace(line)})
			current = &doc.Sections[len(doc.Sections)-1]
			continue
		}
		if current == nil {
			if line != "" || len(doc.Prologue) > 0 {
				doc.Prologue = append(doc.Prologue, line)
			}
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	doc.Prologue = trimBlank(doc.Prologue)
	for i := range doc.Sections {
		doc.Sections[i].Lines = trimBlank(doc.Sections[i].Lines)
	}
	return doc
}

// Find returns the 1-based number of the first section titled title,
// ignoring case, or 0.
func (d Document) Find(title string) int {
	for i, s := range d.Sections {
		if strings.EqualFold(s.Title, title) {
			return i + 1
		}
	}
	return 0
}

// Clean removes backspace overstrikes and escape sequences from
// formatted man output.
func Clean(text string) string {
	if strings.IndexByte(text, '\b') >= 0 {
		out := make([]rune, 0, len(text))
		for _, r := range text {
			if r == '\b' {
				if len(out) > 0 {
					out = out[:len(out)-1]
				}
				continue
			}
			out = append(out, r)
		}
		text = string(out)
	}
	return ansi.Strip(text)
}

func isIndented(line string) bool {
	return line[0] == ' ' || line[0] == '\t'
}

// trimBlank drops leading and trailing blank lines.
func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
