// Package render builds the visual tree of the result set: a flat table
// in name order, or one collapsible group per section.
package render

import (
	"fmt"

	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/collapse"
	"github.com/avitaltamir/manview/internal/sorting"
)

// Table column headings.
const (
	HeadingPage        = "Page"
	HeadingDescription = "Description"
)

// titleSeparator sits between "Section N" and the section name:
// an em dash padded with en spaces.
const titleSeparator = "\u2002\u2014\u2002"

// ElementKind identifies the presentational part of a group.
type ElementKind int

const (
	KindHeader ElementKind = iota
	KindToggle
	KindBody
)

// Element is a styled part of a group. It carries the state the group's
// collapse machine last marked it with.
type Element struct {
	Kind  ElementKind
	State collapse.State
}

// Mark implements collapse.Marker.
func (e *Element) Mark(s collapse.State) {
	e.State = s
}

// Row is one result line.
type Row struct {
	Label       string
	Link        string
	Description string
	Entry       apropos.Entry
}

// Table is a two-column listing.
type Table struct {
	Headers [2]string
	Rows    []Row
}

// Height is the number of lines the table occupies, heading included.
func (t Table) Height() int {
	return len(t.Rows) + 1
}

// GroupRef addresses a group of one specific render.
type GroupRef struct {
	Generation int
	Index      int
}

// Group is the rendered run of entries sharing a section.
type Group struct {
	Ref      GroupRef
	Section  string
	Title    string
	Header   *Element
	Toggle   *Element
	Body     *Element
	Collapse *collapse.Machine
	Table    Table
}

// Index returns the position of the group in render order.
func (g *Group) Index() int {
	return g.Ref.Index
}

// Tree is the output of one render pass.
type Tree struct {
	Mode       sorting.Mode
	Generation int

	// Table holds the flat listing in ByName mode.
	Table *Table
	// Groups holds the section groups in BySection mode.
	Groups []*Group

	Count    int
	Sections int
}

// Empty reports whether the tree has no entries.
func (t *Tree) Empty() bool {
	return t == nil || t.Count == 0
}

// Group returns the group addressed by ref, or nil when ref belongs to
// another render or is out of range.
func (t *Tree) Group(ref GroupRef) *Group {
	if t == nil || ref.Generation != t.Generation {
		return nil
	}
	if ref.Index < 0 || ref.Index >= len(t.Groups) {
		return nil
	}
	return t.Groups[ref.Index]
}

// Options configures a render pass.
type Options struct {
	// Titles maps lower-cased sections to display names.
	Titles apropos.Titles
	// URIPrefix is prepended to links of qualified page names.
	URIPrefix string
	// Frames is the animation length for group transitions.
	Frames int
}

// Build renders entries, which must already be ordered for mode, into a
// fresh tree.
func Build(entries []apropos.Entry, mode sorting.Mode, opts Options, generation int) *Tree {
	tree := &Tree{
		Mode:       mode,
		Generation: generation,
		Count:      len(entries),
		Sections:   apropos.DistinctSections(entries),
	}
	if len(entries) == 0 {
		return tree
	}

	switch mode {
	case sorting.ByName:
		table := newTable()
		for _, e := range entries {
			table.Rows = append(table.Rows, Row{
				Label:       e.Label(),
				Link:        e.Link(opts.URIPrefix),
				Description: e.Description,
				Entry:       e,
			})
		}
		tree.Table = &table

	case sorting.BySection:
		var current *Group
		for _, e := range entries {
			if current == nil || current.Section != e.Section {
				current = &Group{
					Ref:     GroupRef{Generation: generation, Index: len(tree.Groups)},
					Section: e.Section,
					Title:   Title(e.Section, opts.Titles),
					Header:  &Element{Kind: KindHeader},
					Toggle:  &Element{Kind: KindToggle},
					Body:    &Element{Kind: KindBody},
					Table:   newTable(),
				}
				tree.Groups = append(tree.Groups, current)
			}
			current.Table.Rows = append(current.Table.Rows, Row{
				Label:       e.Page,
				Link:        e.Link(opts.URIPrefix),
				Description: e.Description,
				Entry:       e,
			})
		}
		for _, g := range tree.Groups {
			g.Collapse = collapse.New(g.Table.Height(), g.Header, g.Toggle, g.Body)
			if opts.Frames > 0 {
				g.Collapse.SetFrames(opts.Frames)
			}
		}
	}

	return tree
}

func newTable() Table {
	return Table{Headers: [2]string{HeadingPage, HeadingDescription}}
}

// Title returns the heading of a section group.
func Title(section string, titles apropos.Titles) string {
	title := "Section " + section
	if name := titles.Lookup(section); name != "" {
		title += titleSeparator + name
	}
	return title
}

// Summary describes the size of a result set.
func Summary(count, sections int) string {
	if count == 1 {
		return "1 page"
	}
	noun := "sections"
	if sections == 1 {
		noun = "section"
	}
	return fmt.Sprintf("%d pages in %d %s", count, sections, noun)
}
