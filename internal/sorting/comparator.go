package sorting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/avitaltamir/manview/internal/apropos"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders entries using the collation rules of a locale.
// A Comparator is not safe for concurrent use.
type Comparator struct {
	tag     language.Tag
	text    *collate.Collator
	numeric *collate.Collator
}

// NewComparator builds a comparator for the given BCP 47 locale.
// Page names ignore case unless caseSensitive is set; sections are
// compared with numeric awareness so that "2" sorts before "10".
func NewComparator(locale string, caseSensitive bool) (*Comparator, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tag = parsed
	}

	var textOpts []collate.Option
	if !caseSensitive {
		textOpts = append(textOpts, collate.IgnoreCase)
	}

	return &Comparator{
		tag:     tag,
		text:    collate.New(tag, textOpts...),
		numeric: collate.New(tag, collate.Numeric),
	}, nil
}

// Locale returns the language tag the comparator collates for.
func (c *Comparator) Locale() language.Tag {
	return c.tag
}

// CompareByName orders by page, then by section.
func (c *Comparator) CompareByName(a, b apropos.Entry) int {
	if r := c.text.CompareString(a.Page, b.Page); r != 0 {
		return r
	}
	return c.compareSections(a.Section, b.Section)
}

// CompareBySection orders by section, then by page.
func (c *Comparator) CompareBySection(a, b apropos.Entry) int {
	if r := c.compareSections(a.Section, b.Section); r != 0 {
		return r
	}
	return c.text.CompareString(a.Page, b.Page)
}

// compareSections only returns 0 for identical strings. The collator
// equates spellings such as "1" and "01", which must still form separate
// runs when grouping.
func (c *Comparator) compareSections(a, b string) int {
	if r := c.numeric.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Func returns the comparison function for mode, or nil for ModeNone.
func (c *Comparator) Func(mode Mode) func(a, b apropos.Entry) int {
	switch mode {
	case ByName:
		return c.CompareByName
	case BySection:
		return c.CompareBySection
	default:
		return nil
	}
}

// Sort orders entries in place for mode. Equal entries keep their
// relative order.
func (c *Comparator) Sort(entries []apropos.Entry, mode Mode) {
	cmp := c.Func(mode)
	if cmp == nil {
		return
	}
	slices.SortStableFunc(entries, cmp)
}
