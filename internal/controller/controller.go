// Package controller owns the result set and switches it between the
// name and section orderings, rewiring every control after each render.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/collapse"
	"github.com/avitaltamir/manview/internal/logging"
	"github.com/avitaltamir/manview/internal/render"
	"github.com/avitaltamir/manview/internal/sorting"
)

var (
	// ErrMissingControl is returned by New when a required control is nil.
	ErrMissingControl = errors.New("missing control")
	// ErrStaleGroup is returned for a group reference from an earlier render.
	ErrStaleGroup = errors.New("stale group reference")
)

// Options configures a Controller.
type Options struct {
	Titles    apropos.Titles
	URIPrefix string
	Frames    int
	Logger    *slog.Logger
}

// Controller holds the canonical entry list and the current mode.
type Controller struct {
	entries    []apropos.Entry
	controls   Controls
	cmp        *sorting.Comparator
	opts       Options
	logger     *slog.Logger
	mode       sorting.Mode
	generation int
}

// New creates a controller over entries. The slice is sorted in place on
// every mode switch and is never copied. Nothing is rendered until the
// first SetMode.
func New(entries []apropos.Entry, controls Controls, cmp *sorting.Comparator, opts Options) (*Controller, error) {
	if err := controls.Validate(); err != nil {
		return nil, err
	}
	if cmp == nil {
		return nil, errors.New("controller: nil comparator")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	c := &Controller{
		entries:  entries,
		controls: controls,
		cmp:      cmp,
		opts:     opts,
		logger:   logger,
	}

	controls.ByName.bind(func() { c.SetMode(sorting.ByName) })
	controls.BySection.bind(func() { c.SetMode(sorting.BySection) })
	controls.ShowAll.Disabled = true
	controls.HideAll.Disabled = true

	return c, nil
}

// Validate returns ErrMissingControl naming every nil control.
func (c Controls) Validate() error {
	if missing := c.missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingControl, strings.Join(missing, ", "))
	}
	return nil
}

// Mode returns the current mode, ModeNone before the first render.
func (c *Controller) Mode() sorting.Mode {
	return c.mode
}

// Generation returns the number of renders performed so far.
func (c *Controller) Generation() int {
	return c.generation
}

// Entries returns the canonical entry slice in its current order.
func (c *Controller) Entries() []apropos.Entry {
	return c.entries
}

// Tree returns the current render.
func (c *Controller) Tree() *render.Tree {
	return c.controls.Results.Tree()
}

// Controls returns the controls the controller drives.
func (c *Controller) Controls() Controls {
	return c.controls
}

// SetModeToken switches mode by token. Unknown tokens are ignored.
func (c *Controller) SetModeToken(token string) bool {
	mode, ok := sorting.ParseMode(token)
	if !ok {
		return false
	}
	return c.SetMode(mode)
}

// SetMode re-sorts and re-renders the result set for mode. Switching to
// the current mode does nothing. It reports whether a render happened.
func (c *Controller) SetMode(mode sorting.Mode) bool {
	if mode == c.mode || mode == sorting.ModeNone {
		return false
	}

	c.cmp.Sort(c.entries, mode)

	c.generation++
	tree := render.Build(c.entries, mode, render.Options{
		Titles:    c.opts.Titles,
		URIPrefix: c.opts.URIPrefix,
		Frames:    c.opts.Frames,
	}, c.generation)

	toggles := make([]func(), len(tree.Groups))
	for i, g := range tree.Groups {
		ref := g.Ref
		toggles[i] = func() { c.apply(ref, collapse.Toggle) }
	}
	c.controls.Results.Replace(tree, toggles)

	c.controls.ByName.Active = mode == sorting.ByName
	c.controls.BySection.Active = mode == sorting.BySection
	c.bindBulk(mode, c.generation, len(tree.Groups))

	c.controls.Status.Set(render.Summary(tree.Count, tree.Sections))
	c.mode = mode

	c.logger.Debug("result set rendered",
		"mode", mode.String(),
		"generation", c.generation,
		"entries", tree.Count,
		"groups", len(tree.Groups),
	)
	return true
}

// bindBulk wires show-all and hide-all to the n groups of render gen.
func (c *Controller) bindBulk(mode sorting.Mode, gen, n int) {
	if mode != sorting.BySection {
		c.controls.ShowAll.Disabled = true
		c.controls.HideAll.Disabled = true
		c.controls.ShowAll.bind(func() {})
		c.controls.HideAll.bind(func() {})
		return
	}

	c.controls.ShowAll.Disabled = false
	c.controls.HideAll.Disabled = false
	c.controls.ShowAll.bind(func() { c.applyAll(gen, n, collapse.Show) })
	c.controls.HideAll.bind(func() { c.applyAll(gen, n, collapse.Hide) })
}

func (c *Controller) applyAll(gen, n int, action collapse.Action) {
	for i := 0; i < n; i++ {
		c.apply(render.GroupRef{Generation: gen, Index: i}, action)
	}
}

// apply is used by bound handlers, whose references are always current.
func (c *Controller) apply(ref render.GroupRef, action collapse.Action) {
	if _, err := c.Apply(ref, action); err != nil {
		c.logger.Warn("group action dropped", "error", err, "action", action.String())
	}
}

// Apply performs action on one group. A reference from an earlier render
// yields ErrStaleGroup and changes nothing. The bool reports whether the
// group changed state.
func (c *Controller) Apply(ref render.GroupRef, action collapse.Action) (bool, error) {
	g := c.Tree().Group(ref)
	if g == nil {
		return false, fmt.Errorf("%w: generation %d index %d (current generation %d)",
			ErrStaleGroup, ref.Generation, ref.Index, c.generation)
	}
	return g.Collapse.Apply(action, g.Table.Height()), nil
}

// ApplyToken is Apply with the action given as "show", "hide" or
// "toggle". Other tokens are a no-op.
func (c *Controller) ApplyToken(ref render.GroupRef, token string) (bool, error) {
	return c.Apply(ref, collapse.ParseAction(token))
}

// SetFrames changes the animation length for current and future groups.
func (c *Controller) SetFrames(frames int) {
	c.opts.Frames = frames
	tree := c.Tree()
	if tree == nil {
		return
	}
	for _, g := range tree.Groups {
		g.Collapse.SetFrames(frames)
	}
}

// Animating reports whether any group is mid-transition.
func (c *Controller) Animating() bool {
	tree := c.Tree()
	if tree == nil {
		return false
	}
	for _, g := range tree.Groups {
		if g.Collapse.Animating() {
			return true
		}
	}
	return false
}

// Step advances every running group animation by one frame and reports
// whether any is still running.
func (c *Controller) Step() bool {
	tree := c.Tree()
	if tree == nil {
		return false
	}
	running := false
	for _, g := range tree.Groups {
		if g.Collapse.Step() {
			running = true
		}
	}
	return running
}
