// Package manpage shows a formatted manual page with collapsible
// sections and a section navigator.
package manpage

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/collapse"
	"github.com/avitaltamir/manview/internal/components"
	"github.com/avitaltamir/manview/internal/logging"
	"github.com/avitaltamir/manview/internal/man"
	"github.com/avitaltamir/manview/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Messages
type (
	// OpenMsg requests a manual page.
	OpenMsg struct {
		Entry apropos.Entry
	}

	// PageLoadedMsg carries the formatted page. Width is the line length
	// man formatted for; zero skips the width check.
	PageLoadedMsg struct {
		Entry apropos.Entry
		Width int
		Text  string
		Err   error
	}

	// reflowMsg fires once the panel width has settled.
	reflowMsg struct {
		width int
	}

	// resetMsg returns the navigator to its placeholder.
	resetMsg struct {
		token int
	}

	animateMsg struct{}
)

const (
	animationInterval = 30 * time.Millisecond
	reflowDelay       = 150 * time.Millisecond
	navigatorHeight   = 1
	minWrapWidth      = 40
)

// Options configures the man page panel.
type Options struct {
	Provider       man.Provider
	Frames         int
	SelectionReset time.Duration
	Timeout        time.Duration
	Logger         *slog.Logger
}

// section is one collapsible part of the page.
type section struct {
	title    string
	lines    []string
	state    collapse.State
	collapse *collapse.Machine
}

// Mark follows the collapse state for the header and toggle glyph.
func (s *section) Mark(state collapse.State) {
	s.state = state
}

// Model is the man page panel.
type Model struct {
	components.Base

	opts   Options
	logger *slog.Logger

	viewport viewport.Model
	ready    bool

	entry    apropos.Entry
	opened   bool
	// wrapWidth is the width of the latest man request.
	wrapWidth int
	doc      man.Document
	sections []*section
	// headerLines[i] is the content line of section i+1's header.
	headerLines []int

	nav       Navigator
	loading   bool
	err       error
	spinner   spinner.Model
	animating bool

	keys KeyMap
}

// New creates the man page panel.
func New(opts Options) Model {
	if opts.Frames < 1 {
		opts.Frames = collapse.DefaultFrames
	}
	if opts.SelectionReset <= 0 {
		opts.SelectionReset = 3 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: theme.SpinnerDots, FPS: time.Second / 10}
	s.Style = theme.SpinnerStyle

	return Model{
		Base:    components.NewBase(0, 0),
		opts:    opts,
		logger:  logger,
		spinner: s,
		keys:    DefaultKeyMap(),
	}
}

// Init initializes the panel.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenMsg:
		return m.open(msg.Entry)

	case PageLoadedMsg:
		return m.handleLoaded(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.MarkDirty()
		return m, cmd

	case reflowMsg:
		return m.handleReflow(msg)

	case resetMsg:
		if m.nav.Reset(msg.token) {
			m.MarkDirty()
		}
		return m, nil

	case animateMsg:
		return m.handleAnimate()

	case tea.KeyMsg:
		if !m.Focused() {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) open(entry apropos.Entry) (Model, tea.Cmd) {
	if m.opts.Provider == nil {
		return m, nil
	}
	m.entry = entry
	m.opened = true
	m.loading = true
	m.err = nil
	m.doc = man.Document{}
	m.sections = nil
	m.MarkDirty()

	w, _ := m.Size()
	m.wrapWidth = wrapWidth(w)
	return m, tea.Batch(m.spinner.Tick, m.fetch(entry, m.wrapWidth))
}

func (m Model) fetch(entry apropos.Entry, width int) tea.Cmd {
	provider := m.opts.Provider
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := provider.Page(ctx, entry.Page, entry.Section, width)
		return PageLoadedMsg{Entry: entry, Width: width, Text: text, Err: err}
	}
}

func wrapWidth(panelWidth int) int {
	return max(panelWidth-1, minWrapWidth)
}

// Reflow schedules a re-format of the open page when the panel width no
// longer matches the width it was formatted for. Resizes arriving within
// reflowDelay of each other cost a single man run.
func (m Model) Reflow() tea.Cmd {
	if !m.opened || m.opts.Provider == nil {
		return nil
	}
	w, _ := m.Size()
	width := wrapWidth(w)
	if w == 0 || width == m.wrapWidth {
		return nil
	}
	return tea.Tick(reflowDelay, func(time.Time) tea.Msg {
		return reflowMsg{width: width}
	})
}

func (m Model) handleReflow(msg reflowMsg) (Model, tea.Cmd) {
	w, _ := m.Size()
	if !m.opened || msg.width != wrapWidth(w) || msg.width == m.wrapWidth {
		return m, nil
	}
	m.wrapWidth = msg.width
	m.logger.Debug("reflowing man page", "page", m.entry.Label(), "width", msg.width)
	return m, m.fetch(m.entry, msg.width)
}

func (m Model) handleLoaded(msg PageLoadedMsg) (Model, tea.Cmd) {
	// A newer request replaced this one
	if msg.Entry != m.entry || (msg.Width > 0 && msg.Width != m.wrapWidth) {
		return m, nil
	}
	m.loading = false
	m.MarkDirty()

	if msg.Err != nil {
		m.err = msg.Err
		m.logger.Error("man page failed", "page", msg.Entry.Label(), "error", msg.Err)
		m.setContent(theme.ErrorStyle.Render("Error: " + msg.Err.Error()))
		return m, nil
	}

	doc := man.Parse(msg.Text)
	if m.sameOutline(doc) {
		m.reflowDocument(doc)
		return m, nil
	}
	m.SetDocument(doc)
	m.logger.Info("man page opened", "page", msg.Entry.Label(), "sections", len(m.sections))
	return m, nil
}

// sameOutline reports whether doc has the sections already shown, in the
// same order, as when the page comes back at a new width.
func (m Model) sameOutline(doc man.Document) bool {
	if len(m.sections) == 0 || len(m.sections) != len(doc.Sections) {
		return false
	}
	for i, sec := range m.sections {
		if doc.Find(sec.title) != i+1 {
			return false
		}
	}
	return true
}

// reflowDocument swaps in re-wrapped section text. Collapse states, the
// navigator and the scroll position are kept.
func (m *Model) reflowDocument(doc man.Document) {
	m.doc = doc
	m.err = nil
	for i, s := range doc.Sections {
		sec := m.sections[i]
		sec.lines = s.Lines
		if isExample(s.Title) {
			sec.lines = highlightShell(s.Lines)
		}
		sec.collapse.Resize(len(sec.lines))
	}
	offset := m.viewport.YOffset
	m.render()
	if m.ready {
		m.viewport.SetYOffset(offset)
	}
}

// SetDocument replaces the displayed page. Every section starts shown.
func (m *Model) SetDocument(doc man.Document) {
	m.doc = doc
	m.err = nil
	m.sections = nil

	titles := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sec := &section{title: s.Title, lines: s.Lines}
		if isExample(s.Title) {
			sec.lines = highlightShell(s.Lines)
		}
		sec.collapse = collapse.New(len(sec.lines), sec)
		sec.collapse.SetFrames(m.opts.Frames)
		m.sections = append(m.sections, sec)
		titles = append(titles, s.Title)
	}
	m.nav.SetTitles(titles)

	m.render()
	if m.ready {
		m.viewport.GotoTop()
	}
	m.MarkDirty()
}

func (m Model) handleAnimate() (Model, tea.Cmd) {
	running := false
	for _, s := range m.sections {
		if s.collapse.Step() {
			running = true
		}
	}
	m.render()
	if running {
		return m, animate()
	}
	m.animating = false
	return m, nil
}

func animate() tea.Cmd {
	return tea.Tick(animationInterval, func(time.Time) tea.Msg {
		return animateMsg{}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevSection):
		return m.Select(m.nav.Next(-1))

	case key.Matches(msg, m.keys.NextSection):
		return m.Select(m.nav.Next(1))

	case key.Matches(msg, m.keys.GoTo):
		return m.Select(int(msg.String()[0] - '0'))

	case key.Matches(msg, m.keys.Toggle):
		return m.toggle(m.sectionAt(m.viewport.YOffset))

	case key.Matches(msg, m.keys.ShowAll):
		return m.applyAll(collapse.Show)

	case key.Matches(msg, m.keys.HideAll):
		return m.applyAll(collapse.Hide)

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.MarkDirty()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.MarkDirty()
		return m, nil
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.MarkDirty()
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y >= navigatorHeight {
		line := m.viewport.YOffset + msg.Y - navigatorHeight
		for i, hl := range m.headerLines {
			if hl == line {
				return m.toggle(i + 1)
			}
		}
		return m, nil
	}

	// Always handle mouse wheel for scrolling, even when not focused
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.MarkDirty()
	return m, cmd
}

// Select jumps to section n: its header is scrolled into view and the
// section is shown. The navigator returns to its placeholder after the
// configured delay; a newer selection postpones that.
func (m Model) Select(n int) (Model, tea.Cmd) {
	token, ok := m.nav.Select(n)
	if !ok {
		return m, nil
	}

	sec := m.sections[n-1]
	started := sec.collapse.Apply(collapse.Show, len(sec.lines))
	m.render()
	m.viewport.SetYOffset(max(0, m.headerLines[n-1]-1))
	m.MarkDirty()

	reset := tea.Tick(m.opts.SelectionReset, func(time.Time) tea.Msg {
		return resetMsg{token: token}
	})
	if started {
		return m, tea.Batch(reset, m.startAnimation())
	}
	return m, reset
}

func (m Model) toggle(n int) (Model, tea.Cmd) {
	if n <= 0 || n > len(m.sections) {
		return m, nil
	}
	sec := m.sections[n-1]
	if !sec.collapse.Apply(collapse.Toggle, len(sec.lines)) {
		return m, nil
	}
	m.render()
	return m, m.startAnimation()
}

func (m Model) applyAll(action collapse.Action) (Model, tea.Cmd) {
	changed := false
	for _, sec := range m.sections {
		if sec.collapse.Apply(action, len(sec.lines)) {
			changed = true
		}
	}
	if !changed {
		return m, nil
	}
	m.render()
	return m, m.startAnimation()
}

func (m *Model) startAnimation() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return animate()
}

// sectionAt returns the section number containing content line, or 0
// for the prologue.
func (m Model) sectionAt(line int) int {
	n := 0
	for i, hl := range m.headerLines {
		if hl > line {
			break
		}
		n = i + 1
	}
	return n
}

// render lays the document out into the viewport.
func (m *Model) render() {
	m.MarkDirty()
	m.headerLines = nil
	if len(m.sections) == 0 && len(m.doc.Prologue) == 0 {
		m.setContent(theme.TextMutedStyle.Render("(empty page)"))
		return
	}

	var lines []string
	for _, l := range m.doc.Prologue {
		lines = append(lines, theme.TextBody.Render(l))
	}
	for _, sec := range m.sections {
		m.headerLines = append(m.headerLines, len(lines))
		icon := theme.ToggleStyle(sec.state).Render(theme.ToggleIcon(sec.state))
		lines = append(lines, icon+" "+theme.GroupHeaderStyle(sec.state).Render(sec.title))
		lines = append(lines, sec.lines[:min(sec.collapse.Extent(), len(sec.lines))]...)
	}
	m.setContent(strings.Join(lines, "\n"))
}

func (m *Model) setContent(content string) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(content)
}

// ViewCached returns the last rendered view until the panel changes.
func (m Model) ViewCached() string {
	return m.CachedView(m.View)
}

// View renders the panel content.
func (m Model) View() string {
	w, h := m.Size()
	if w == 0 || h == 0 {
		return ""
	}
	if m.loading {
		return m.spinner.View() + " " + theme.TextMutedStyle.Render("Formatting "+m.entry.Label()+"…")
	}
	if !m.opened {
		return lipgloss.NewStyle().
			Width(w).
			Height(h).
			Foreground(theme.TextMuted).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Select a page to read it...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderNavigator(w), m.viewport.View())
}

func (m Model) renderNavigator(width int) string {
	label := m.nav.Label()
	style := theme.ButtonIdle
	if m.nav.Selected() > 0 {
		style = theme.ButtonActive
	}
	bar := theme.TextMutedStyle.Render("Go to section ") + style.Render(label)
	return ansi.Truncate(bar, width, "…")
}

// Focus gives focus to this component.
func (m Model) Focus() Model {
	m.Base.Focus()
	return m
}

// Blur removes focus from this component.
func (m Model) Blur() Model {
	m.Base.Blur()
	return m
}

// SetSize updates the component's dimensions.
func (m Model) SetSize(width, height int) Model {
	m.Base.SetSize(width, height)

	vh := max(height-navigatorHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.viewport.MouseWheelEnabled = true
		m.viewport.MouseWheelDelta = 3
		m.ready = true
		if m.err == nil {
			m.render()
		}
	} else {
		m.viewport.Width = width
		m.viewport.Height = vh
	}
	return m
}

// SetFrames changes the section animation length.
func (m *Model) SetFrames(frames int) {
	m.opts.Frames = max(frames, 1)
	for _, sec := range m.sections {
		sec.collapse.SetFrames(m.opts.Frames)
	}
}

// Navigator returns the section selector.
func (m Model) Navigator() Navigator {
	return m.nav
}

// Entry returns the page being shown.
func (m Model) Entry() (apropos.Entry, bool) {
	return m.entry, m.opened
}

// Loading reports whether man is still running.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the last man error.
func (m Model) Err() error {
	return m.err
}

// Title is shown in the panel border.
func (m Model) Title() string {
	if !m.opened {
		return "man"
	}
	return "man " + m.entry.Label()
}

// Hints are the key hints for the bottom border.
func (m Model) Hints() string {
	return "[/]:section  space:toggle  +/-:all"
}

// ScrollPercent returns the current scroll position as a percentage (0-100).
func (m Model) ScrollPercent() float64 {
	if !m.ready || !m.opened || m.viewport.TotalLineCount() <= m.viewport.Height {
		return -1
	}
	return m.viewport.ScrollPercent() * 100
}

func isExample(title string) bool {
	switch strings.ToUpper(title) {
	case "EXAMPLE", "EXAMPLES":
		return true
	}
	return false
}

// highlightShell colors example code as shell. Lines are returned
// unchanged if highlighting fails.
func highlightShell(lines []string) []string {
	text := strings.Join(lines, "\n")

	lexer := lexers.Get("bash")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return lines
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return lines
	}

	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(out) != len(lines) {
		return lines
	}
	return out
}

var _ components.Panel = Model{}
