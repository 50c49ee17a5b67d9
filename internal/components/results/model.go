package results

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/components"
	"github.com/avitaltamir/manview/internal/controller"
	"github.com/avitaltamir/manview/internal/logging"
	"github.com/avitaltamir/manview/internal/render"
	"github.com/avitaltamir/manview/internal/sorting"
	"github.com/avitaltamir/manview/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// Messages
type (
	// LoadedMsg is sent when the apropos search has finished.
	LoadedMsg struct {
		Keyword string
		Entries []apropos.Entry
		Err     error
	}

	// OpenPageMsg asks for a manual page to be shown.
	OpenPageMsg struct {
		Entry apropos.Entry
		Link  string
	}

	// CopiedMsg reports the outcome of copying a link.
	CopiedMsg struct {
		Link string
		Err  error
	}

	// animateMsg advances group transitions by one frame.
	animateMsg struct{}
)

// animationInterval is the delay between transition frames.
const animationInterval = 30 * time.Millisecond

// controlsHeight is the number of lines taken by the button bar.
const controlsHeight = 1

type lineKind int

const (
	lineHeader lineKind = iota
	lineHeading
	lineRow
)

// line is one visible line of the list.
type line struct {
	kind  lineKind
	group int // index into tree.Groups, -1 in the flat listing
	row   *render.Row
}

// Options configures the results panel.
type Options struct {
	Provider   apropos.Provider
	Comparator *sorting.Comparator
	Controls   controller.Controls
	Keyword    string
	Mode       sorting.Mode
	Titles     apropos.Titles
	URIPrefix  string
	Frames     int
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Model is the results panel.
type Model struct {
	components.Base

	opts     Options
	ctrl     *controller.Controller
	controls controller.Controls
	logger   *slog.Logger

	loading bool
	err     error
	spinner spinner.Model

	lines      []line
	generation int // render the lines were built from
	cursor     int
	offset     int
	labelWidth int
	animating  bool

	copyLink func(string) error
	keys     KeyMap
}

// New creates the results panel. Controls must be complete; see
// controller.Controls.Validate.
func New(opts Options) Model {
	if opts.Mode == sorting.ModeNone {
		opts.Mode = sorting.BySection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Titles == nil {
		opts.Titles = apropos.SectionTitles
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: theme.SpinnerDots, FPS: time.Second / 10}
	s.Style = theme.SpinnerStyle

	return Model{
		Base:       components.NewBase(0, 0),
		opts:       opts,
		controls:   opts.Controls,
		logger:     logger,
		loading:    opts.Provider != nil,
		spinner:    s,
		generation: -1,
		copyLink:   clipboard.WriteAll,
		keys:       DefaultKeyMap(),
	}
}

// Init starts the search.
func (m Model) Init() tea.Cmd {
	if m.opts.Provider == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.search())
}

func (m Model) search() tea.Cmd {
	provider := m.opts.Provider
	keyword := m.opts.Keyword
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := provider.Search(ctx, keyword)
		return LoadedMsg{Keyword: keyword, Entries: entries, Err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	// LoadedMsg should always be handled regardless of focus
	case LoadedMsg:
		return m.handleLoaded(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.MarkDirty()
		return m, cmd

	case animateMsg:
		return m.handleAnimate()

	case tea.KeyMsg:
		if !m.Focused() {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		// Always handle mouse - app.go handles focus management
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleLoaded(msg LoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	m.MarkDirty()

	if msg.Err != nil {
		m.err = msg.Err
		m.logger.Error("apropos search failed", "keyword", msg.Keyword, "error", msg.Err)
		return m, nil
	}

	ctrl, err := controller.New(msg.Entries, m.controls, m.opts.Comparator, controller.Options{
		Titles:    m.opts.Titles,
		URIPrefix: m.opts.URIPrefix,
		Frames:    m.opts.Frames,
		Logger:    m.logger,
	})
	if err != nil {
		m.err = err
		m.logger.Error("result controller unavailable", "error", err)
		return m, nil
	}
	m.ctrl = ctrl
	m.err = nil
	m.logger.Info("apropos search finished", "keyword", msg.Keyword, "entries", len(msg.Entries))

	ctrl.SetMode(m.opts.Mode)
	m.cursor = 0
	m.offset = 0
	m.refresh(line{}, false)
	return m, nil
}

func (m Model) handleAnimate() (Model, tea.Cmd) {
	if m.ctrl == nil {
		m.animating = false
		return m, nil
	}
	prev, ok := m.selected()
	running := m.ctrl.Step()
	m.refresh(prev, ok)
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
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight() / 2)

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight() / 2)

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.offset = 0
		m.MarkDirty()

	case key.Matches(msg, m.keys.End):
		if len(m.lines) > 0 {
			m.cursor = len(m.lines) - 1
			m.ensureVisible()
			m.MarkDirty()
		}

	case key.Matches(msg, m.keys.ByName):
		return m.click(m.controls.ByName)

	case key.Matches(msg, m.keys.BySection):
		return m.click(m.controls.BySection)

	case key.Matches(msg, m.keys.ShowAll):
		return m.click(m.controls.ShowAll)

	case key.Matches(msg, m.keys.HideAll):
		return m.click(m.controls.HideAll)

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleCurrent()

	case key.Matches(msg, m.keys.Open):
		return m.openCurrent()

	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrent()
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(3)
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return m, nil
	}

	// Coordinates are relative to the panel content area
	if msg.Y < controlsHeight {
		for _, span := range m.controlSpans() {
			if msg.X >= span.start && msg.X < span.end {
				return m.click(span.button)
			}
		}
		return m, nil
	}

	idx := m.offset + msg.Y - controlsHeight
	if idx < 0 || idx >= len(m.lines) {
		return m, nil
	}
	m.cursor = idx
	m.MarkDirty()
	switch m.lines[idx].kind {
	case lineHeader:
		return m.toggleCurrent()
	case lineRow:
		return m.openCurrent()
	}
	return m, nil
}

// click presses a control and re-renders whatever it changed.
func (m Model) click(b *controller.Button) (Model, tea.Cmd) {
	if m.ctrl == nil || b == nil {
		return m, nil
	}
	prev, ok := m.selected()
	if !b.Click() {
		return m, nil
	}
	return m, m.afterAction(prev, ok)
}

func (m Model) toggleCurrent() (Model, tea.Cmd) {
	if m.ctrl == nil || m.cursor < 0 || m.cursor >= len(m.lines) {
		return m, nil
	}
	l := m.lines[m.cursor]
	if l.group < 0 {
		return m, nil
	}
	prev, ok := m.selected()
	if !m.controls.Results.Toggle(l.group) {
		return m, nil
	}
	return m, m.afterAction(prev, ok)
}

func (m Model) openCurrent() (Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return m, nil
	}
	l := m.lines[m.cursor]
	switch l.kind {
	case lineHeader:
		return m.toggleCurrent()
	case lineRow:
		row := *l.row
		return m, func() tea.Msg {
			return OpenPageMsg{Entry: row.Entry, Link: row.Link}
		}
	}
	return m, nil
}

func (m Model) copyCurrent() (Model, tea.Cmd) {
	link := m.SelectedLink()
	if link == "" {
		return m, nil
	}
	copyLink := m.copyLink
	return m, func() tea.Msg {
		return CopiedMsg{Link: link, Err: copyLink(link)}
	}
}

// afterAction refreshes the list and starts the animation loop when a
// group transition is running.
func (m *Model) afterAction(prev line, ok bool) tea.Cmd {
	m.refresh(prev, ok)
	if m.ctrl.Animating() && !m.animating {
		m.animating = true
		return animate()
	}
	return nil
}

func (m Model) tree() *render.Tree {
	if m.ctrl == nil {
		return nil
	}
	return m.ctrl.Tree()
}

func (m Model) selected() (line, bool) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return line{}, false
	}
	return m.lines[m.cursor], true
}

// refresh rebuilds the visible lines and puts the cursor back on the
// previously selected entry or, if that disappeared, on its group header.
func (m *Model) refresh(prev line, ok bool) {
	prevGen := m.generation
	m.rebuildLines()
	if ok {
		m.restoreCursor(prev, prevGen)
	}
	m.clampCursor()
	m.ensureVisible()
	m.MarkDirty()
}

func (m *Model) rebuildLines() {
	m.lines = nil
	m.labelWidth = 0
	m.generation = -1

	tree := m.tree()
	if tree == nil {
		return
	}
	m.generation = tree.Generation
	if tree.Empty() {
		return
	}

	if tree.Table != nil {
		m.lines = append(m.lines, line{kind: lineHeading, group: -1})
		for i := range tree.Table.Rows {
			row := &tree.Table.Rows[i]
			m.lines = append(m.lines, line{kind: lineRow, group: -1, row: row})
			m.labelWidth = max(m.labelWidth, ansi.StringWidth(row.Label))
		}
		return
	}

	for gi, g := range tree.Groups {
		m.lines = append(m.lines, line{kind: lineHeader, group: gi})
		for i := range g.Table.Rows {
			m.labelWidth = max(m.labelWidth, ansi.StringWidth(g.Table.Rows[i].Label))
		}

		// The body shows the first Extent lines of heading + rows.
		extent := g.Collapse.Extent()
		if extent <= 0 {
			continue
		}
		m.lines = append(m.lines, line{kind: lineHeading, group: gi})
		for i := 0; i < extent-1 && i < len(g.Table.Rows); i++ {
			m.lines = append(m.lines, line{kind: lineRow, group: gi, row: &g.Table.Rows[i]})
		}
	}
}

func (m *Model) restoreCursor(prev line, prevGen int) {
	sameRender := prevGen == m.generation

	if prev.kind == lineRow && prev.row != nil {
		for i, l := range m.lines {
			if l.kind == lineRow && l.row.Entry == prev.row.Entry {
				m.cursor = i
				return
			}
		}
	}
	if sameRender && prev.group >= 0 {
		for i, l := range m.lines {
			if l.kind == lineHeader && l.group == prev.group {
				m.cursor = i
				return
			}
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.lines) > 0 && m.lines[m.cursor].kind == lineHeading && m.cursor+1 < len(m.lines) {
		m.cursor++
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.lines) == 0 || delta == 0 {
		return
	}
	dir := 1
	if delta < 0 {
		dir = -1
	}
	target := min(max(m.cursor+delta, 0), len(m.lines)-1)

	// Table headings are not selectable
	for target >= 0 && target < len(m.lines) && m.lines[target].kind == lineHeading {
		target += dir
	}
	if target < 0 || target >= len(m.lines) {
		return
	}
	m.cursor = target
	m.ensureVisible()
	m.MarkDirty()
}

func (m Model) listHeight() int {
	_, h := m.Size()
	return max(h-controlsHeight, 0)
}

func (m *Model) ensureVisible() {
	viewportHeight := m.listHeight()
	if viewportHeight <= 0 {
		return
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewportHeight {
		m.offset = m.cursor - viewportHeight + 1
	}
	// Keep a heading above the first row in view
	if m.offset > 0 && m.offset == m.cursor && m.lines[m.offset-1].kind == lineHeading {
		m.offset--
	}
	if maxOffset := len(m.lines) - viewportHeight; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
}

type controlSpan struct {
	start, end int
	button     *controller.Button
}

const controlSeparator = "  │  "

// controlSpans returns the horizontal extent of every button in the bar.
func (m Model) controlSpans() []controlSpan {
	buttons := []*controller.Button{
		m.controls.ByName, m.controls.BySection,
		m.controls.ShowAll, m.controls.HideAll,
	}
	var spans []controlSpan
	x := 0
	for i, b := range buttons {
		if b == nil {
			continue
		}
		switch i {
		case 1, 3:
			x++ // single space between paired buttons
		case 2:
			x += ansi.StringWidth(controlSeparator)
		}
		w := ansi.StringWidth(b.Label) + 2 // button padding
		spans = append(spans, controlSpan{start: x, end: x + w, button: b})
		x += w
	}
	return spans
}

// ViewCached returns the last rendered view until the panel changes.
func (m Model) ViewCached() string {
	return m.CachedView(m.View)
}

// View renders the results panel content.
func (m Model) View() string {
	w, h := m.Size()
	if w == 0 || h == 0 {
		return ""
	}

	if m.loading {
		return m.spinner.View() + " " + theme.TextMutedStyle.Render("Searching for "+quote(m.opts.Keyword)+"…")
	}
	if m.err != nil {
		return theme.ErrorStyle.Render(ansi.Truncate("Search failed: "+m.err.Error(), w, "…"))
	}

	lines := []string{m.renderControls()}
	if m.tree().Empty() {
		lines = append(lines, theme.TextMutedStyle.Render("No manual pages match "+quote(m.opts.Keyword)+"."))
		return strings.Join(lines, "\n")
	}

	for i := m.offset; i < len(m.lines) && len(lines) < h; i++ {
		lines = append(lines, m.renderLine(m.lines[i], i == m.cursor, w))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderControls() string {
	render := func(b *controller.Button) string {
		return theme.ButtonStyle(b.Active, b.Disabled).Render(b.Label)
	}
	sep := theme.TextDimStyle.Render(controlSeparator)
	return render(m.controls.ByName) + " " + render(m.controls.BySection) +
		sep + render(m.controls.ShowAll) + " " + render(m.controls.HideAll)
}

func (m Model) renderLine(l line, selected bool, width int) string {
	tree := m.tree()
	indent := ""
	if tree.Mode == sorting.BySection {
		indent = "  "
	}
	labelWidth := min(m.labelWidth, max(width/3, 8))

	switch l.kind {
	case lineHeader:
		g := tree.Groups[l.group]
		icon := theme.ToggleStyle(g.Toggle.State).Render(theme.ToggleIcon(g.Toggle.State))
		text := g.Title + " (" + itoa(len(g.Table.Rows)) + ")"
		text = ansi.Truncate(text, max(width-2, 0), "…")
		style := theme.GroupHeaderStyle(g.Header.State)
		if selected {
			style = theme.RowSelected
		}
		return icon + " " + style.Width(max(width-2, 0)).Render(text)

	case lineHeading:
		return indent + theme.TableHeading.Render(pad(render.HeadingPage, labelWidth)) +
			"  " + theme.TableHeading.Render(render.HeadingDescription)

	case lineRow:
		label := pad(l.row.Label, labelWidth)
		descWidth := max(width-ansi.StringWidth(indent)-labelWidth-2, 0)
		desc := ansi.Truncate(l.row.Description, descWidth, "…")
		if selected {
			return theme.RowSelected.Width(width).Render(indent + label + "  " + desc)
		}
		return indent + theme.RowLabel.Render(label) + "  " + theme.RowDescription.Render(desc)
	}
	return ""
}

// pad truncates or pads s to exactly width cells.
func pad(s string, width int) string {
	if ansi.StringWidth(s) > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-ansi.StringWidth(s))
}

func quote(s string) string {
	if s == "" {
		return "everything"
	}
	return "\"" + s + "\""
}

// itoa converts an int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var result []byte
	for n > 0 {
		result = append([]byte{byte('0' + n%10)}, result...)
		n /= 10
	}
	return string(result)
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
	m.ensureVisible()
	return m
}

// SetFrames changes the group animation length.
func (m *Model) SetFrames(frames int) {
	m.opts.Frames = frames
	if m.ctrl != nil {
		m.ctrl.SetFrames(frames)
	}
}

// Title is shown in the panel border.
func (m Model) Title() string {
	if m.opts.Keyword == "" {
		return "apropos"
	}
	return "apropos " + m.opts.Keyword
}

// Hints are the key hints for the bottom border.
func (m Model) Hints() string {
	return "n/s:sort  space:toggle  +/-:all  enter:open  y:copy"
}

// ScrollPercent returns the current scroll position as a percentage (0-100).
func (m Model) ScrollPercent() float64 {
	viewportHeight := m.listHeight()
	if len(m.lines) == 0 || viewportHeight <= 0 {
		return -1
	}
	maxOffset := len(m.lines) - viewportHeight
	if maxOffset <= 0 {
		return -1
	}
	return float64(m.offset) / float64(maxOffset) * 100
}

// Summary returns the status text, e.g. "12 pages in 3 sections".
func (m Model) Summary() string {
	if m.controls.Status == nil {
		return ""
	}
	return m.controls.Status.Text
}

// Mode returns the current grouping mode.
func (m Model) Mode() sorting.Mode {
	if m.ctrl == nil {
		return sorting.ModeNone
	}
	return m.ctrl.Mode()
}

// Loading reports whether the search is still running.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the search error, if any.
func (m Model) Err() error {
	return m.err
}

// Controller returns the sort-mode controller, nil until results load.
func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

// SelectedEntry returns the entry under the cursor.
func (m Model) SelectedEntry() (apropos.Entry, bool) {
	l, ok := m.selected()
	if !ok || l.kind != lineRow {
		return apropos.Entry{}, false
	}
	return l.row.Entry, true
}

// SelectedLink returns the link of the entry under the cursor.
func (m Model) SelectedLink() string {
	l, ok := m.selected()
	if !ok || l.kind != lineRow {
		return ""
	}
	return l.row.Link
}

// Ensure Model frames correctly in the root view.
var _ components.Panel = Model{}
