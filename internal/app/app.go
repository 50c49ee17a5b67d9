package app

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/components"
	"github.com/avitaltamir/manview/internal/components/manpage"
	"github.com/avitaltamir/manview/internal/components/results"
	"github.com/avitaltamir/manview/internal/config"
	"github.com/avitaltamir/manview/internal/controller"
	"github.com/avitaltamir/manview/internal/layout"
	"github.com/avitaltamir/manview/internal/logging"
	"github.com/avitaltamir/manview/internal/man"
	"github.com/avitaltamir/manview/internal/sorting"
	"github.com/avitaltamir/manview/internal/state"
	"github.com/avitaltamir/manview/internal/theme"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

// Version is the application version, set at build time via ldflags
var Version = "dev"

const (
	quitDoubleTap    = 400 * time.Millisecond
	configDebounce   = 200 * time.Millisecond
	statusMsgTimeout = 4 * time.Second
)

// clearStatusMsg expires a transient status message.
type clearStatusMsg struct {
	seq int
}

// Options wires the collaborators of the root model.
type Options struct {
	Config     *config.Config
	Keyword    string
	Mode       sorting.Mode
	Apropos    apropos.Provider
	Man        man.Provider
	Comparator *sorting.Comparator
	Controls   controller.Controls
	Logger     *slog.Logger
	// StatePath is where the theme and panel width are remembered;
	// empty disables persistence.
	StatePath string
}

// Model is the root application model.
type Model struct {
	// Child components
	results results.Model
	manpage manpage.Model

	// Focus state
	focus         PanelID
	showHelp      bool
	showQuit      bool      // Quit confirmation dialog
	lastQuitPress time.Time // For double-tap ctrl+q detection

	// Layout
	layout           layout.Layout
	leftPanelPercent int
	rightVisible     bool
	width            int
	height           int
	ready            bool

	// Transient status line message
	status    string
	statusErr bool
	statusSeq int

	statePath string

	// Config watcher
	cfg              *config.Config
	watcher          *fsnotify.Watcher
	configDebouncing bool

	keys   KeyMap
	help   help.Model
	logger *slog.Logger
}

// New creates the root model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	mode := opts.Mode
	if mode == sorting.ModeNone {
		mode = cfg.SortMode()
	}

	saved := state.State{}
	if opts.StatePath != "" {
		saved = state.Load(opts.StatePath)
	}
	if saved.Theme == "" || !theme.SetThemeByName(saved.Theme) {
		theme.SetThemeByName(cfg.Theme)
	}
	leftPercent := layout.DefaultLeftPanelPercent
	if saved.LeftPanelPercent > 0 {
		leftPercent = saved.LeftPanelPercent
	}

	r := results.New(results.Options{
		Provider:   opts.Apropos,
		Comparator: opts.Comparator,
		Controls:   opts.Controls,
		Keyword:    opts.Keyword,
		Mode:       mode,
		Titles:     apropos.SectionTitles,
		URIPrefix:  cfg.URIPrefix,
		Frames:     cfg.AnimationFrames,
		Timeout:    cfg.CommandTimeout,
		Logger:     logger,
	})
	p := manpage.New(manpage.Options{
		Provider:       opts.Man,
		Frames:         cfg.AnimationFrames,
		SelectionReset: cfg.SelectionReset,
		Timeout:        cfg.CommandTimeout,
		Logger:         logger,
	})

	m := Model{
		results:          r.Focus(),
		manpage:          p,
		focus:            PanelResults,
		leftPanelPercent: leftPercent,
		cfg:              cfg,
		statePath:        opts.StatePath,
		keys:             DefaultKeyMap(),
		help:             help.New(),
		logger:           logger,
	}

	if cfg.Path != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("config watch unavailable", "error", err)
		} else if err := watcher.Add(filepath.Dir(cfg.Path)); err != nil {
			logger.Warn("config watch unavailable", "path", cfg.Path, "error", err)
			_ = watcher.Close()
		} else {
			m.watcher = watcher
		}
	}

	return m
}

// Init initializes the application.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.results.Init(), m.manpage.Init()}
	if m.watcher != nil {
		cmds = append(cmds, m.watchConfigCmd())
	}
	return tea.Batch(cmds...)
}

// Close releases the config watcher.
func (m Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}

// watchConfigCmd waits for the next change to the config file.
func (m Model) watchConfigCmd() tea.Cmd {
	watcher := m.watcher
	path := filepath.Clean(m.cfg.Path)
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				return ConfigChangeMsg{Op: event.Op}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func reloadConfig(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(path)
		return ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m = m.relayout()
		return m, m.manpage.Reflow()

	case results.OpenPageMsg:
		if !m.rightVisible {
			m.rightVisible = true
			m = m.relayout()
		}
		m = m.setFocus(PanelManPage)
		var cmd tea.Cmd
		m.manpage, cmd = m.manpage.Update(manpage.OpenMsg{Entry: msg.Entry})
		return m, cmd

	case results.CopiedMsg:
		if msg.Err != nil {
			return m, m.setStatus("copy failed: "+msg.Err.Error(), true)
		}
		return m, m.setStatus("copied "+msg.Link, false)

	case FocusMsg:
		m = m.setFocus(msg.Target)
		return m, nil

	case ErrorMsg:
		m.logger.Error("error", "error", msg.Err)
		return m, m.setStatus(msg.Err.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Text, false)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case ConfigChangeMsg:
		cmds := []tea.Cmd{m.watchConfigCmd()}
		if !m.configDebouncing {
			m.configDebouncing = true
			cmds = append(cmds, tea.Tick(configDebounce, func(time.Time) tea.Msg {
				return configDebounceMsg{}
			}))
		}
		return m, tea.Batch(cmds...)

	case configDebounceMsg:
		m.configDebouncing = false
		return m, reloadConfig(m.cfg.Path)

	case ConfigReloadedMsg:
		return m.applyConfig(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	// Everything else (loads, spinner ticks, animation frames, resets)
	// goes to both panels; each ignores what it does not own.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)
	m.manpage, cmd = m.manpage.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Handle quit dialog first
	if m.showQuit {
		switch msg.String() {
		case "y", "Y", "enter", "ctrl+q":
			m.saveState()
			return m, tea.Quit
		case "n", "N", "esc":
			m.showQuit = false
			return m, nil
		}
		return m, nil
	}

	// Handle global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		// Check for double-tap ctrl+q for immediate quit
		now := time.Now()
		if now.Sub(m.lastQuitPress) < quitDoubleTap {
			m.saveState()
			return m, tea.Quit
		}
		m.lastQuitPress = now
		m.showQuit = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	// Any other key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.FocusNext), key.Matches(msg, m.keys.FocusPrev):
		if m.focus == PanelResults && m.rightVisible {
			m = m.setFocus(PanelManPage)
		} else {
			m = m.setFocus(PanelResults)
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusResults):
		m = m.setFocus(PanelResults)
		return m, nil

	case key.Matches(msg, m.keys.FocusManPage):
		if m.rightVisible {
			m = m.setFocus(PanelManPage)
		}
		return m, nil

	case key.Matches(msg, m.keys.ClosePage):
		if m.rightVisible {
			m.rightVisible = false
			m = m.relayout()
			m = m.setFocus(PanelResults)
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		t := theme.NextTheme()
		m.results.MarkDirty()
		m.manpage.MarkDirty()
		return m, m.setStatus("theme "+t.Name, false)

	case key.Matches(msg, m.keys.ShrinkLeft):
		m.leftPanelPercent = max(m.leftPanelPercent-5, layout.MinLeftPanelPercent)
		m = m.relayout()
		return m, m.manpage.Reflow()

	case key.Matches(msg, m.keys.WidenLeft):
		m.leftPanelPercent = min(m.leftPanelPercent+5, layout.MaxLeftPanelPercent)
		m = m.relayout()
		return m, m.manpage.Reflow()
	}

	var cmd tea.Cmd
	switch m.focus {
	case PanelResults:
		m.results, cmd = m.results.Update(msg)
	case PanelManPage:
		m.manpage, cmd = m.manpage.Update(msg)
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.showHelp || m.showQuit {
		return m, nil
	}

	target := m.panelAtPosition(msg.X, msg.Y)
	if target == PanelNone {
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && target != m.focus {
		m = m.setFocus(target)
	}

	// Panel content starts inside the border; the title sits in the top edge
	var x int
	switch target {
	case PanelResults:
		x, _, _, _ = m.layout.LeftPanelBounds()
	case PanelManPage:
		x, _, _, _ = m.layout.RightPanelBounds()
	}
	adjusted := msg
	adjusted.X = msg.X - x - 1
	adjusted.Y = msg.Y - 1
	if adjusted.X < 0 || adjusted.Y < 0 {
		return m, nil
	}

	var cmd tea.Cmd
	switch target {
	case PanelResults:
		m.results, cmd = m.results.Update(adjusted)
	case PanelManPage:
		m.manpage, cmd = m.manpage.Update(adjusted)
	}
	return m, cmd
}

func (m Model) applyConfig(msg ConfigReloadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", "path", m.cfg.Path, "error", msg.Err)
		return m, m.setStatus("config: "+msg.Err.Error(), true)
	}

	cfg := msg.Config
	if !strings.EqualFold(cfg.Theme, m.cfg.Theme) && !theme.SetThemeByName(cfg.Theme) {
		m.logger.Warn("unknown theme", "theme", cfg.Theme)
	}
	m.results.SetFrames(cfg.AnimationFrames)
	m.manpage.SetFrames(cfg.AnimationFrames)
	m.results.MarkDirty()
	m.manpage.MarkDirty()

	// Reload keeps watching the file the app started with
	cfg.Path = m.cfg.Path
	m.cfg = cfg
	m.logger.Info("config reloaded", "path", cfg.Path, "theme", cfg.Theme, "frames", cfg.AnimationFrames)
	return m, m.setStatus("config reloaded", false)
}

// saveState remembers the theme and panel width for the next run.
func (m Model) saveState() {
	if m.statePath == "" {
		return
	}
	s := state.State{
		Theme:            theme.CurrentTheme().Name,
		LeftPanelPercent: m.leftPanelPercent,
	}
	if err := state.Save(m.statePath, s); err != nil {
		m.logger.Warn("saving state", "path", m.statePath, "error", err)
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusMsgTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m Model) relayout() Model {
	m.layout = layout.Calculate(m.width, m.height, m.leftPanelPercent, m.rightVisible)
	return m.updateSizes()
}

func (m Model) updateSizes() Model {
	// Account for borders
	leftWidth := max(m.layout.LeftWidth-2, 0)
	rightWidth := max(m.layout.RightWidth-2, 0)
	mainHeight := max(m.layout.MainHeight-2, 0)

	m.results = m.results.SetSize(leftWidth, mainHeight)
	if m.rightVisible {
		m.manpage = m.manpage.SetSize(rightWidth, mainHeight)
	}
	return m
}

// View renders the application.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	mainArea := m.renderPanel(m.results, m.layout.LeftWidth, m.results.Loading())
	if m.rightVisible {
		right := m.renderPanel(m.manpage, m.layout.RightWidth, m.manpage.Loading())
		mainArea = lipgloss.JoinHorizontal(lipgloss.Top, mainArea, right)
	}
	view := lipgloss.JoinVertical(lipgloss.Left, mainArea, m.renderStatusBar())

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	// Show quit confirmation dialog
	if m.showQuit {
		return m.renderQuitDialog()
	}

	return view
}

func (m Model) renderPanel(p components.Panel, width int, running bool) string {
	var hints string
	if p.Focused() {
		hints = p.Hints()
	}
	opts := theme.PanelTitleOptions{
		Title:         p.Title(),
		StatusRunning: running,
		ShowStatus:    true,
		ScrollPercent: p.ScrollPercent(),
		BottomHints:   hints,
	}
	return theme.RenderPanelWithTitle(p.ViewCached(), opts, width, m.layout.MainHeight, p.Focused())
}

func (m Model) renderStatusBar() string {
	style := theme.StatusBarStyle.Width(m.layout.TotalWidth)

	var left string
	if m.status != "" {
		s := theme.StatusBarHighlight
		if m.statusErr {
			s = theme.ErrorStyle
		}
		left = " " + s.Render(m.status)
	} else {
		left = " " + theme.StatusBarHighlight.Render(m.results.Summary())
		if mode := m.results.Mode(); mode != sorting.ModeNone {
			left += theme.TextMutedStyle.Render(" │ by " + mode.String())
		}
		if link := m.results.SelectedLink(); link != "" {
			left += theme.TextMutedStyle.Render(" │ ") + theme.LinkStyle.Render(link)
		}
	}

	// Theme name and version
	right := lipgloss.NewStyle().Foreground(theme.ColorAccent).Render(theme.CurrentTheme().Name) +
		theme.TextDimStyle.Render(" │ "+Version+" │ ^H help ")

	gap := max(m.layout.TotalWidth-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	return style.Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

// setFocus changes focus to the specified panel.
func (m Model) setFocus(target PanelID) Model {
	// Blur previously focused component
	switch m.focus {
	case PanelResults:
		m.results = m.results.Blur()
	case PanelManPage:
		m.manpage = m.manpage.Blur()
	}

	m.focus = target

	// Focus new component
	switch target {
	case PanelResults:
		m.results = m.results.Focus()
	case PanelManPage:
		m.manpage = m.manpage.Focus()
	}

	return m
}

// Focus returns the currently focused panel.
func (m Model) Focus() PanelID {
	return m.focus
}

// RightVisible reports whether the manual page panel is shown.
func (m Model) RightVisible() bool {
	return m.rightVisible
}

func (m Model) panelAtPosition(x, y int) PanelID {
	if y >= m.layout.MainHeight {
		return PanelNone // Status bar
	}
	if rx, _, rw, _ := m.layout.RightPanelBounds(); rw > 0 && x >= rx {
		return PanelManPage
	}
	if _, _, lw, _ := m.layout.LeftPanelBounds(); x < lw {
		return PanelResults
	}
	return PanelNone
}

// helpKeys gathers the bindings of every panel for the help overlay.
type helpKeys [][]key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return nil }
func (h helpKeys) FullHelp() [][]key.Binding { return h }

// renderHelpOverlay renders the help overlay.
func (m Model) renderHelpOverlay() string {
	var groups helpKeys
	groups = append(groups, m.keys.FullHelp()...)
	groups = append(groups, results.DefaultKeyMap().FullHelp()...)
	groups = append(groups, manpage.DefaultKeyMap().FullHelp()...)

	h := m.help
	h.ShowAll = true
	h.Width = max(m.width-8, 20)

	title := theme.TextH1.Render("MANVIEW HELP")
	footer := theme.TextDimStyle.Render("Press any key to close")
	box := theme.DialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center, title, "", h.View(groups), "", footer))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

// renderQuitDialog renders the quit confirmation dialog.
func (m Model) renderQuitDialog() string {
	quitLines := []string{
		theme.TextH1.Render("QUIT MANVIEW?"),
		"",
		theme.TextBody.Render("Are you sure you want to quit?"),
		"",
		theme.TextMutedStyle.Render("[Y]es    [N]o    [^Q]uit"),
	}
	box := theme.DialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center, quitLines...))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
