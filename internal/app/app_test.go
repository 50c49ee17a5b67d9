package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/components/manpage"
	"github.com/avitaltamir/manview/internal/components/results"
	"github.com/avitaltamir/manview/internal/config"
	"github.com/avitaltamir/manview/internal/controller"
	"github.com/avitaltamir/manview/internal/sorting"
	"github.com/avitaltamir/manview/internal/state"
	"github.com/avitaltamir/manview/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApropos struct{}

func (fakeApropos) Search(context.Context, string) ([]apropos.Entry, error) {
	return sampleEntries(), nil
}

type fakeMan struct{}

func (fakeMan) Page(context.Context, string, string, int) (string, error) {
	return "LS(1)\n\nNAME\n       ls - list\n\nLS(1)\n", nil
}

func sampleEntries() []apropos.Entry {
	return []apropos.Entry{
		{Page: "ls", Section: "1", Description: "list directory contents"},
		{Page: "stat", Section: "2", Description: "get file status"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) Model {
	t.Helper()
	cmp, err := sorting.NewComparator("en", false)
	require.NoError(t, err)
	return New(Options{
		Config:     cfg,
		Keyword:    "file",
		Apropos:    fakeApropos{},
		Man:        fakeMan{},
		Comparator: cmp,
		Controls:   controller.DefaultControls(),
	})
}

// readyApp returns a sized app with the search results loaded.
func readyApp(t *testing.T) Model {
	t.Helper()
	m := newTestApp(t, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	updated, _ = updated.Update(results.LoadedMsg{Keyword: "file", Entries: sampleEntries()})
	return updated.(Model)
}

func TestNew(t *testing.T) {
	m := newTestApp(t, nil)

	assert.Equal(t, PanelResults, m.Focus())
	assert.False(t, m.RightVisible())
	assert.True(t, m.results.Focused())
	assert.Nil(t, m.watcher)
	assert.NotNil(t, m.Init())
}

func TestPanelIDString(t *testing.T) {
	tests := []struct {
		panel    PanelID
		expected string
	}{
		{PanelNone, "None"},
		{PanelResults, "Results"},
		{PanelManPage, "ManPage"},
		{PanelID(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.panel.String())
		})
	}
}

func TestModelUpdate(t *testing.T) {
	t.Run("WindowSizeMsg sets dimensions", func(t *testing.T) {
		m := newTestApp(t, nil)

		newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

		assert.Equal(t, 100, newModel.(Model).width)
		assert.Equal(t, 40, newModel.(Model).height)
		assert.True(t, newModel.(Model).ready)
	})

	t.Run("Quit key shows quit dialog", func(t *testing.T) {
		m := readyApp(t)

		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
		assert.True(t, newModel.(Model).showQuit)
	})

	t.Run("Quit dialog Y confirms quit", func(t *testing.T) {
		m := readyApp(t)
		m.showQuit = true

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("Quit dialog N cancels quit", func(t *testing.T) {
		m := readyApp(t)
		m.showQuit = true

		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		assert.False(t, newModel.(Model).showQuit)
	})

	t.Run("Double-tap ctrl+q quits immediately", func(t *testing.T) {
		m := readyApp(t)

		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
		model := newModel.(Model)
		assert.True(t, model.showQuit)

		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("results keys reach the focused panel", func(t *testing.T) {
		m := readyApp(t)
		assert.Equal(t, sorting.BySection, m.results.Mode())

		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		assert.Equal(t, sorting.ByName, newModel.(Model).results.Mode())
	})

	t.Run("opening a page shows and focuses the man panel", func(t *testing.T) {
		m := readyApp(t)

		newModel, cmd := m.Update(results.OpenPageMsg{Entry: sampleEntries()[0], Link: "man/ls(1)"})
		model := newModel.(Model)

		assert.True(t, model.RightVisible())
		assert.Equal(t, PanelManPage, model.Focus())
		assert.True(t, model.manpage.Loading())
		assert.NotNil(t, cmd)
		assert.Greater(t, model.layout.RightWidth, 0)
	})

	t.Run("esc closes the man panel", func(t *testing.T) {
		m := readyApp(t)
		newModel, _ := m.Update(results.OpenPageMsg{Entry: sampleEntries()[0]})

		newModel, _ = newModel.Update(tea.KeyMsg{Type: tea.KeyEsc})
		model := newModel.(Model)
		assert.False(t, model.RightVisible())
		assert.Equal(t, PanelResults, model.Focus())
	})

	t.Run("FocusMsg sets focus", func(t *testing.T) {
		m := readyApp(t)

		newModel, _ := m.Update(FocusMsg{Target: PanelManPage})
		model := newModel.(Model)

		assert.Equal(t, PanelManPage, model.Focus())
		assert.True(t, model.manpage.Focused())
		assert.False(t, model.results.Focused())
	})

	t.Run("tab stays on results while no page is open", func(t *testing.T) {
		m := readyApp(t)

		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, PanelResults, newModel.(Model).Focus())
	})

	t.Run("errors go to the status bar", func(t *testing.T) {
		m := readyApp(t)

		newModel, cmd := m.Update(ErrorMsg{Err: errors.New("boom")})
		model := newModel.(Model)
		assert.NotNil(t, cmd)
		assert.True(t, model.statusErr)
		assert.Contains(t, model.View(), "boom")

		newModel, _ = model.Update(clearStatusMsg{seq: model.statusSeq})
		assert.Empty(t, newModel.(Model).status)
	})

	t.Run("stale status expiry is ignored", func(t *testing.T) {
		m := readyApp(t)
		newModel, _ := m.Update(StatusMsg{Text: "first"})
		newModel, _ = newModel.Update(StatusMsg{Text: "second"})

		newModel, _ = newModel.Update(clearStatusMsg{seq: 1})
		assert.Equal(t, "second", newModel.(Model).status)
	})

	t.Run("copy result is reported", func(t *testing.T) {
		m := readyApp(t)
		newModel, _ := m.Update(results.CopiedMsg{Link: "man/ls(1)"})
		assert.Equal(t, "copied man/ls(1)", newModel.(Model).status)

		newModel, _ = m.Update(results.CopiedMsg{Err: errors.New("no clipboard")})
		assert.True(t, newModel.(Model).statusErr)
	})

	t.Run("help toggles and any key closes it", func(t *testing.T) {
		m := readyApp(t)

		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
		model := newModel.(Model)
		assert.True(t, model.showHelp)
		assert.Contains(t, model.View(), "MANVIEW HELP")

		newModel, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		model = newModel.(Model)
		assert.False(t, model.showHelp)
		// the key only closed help
		assert.Equal(t, sorting.BySection, model.results.Mode())
	})
}

func TestThemeCycle(t *testing.T) {
	t.Cleanup(func() { theme.SetThemeIndex(0) })

	m := readyApp(t)
	before := theme.CurrentTheme().Name

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}, Alt: true})
	assert.NotEqual(t, before, theme.CurrentTheme().Name)
	assert.Contains(t, newModel.(Model).status, theme.CurrentTheme().Name)
}

func TestConfigReload(t *testing.T) {
	t.Cleanup(func() { theme.SetThemeIndex(0) })

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: Midnight\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	m := newTestApp(t, cfg)
	require.NotNil(t, m.watcher)
	t.Cleanup(func() { _ = m.Close() })

	t.Run("change is debounced into a reload", func(t *testing.T) {
		newModel, cmd := m.Update(ConfigChangeMsg{})
		assert.NotNil(t, cmd)
		assert.True(t, newModel.(Model).configDebouncing)

		newModel, cmd = newModel.Update(configDebounceMsg{})
		assert.False(t, newModel.(Model).configDebouncing)
		require.NotNil(t, cmd)
		_, ok := cmd().(ConfigReloadedMsg)
		assert.True(t, ok)
	})

	t.Run("reload applies theme and frames", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("theme: Amber\nanimation_frames: 2\n"), 0o644))
		next, err := config.Load(path)
		require.NoError(t, err)

		newModel, _ := m.Update(ConfigReloadedMsg{Config: next})
		model := newModel.(Model)
		assert.Equal(t, "Amber", theme.CurrentTheme().Name)
		assert.Equal(t, 2, model.cfg.AnimationFrames)
		assert.Equal(t, path, model.cfg.Path)
	})

	t.Run("reload error keeps the old config", func(t *testing.T) {
		newModel, _ := m.Update(ConfigReloadedMsg{Err: errors.New("bad yaml")})
		model := newModel.(Model)
		assert.True(t, model.statusErr)
		assert.Same(t, cfg, model.cfg)
	})
}

func TestModelView(t *testing.T) {
	t.Run("returns loading when not ready", func(t *testing.T) {
		m := newTestApp(t, nil)
		assert.Contains(t, m.View(), "Initializing")
	})

	t.Run("renders panels when ready", func(t *testing.T) {
		m := readyApp(t)
		view := m.View()

		assert.Contains(t, view, "apropos file")
		assert.Contains(t, view, "2 pages in 2 sections")
		assert.Contains(t, view, Version)
	})

	t.Run("renders quit dialog", func(t *testing.T) {
		m := readyApp(t)
		m.showQuit = true
		assert.Contains(t, m.View(), "QUIT MANVIEW?")
	})
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	assert.NotEmpty(t, km.Quit.Keys())
	assert.NotEmpty(t, km.Help.Keys())
	assert.NotEmpty(t, km.FocusResults.Keys())
	assert.NotEmpty(t, km.FocusManPage.Keys())
	assert.NotEmpty(t, km.CycleTheme.Keys())
}

func TestKeyMapHelp(t *testing.T) {
	km := DefaultKeyMap()

	t.Run("ShortHelp returns bindings", func(t *testing.T) {
		assert.NotEmpty(t, km.ShortHelp())
	})

	t.Run("FullHelp returns binding groups", func(t *testing.T) {
		full := km.FullHelp()
		assert.Greater(t, len(full), 1)
	})
}

func TestMouseClickSetsFocus(t *testing.T) {
	m := readyApp(t)
	updated, _ := m.Update(results.OpenPageMsg{Entry: sampleEntries()[0]})
	m = updated.(Model)
	assert.Equal(t, PanelManPage, m.focus)

	// Click on the results panel (left side)
	updated, _ = m.Update(tea.MouseMsg{
		X:      5,
		Y:      5,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	m = updated.(Model)

	assert.Equal(t, PanelResults, m.focus)
	assert.True(t, m.results.Focused())
	assert.False(t, m.manpage.Focused())

	// And back to the page (right side)
	updated, _ = m.Update(tea.MouseMsg{
		X:      m.layout.LeftWidth + 10,
		Y:      5,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	m = updated.(Model)

	assert.Equal(t, PanelManPage, m.focus)
	assert.True(t, m.manpage.Focused())
}

func TestPanelAtPosition(t *testing.T) {
	m := readyApp(t)
	updated, _ := m.Update(results.OpenPageMsg{Entry: sampleEntries()[0]})
	m = updated.(Model)

	tests := []struct {
		name     string
		x, y     int
		expected PanelID
	}{
		{"left panel top", 5, 5, PanelResults},
		{"left panel near edge", m.layout.LeftWidth - 1, 5, PanelResults},
		{"right panel start", m.layout.LeftWidth, 5, PanelManPage},
		{"right panel middle", 80, 5, PanelManPage},
		{"status bar area", 50, m.layout.MainHeight, PanelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.panelAtPosition(tt.x, tt.y), "panelAtPosition(%d, %d)", tt.x, tt.y)
		})
	}
}

func TestStatePersistence(t *testing.T) {
	t.Cleanup(func() { theme.SetThemeIndex(0) })

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, state.Save(path, state.State{Theme: "Paper", LeftPanelPercent: 60}))

	cmp, err := sorting.NewComparator("en", false)
	require.NoError(t, err)
	m := New(Options{
		Comparator: cmp,
		Controls:   controller.DefaultControls(),
		StatePath:  path,
	})
	assert.Equal(t, "Paper", theme.CurrentTheme().Name)
	assert.Equal(t, 60, m.leftPanelPercent)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}, Alt: true})
	m = updated.(Model)
	m.showQuit = true
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	saved := state.Load(path)
	assert.Equal(t, "Paper", saved.Theme)
	assert.Equal(t, 55, saved.LeftPanelPercent)
}

func TestResizeReflowsOpenPage(t *testing.T) {
	open := func(t *testing.T) Model {
		t.Helper()
		m := readyApp(t)
		updated, _ := m.Update(results.OpenPageMsg{Entry: sampleEntries()[0]})
		text, err := fakeMan{}.Page(context.Background(), "ls", "1", 0)
		require.NoError(t, err)
		updated, _ = updated.Update(manpage.PageLoadedMsg{Entry: sampleEntries()[0], Text: text})
		m = updated.(Model)
		require.False(t, m.manpage.Loading())
		return m
	}

	t.Run("unchanged width needs no reflow", func(t *testing.T) {
		m := open(t)
		_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		assert.Nil(t, cmd)
	})

	t.Run("shrinking the results panel reformats the page", func(t *testing.T) {
		m := open(t)
		before := m.layout.RightWidth

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}, Alt: true})
		require.NotNil(t, cmd)
		m = updated.(Model)
		require.Greater(t, m.layout.RightWidth, before)

		updated, cmd = m.Update(cmd())
		require.NotNil(t, cmd)
		var loaded manpage.PageLoadedMsg
		for _, msg := range runCmd(cmd) {
			if l, ok := msg.(manpage.PageLoadedMsg); ok {
				loaded = l
			}
		}
		assert.Equal(t, m.layout.RightWidth-3, loaded.Width)

		updated, _ = updated.Update(loaded)
		m = updated.(Model)
		assert.False(t, m.manpage.Loading())
		assert.Equal(t, 1, m.manpage.Navigator().Len())
	})
}

// runCmd runs cmd and flattens any batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, runCmd(c)...)
	}
	return msgs
}
