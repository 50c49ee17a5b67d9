package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	t.Run("uses XDG_STATE_HOME", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

		path, err := Path()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg-state", "manview", "state.json"), path)
	})

	t.Run("falls back to home", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		path, err := Path()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".local", "state", "manview", "state.json"), path)
	})
}

func TestLoadSave(t *testing.T) {
	t.Run("missing file gives zero state", func(t *testing.T) {
		s := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Equal(t, State{}, s)
	})

	t.Run("invalid JSON gives zero state", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		assert.Equal(t, State{}, Load(path))
	})

	t.Run("round trip creates the directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state.json")
		want := State{Theme: "Amber", LeftPanelPercent: 55}

		require.NoError(t, Save(path, want))
		assert.Equal(t, want, Load(path))
	})
}
