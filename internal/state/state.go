// Package state remembers UI choices between runs.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	appDirName    = "manview"
	stateFileName = "state.json"
)

// State represents the persisted session state.
type State struct {
	// Theme is the name of the last theme picked with alt+t
	Theme string `json:"theme,omitempty"`
	// LeftPanelPercent is the width percentage of the results panel
	LeftPanelPercent int `json:"left_panel_percent,omitempty"`
}

// stateDir returns $XDG_STATE_HOME/manview, falling back to
// ~/.local/state/manview.
func stateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appDirName), nil
}

// Path returns the default location of the state file.
func Path() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

// Load reads the state at path.
// Returns the zero state if the file doesn't exist or can't be read.
func Load(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		// Invalid JSON - start fresh
		return State{}
	}
	return s
}

// Save writes the state to path, creating its directory.
func Save(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
