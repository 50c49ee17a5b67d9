package app

import (
	"github.com/avitaltamir/manview/internal/config"
	"github.com/fsnotify/fsnotify"
)

// PanelID identifies which panel has focus.
type PanelID int

const (
	PanelNone PanelID = iota
	PanelResults
	PanelManPage
)

// String returns the panel name for debugging.
func (p PanelID) String() string {
	switch p {
	case PanelNone:
		return "None"
	case PanelResults:
		return "Results"
	case PanelManPage:
		return "ManPage"
	default:
		return "Unknown"
	}
}

// FocusMsg requests focus change to a specific panel.
type FocusMsg struct {
	Target PanelID
}

// ErrorMsg represents an error that should be displayed.
type ErrorMsg struct {
	Err error
}

// StatusMsg updates the status bar with a message.
type StatusMsg struct {
	Text string
}

// ConfigChangeMsg is sent when the config file changes on disk.
type ConfigChangeMsg struct {
	Op fsnotify.Op
}

// ConfigReloadedMsg carries a freshly loaded config.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// configDebounceMsg fires once rapid config writes have settled.
type configDebounceMsg struct{}
