// Package config loads manview settings from a YAML file and MANVIEW_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avitaltamir/manview/internal/sorting"
	"github.com/spf13/viper"
)

// Config holds every tunable setting.
type Config struct {
	Locale          string        `mapstructure:"locale"`
	CaseSensitive   bool          `mapstructure:"case_sensitive"`
	DefaultSort     string        `mapstructure:"default_sort"`
	URIPrefix       string        `mapstructure:"uri_prefix"`
	Theme           string        `mapstructure:"theme"`
	AnimationFrames int           `mapstructure:"animation_frames"`
	SelectionReset  time.Duration `mapstructure:"selection_reset"`
	AproposPath     string        `mapstructure:"apropos_path"`
	ManPath         string        `mapstructure:"man_path"`
	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
	Log             LogConfig     `mapstructure:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `mapstructure:"-"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Locale:          "en",
		DefaultSort:     "section",
		Theme:           "Midnight",
		AnimationFrames: 6,
		SelectionReset:  3 * time.Second,
		AproposPath:     "apropos",
		ManPath:         "man",
		CommandTimeout:  10 * time.Second,
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile(),
		},
	}
}

// Dir returns the directory holding config.yaml.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "manview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "manview")
}

func defaultLogFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "manview", "manview.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "manview.log")
	}
	return filepath.Join(home, ".local", "state", "manview", "manview.log")
}

// Load reads the config. An explicit path must exist; otherwise the
// default location is searched and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("case_sensitive", defaults.CaseSensitive)
	v.SetDefault("default_sort", defaults.DefaultSort)
	v.SetDefault("uri_prefix", defaults.URIPrefix)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("animation_frames", defaults.AnimationFrames)
	v.SetDefault("selection_reset", defaults.SelectionReset)
	v.SetDefault("apropos_path", defaults.AproposPath)
	v.SetDefault("man_path", defaults.ManPath)
	v.SetDefault("command_timeout", defaults.CommandTimeout)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	v.SetEnvPrefix("MANVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := Dir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if _, ok := sorting.ParseMode(c.DefaultSort); !ok {
		return &Error{Field: "default_sort", Message: fmt.Sprintf("must be name or section, got %q", c.DefaultSort)}
	}
	if c.AnimationFrames < 1 {
		return &Error{Field: "animation_frames", Message: "must be at least 1"}
	}
	if c.SelectionReset <= 0 {
		return &Error{Field: "selection_reset", Message: "must be positive"}
	}
	if c.CommandTimeout <= 0 {
		return &Error{Field: "command_timeout", Message: "must be positive"}
	}
	return nil
}

// SortMode returns the configured initial mode.
func (c *Config) SortMode() sorting.Mode {
	mode, ok := sorting.ParseMode(c.DefaultSort)
	if !ok {
		return sorting.BySection
	}
	return mode
}

// Error is a validation failure for one field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config: " + e.Field + ": " + e.Message
}
