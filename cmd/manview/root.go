package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/avitaltamir/manview/internal/app"
	"github.com/avitaltamir/manview/internal/apropos"
	"github.com/avitaltamir/manview/internal/config"
	"github.com/avitaltamir/manview/internal/controller"
	"github.com/avitaltamir/manview/internal/logging"
	"github.com/avitaltamir/manview/internal/man"
	"github.com/avitaltamir/manview/internal/sorting"
	"github.com/avitaltamir/manview/internal/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	sortFlag      string
	configFlag    string
	logLevelFlag  string
	uriPrefixFlag string
)

var rootCmd = &cobra.Command{
	Use:   "manview [keyword]",
	Short: "Browse apropos results grouped by manual section",
	Long: `manview runs apropos for a keyword and shows the matching manual pages,
either as one table sorted by name or grouped into collapsible sections.
Without a keyword every page is listed.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&sortFlag, "sort", "", "Initial grouping: name or section (default from config)")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/manview/config.yaml)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error or off")
	rootCmd.Flags().StringVar(&uriPrefixFlag, "uri-prefix", "", "Prefix for links to qualified page names")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger, closeLog := openLogger(cfg)
	defer closeLog()

	var keyword string
	if len(args) > 0 {
		keyword = args[0]
	}

	cmp, err := sorting.NewComparator(cfg.Locale, cfg.CaseSensitive)
	if err != nil {
		return fmt.Errorf("locale %q: %w", cfg.Locale, err)
	}

	controls := controller.DefaultControls()
	if err := controls.Validate(); err != nil {
		return err
	}

	logger.Info("starting", "version", version, "keyword", keyword, "sort", cfg.DefaultSort, "locale", cmp.Locale().String(), "config", cfg.Path)

	statePath, err := state.Path()
	if err != nil {
		logger.Warn("session state disabled", "error", err)
	}

	model := app.New(app.Options{
		Config:     cfg,
		Keyword:    keyword,
		Mode:       cfg.SortMode(),
		Apropos:    apropos.NewShellProvider(cfg.AproposPath),
		Man:        man.NewShellProvider(cfg.ManPath),
		Comparator: cmp,
		Controls:   controls,
		Logger:     logger,
		StatePath:  statePath,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if m, ok := final.(app.Model); ok {
		if cerr := m.Close(); cerr != nil {
			logger.Warn("closing config watcher", "error", cerr)
		}
	}
	if err != nil {
		logger.Error("program exited", "error", err)
		return err
	}
	return nil
}

// applyFlags lets command line flags override the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("sort") {
		if _, ok := sorting.ParseMode(sortFlag); !ok {
			return &config.Error{Field: "sort", Message: fmt.Sprintf("must be name or section, got %q", sortFlag)}
		}
		cfg.DefaultSort = sortFlag
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevelFlag
	}
	if cmd.Flags().Changed("uri-prefix") {
		cfg.URIPrefix = uriPrefixFlag
	}
	return nil
}

// openLogger opens the log file. The terminal belongs to the UI, so a
// log file that cannot be opened means no logging at all.
func openLogger(cfg *config.Config) (*slog.Logger, func()) {
	level := logging.LevelFromString(cfg.Log.Level)
	if level == logging.LevelSilent || cfg.Log.File == "" {
		return logging.NewDiscardLogger(), func() {}
	}
	logger, f, err := logging.NewFileLogger(cfg.Log.File, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logging.NewDiscardLogger(), func() {}
	}
	return logger, func() { _ = f.Close() }
}
