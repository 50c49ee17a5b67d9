package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/avitaltamir/manview/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	sortFlag, logLevelFlag, uriPrefixFlag = "", "", ""

	cmd := &cobra.Command{Use: "manview"}
	cmd.Flags().StringVar(&sortFlag, "sort", "", "")
	cmd.Flags().StringVar(&logLevelFlag, "log-level", "", "")
	cmd.Flags().StringVar(&uriPrefixFlag, "uri-prefix", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestApplyFlags(t *testing.T) {
	t.Run("flags override config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cmd := newFlagCmd(t, "--sort", "name", "--log-level", "debug", "--uri-prefix", "https://x/")

		require.NoError(t, applyFlags(cmd, cfg))
		assert.Equal(t, "name", cfg.DefaultSort)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "https://x/", cfg.URIPrefix)
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cmd := newFlagCmd(t)

		require.NoError(t, applyFlags(cmd, cfg))
		assert.Equal(t, config.DefaultConfig().DefaultSort, cfg.DefaultSort)
	})

	t.Run("bad sort is rejected", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cmd := newFlagCmd(t, "--sort", "date")

		err := applyFlags(cmd, cfg)
		var cerr *config.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "sort", cerr.Field)
	})
}

func TestOpenLogger(t *testing.T) {
	t.Run("silent level discards", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.Level = "off"
		logger, closeFn := openLogger(cfg)
		defer closeFn()
		assert.False(t, logger.Enabled(context.Background(), 12))
	})

	t.Run("file logger", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.File = t.TempDir() + "/logs/manview.log"
		logger, closeFn := openLogger(cfg)
		defer closeFn()
		assert.True(t, logger.Enabled(context.Background(), 0))
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "manview "+version+"\n", out.String())
}
