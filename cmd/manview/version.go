package main

import (
	"fmt"

	"github.com/avitaltamir/manview/internal/app"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the manview version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "manview", version)
	},
}

func init() {
	// Set the app version for display in the UI
	app.Version = version
	rootCmd.AddCommand(versionCmd)
}
