package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagwm/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tagwm",
	Short: "A tiling window manager for X11 with per-monitor tagviews",
	Long: `tagwm manages X11 windows in tagviews, each with its own layout.
Every monitor shows one tagview at a time. Run "tagwm run" from your
session startup; the other commands talk to the running manager over
its IPC socket.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: $XDG_CONFIG_HOME/tagwm/config.yaml)")
}

// configPath returns the --config flag or the default location.
func configPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}
