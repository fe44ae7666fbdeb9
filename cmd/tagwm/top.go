package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/tui"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live dashboard of monitors, tagviews and windows",
	Long: `Show a live view of the running window manager. Tab selects a monitor,
1-9 shows a tagview on it, j/k cycle focus, z zooms, space toggles the layout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		return tui.Run(ipc.NewClient(), interval)
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().Duration("interval", tui.DefaultInterval, "Refresh interval")
}
