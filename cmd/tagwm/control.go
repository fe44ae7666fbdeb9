package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/tiling"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show monitors, tagviews and their clients",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List monitors and the tagview each one shows",
	Args:  cobra.NoArgs,
	RunE:  runMonitors,
}

var viewCmd = &cobra.Command{
	Use:   "view <tagview>",
	Short: "Show a tagview on a monitor",
	Long: `Show tagview N (starting at 1) on the active monitor, or on --monitor.
A tagview already shown on another monitor trades places with the current one.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

var sendCmd = &cobra.Command{
	Use:   "send <tagview>",
	Short: "Move the focused window to a tagview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseTagview(args[0])
		if err != nil {
			return err
		}
		return ipc.NewClient().Send(idx)
	},
}

var focusCmd = &cobra.Command{
	Use:       "focus <next|prev>",
	Short:     "Move focus to the next or previous window",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"next", "prev"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := parseDirection(args[0])
		if err != nil {
			return err
		}
		return ipc.NewClient().Cycle(dir)
	},
}

var focusMonitorCmd = &cobra.Command{
	Use:       "focus-monitor <next|prev>",
	Short:     "Make the next or previous monitor active",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"next", "prev"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := parseDirection(args[0])
		if err != nil {
			return err
		}
		return ipc.NewClient().FocusMonitor(dir)
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom",
	Short: "Swap the focused window with the master window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ipc.NewClient().Promote()
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout <two-columns|grid>",
	Short: "Set the layout of a monitor's tagview",
	Long: `Switch the tagview on the active monitor (or --monitor) to a layout.
--master-count and --split-ratio apply to two-columns, --gap to grid.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(tiling.KindTwoColumns), string(tiling.KindGrid)},
	RunE:      runLayout,
}

var floatCmd = &cobra.Command{
	Use:   "float",
	Short: "Toggle floating for the focused window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ipc.NewClient().ToggleFloating()
	},
}

var killCmd = &cobra.Command{
	Use:   "kill",
	Short: "Close the focused window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ipc.NewClient().Kill()
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the config file in the running window manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ipc.NewClient().Reload(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
		return nil
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop the window manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ipc.NewClient().Quit()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, monitorsCmd, viewCmd, sendCmd, focusCmd,
		focusMonitorCmd, zoomCmd, layoutCmd, floatCmd, killCmd, reloadCmd, quitCmd)

	statusCmd.Flags().Bool("json", false, "Print the raw status as JSON")
	monitorsCmd.Flags().Bool("json", false, "Print the monitors as JSON")
	viewCmd.Flags().Int("monitor", 0, "Monitor id (default: the active monitor)")
	layoutCmd.Flags().Int("monitor", 0, "Monitor id (default: the active monitor)")
	layoutCmd.Flags().Int("master-count", 0, "Number of master windows (two-columns)")
	layoutCmd.Flags().Float64("split-ratio", 0, "Master column share of the width (two-columns)")
	layoutCmd.Flags().Int("gap", 0, "Gap between cells in pixels (grid)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := ipc.NewClient().GetStatus()
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(st)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderStatus(st, newStyles(stdoutIsTerminal())))
	return nil
}

func runMonitors(cmd *cobra.Command, args []string) error {
	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(data)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderMonitors(data.Monitors, newStyles(stdoutIsTerminal())))
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	idx, err := parseTagview(args[0])
	if err != nil {
		return err
	}
	return ipc.NewClient().View(idx, intFlag(cmd, "monitor"))
}

func runLayout(cmd *cobra.Command, args []string) error {
	kind, err := tiling.ParseKind(args[0])
	if err != nil {
		return err
	}
	p := ipc.LayoutPayload{
		Layout:      string(kind),
		Monitor:     intFlag(cmd, "monitor"),
		MasterCount: intFlag(cmd, "master-count"),
		Gap:         intFlag(cmd, "gap"),
	}
	if cmd.Flags().Changed("split-ratio") {
		v, _ := cmd.Flags().GetFloat64("split-ratio")
		p.SplitRatio = &v
	}
	return ipc.NewClient().SetLayout(p)
}

// intFlag returns a pointer to the flag value, or nil when it was not set.
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// parseTagview converts a tagview number starting at 1 into an IPC index.
func parseTagview(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("tagview must be a number from 1, got %q", s)
	}
	return n - 1, nil
}

func parseDirection(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "+1":
		return 1, nil
	case "prev", "previous", "-1":
		return -1, nil
	}
	return 0, fmt.Errorf("direction must be next or prev, got %q", s)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
