package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/daemon"
	"github.com/1broseidon/tagwm/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the window manager",
	Long: `Connect to the X server named by $DISPLAY and manage its windows until
the quit action runs or the process receives SIGINT or SIGTERM.
SIGHUP reloads the config file.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("debug", false, "Log at debug level regardless of log_level")
	runCmd.Flags().Bool("quiet", false, "Do not log to stderr (log_file still applies)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	cfg := res.Config

	debug, _ := cmd.Flags().GetBool("debug")
	quiet, _ := cmd.Flags().GetBool("quiet")
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:   level,
		File:    cfg.LogFile,
		Console: !quiet,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("version", version).
		Str("config", path).
		Strs("files", res.Files).
		Msg("starting tagwm")

	if err := daemon.New(path, cfg, logger.Logger).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("window manager stopped")
		return err
	}
	return nil
}
