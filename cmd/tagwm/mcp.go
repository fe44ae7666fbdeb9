package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/logging"
	"github.com/1broseidon/tagwm/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the MCP server on stdio. MCP clients launch it as a subprocess;
each tool call is forwarded to the running window manager over IPC.

Example:
  claude mcp add tagwm -- tagwm mcp serve`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	mcpServeCmd.Flags().String("log-level", "warn", "Log level for stderr output")
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	// Stdout carries the protocol, so logs only go to stderr.
	logger, err := logging.New(logging.Options{Level: level, Console: true})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcp.NewServer(ipc.NewClient(), logger.Logger).Run(ctx)
}
