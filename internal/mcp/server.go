// Package mcp exposes window manager operations as MCP tools over stdio.
// Every tool forwards to the running daemon through the IPC socket.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/ipc"
)

const (
	ServerName    = "tagwm"
	ServerVersion = "0.1.0"
)

// Controller is the part of the IPC client the tools use.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	View(tagview int, monitor *int) error
	Send(tagview int) error
	Cycle(dir int) error
	Promote() error
	SetLayout(p ipc.LayoutPayload) error
}

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server for tagwm.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	log       zerolog.Logger
}

// NewServer creates an MCP server forwarding to ctl.
func NewServer(ctl Controller, log zerolog.Logger) *Server {
	s := &Server{
		ctl: ctl,
		log: log.With().Str("component", "mcp").Logger(),
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the window manager state: monitors, the tagview each one shows, and the clients of every tagview with their focus, floating and fullscreen state.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors with their screen and work area rectangles and the tagview shown on each.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "view_tagview",
		Description: "Show a tagview on a monitor. A tagview already shown on another monitor trades places with the current one.",
	}, s.handleViewTagview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_to_tagview",
		Description: "Move the focused window to another tagview.",
	}, s.handleSendToTagview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_focus",
		Description: "Move focus to the next or previous window on the active monitor, wrapping at the ends.",
	}, s.handleCycleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "promote_selection",
		Description: "Swap the focused window with the master window of the two-column layout.",
	}, s.handlePromoteSelection)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Switch the layout of the active monitor's tagview to two-columns or grid, optionally changing its parameters.",
	}, s.handleSetLayout)
}
