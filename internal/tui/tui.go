// Package tui is a live terminal dashboard for a running window manager.
// It polls status over IPC and sends actions for the selected monitor.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/tagwm/internal/ipc"
)

// DefaultInterval is how often the dashboard refreshes status.
const DefaultInterval = time.Second

// Controller is the part of the IPC client the dashboard uses.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	View(tagview int, monitor *int) error
	Cycle(dir int) error
	Promote() error
	SetLayout(p ipc.LayoutPayload) error
}

var _ Controller = (*ipc.Client)(nil)

// Run shows the dashboard until the user quits.
func Run(ctl Controller, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := tea.NewProgram(newModel(ctl, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
