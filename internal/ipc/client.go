package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tagwm/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload interface{}) (*Response, error) {
	req := Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(command CommandType, payload interface{}) error {
	_, err := c.sendRequest(command, payload)
	return err
}

// GetStatus retrieves the window manager state.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(CommandGetMonitors, nil)
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return &monitors, nil
}

// View shows the zero-based tagview on a monitor, or the active monitor when
// monitor is nil.
func (c *Client) View(tagview int, monitor *int) error {
	return c.call(CommandView, TagviewPayload{Tagview: tagview, Monitor: monitor})
}

// Send moves the focused client to the zero-based tagview.
func (c *Client) Send(tagview int) error {
	return c.call(CommandSend, TagviewPayload{Tagview: tagview})
}

// Cycle moves the selection forward (dir > 0) or backward.
func (c *Client) Cycle(dir int) error {
	return c.call(CommandCycle, DirectionPayload{Direction: dir})
}

// Promote swaps the selection with the master client.
func (c *Client) Promote() error {
	return c.call(CommandPromote, nil)
}

// FocusMonitor activates the next (dir > 0) or previous monitor.
func (c *Client) FocusMonitor(dir int) error {
	return c.call(CommandFocusMonitor, DirectionPayload{Direction: dir})
}

// SetLayout switches layout and optionally its parameters.
func (c *Client) SetLayout(p LayoutPayload) error {
	return c.call(CommandSetLayout, p)
}

// ToggleFloating flips the floating state of the selection.
func (c *Client) ToggleFloating() error {
	return c.call(CommandToggleFloating, nil)
}

// Kill asks the selected client to close.
func (c *Client) Kill() error {
	return c.call(CommandKill, nil)
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil)
}

// Quit stops the window manager.
func (c *Client) Quit() error {
	return c.call(CommandQuit, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
