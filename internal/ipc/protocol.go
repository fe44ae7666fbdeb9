package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tagwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetMonitors    CommandType = "GET_MONITORS"
	CommandView           CommandType = "VIEW"
	CommandSend           CommandType = "SEND"
	CommandCycle          CommandType = "CYCLE"
	CommandPromote        CommandType = "PROMOTE"
	CommandFocusMonitor   CommandType = "FOCUS_MONITOR"
	CommandSetLayout      CommandType = "SET_LAYOUT"
	CommandToggleFloating CommandType = "TOGGLE_FLOATING"
	CommandKill           CommandType = "KILL"
	CommandReload         CommandType = "RELOAD"
	CommandQuit           CommandType = "QUIT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by GET_STATUS.
type StatusData struct {
	wm.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// MonitorsData is returned by GET_MONITORS.
type MonitorsData struct {
	Monitors []wm.MonitorStatus `json:"monitors"`
}

// TagviewPayload is the payload of VIEW and SEND. Tagview is zero-based.
// VIEW acts on Monitor when set, otherwise on the active monitor.
type TagviewPayload struct {
	Tagview int  `json:"tagview"`
	Monitor *int `json:"monitor,omitempty"`
}

// DirectionPayload is the payload of CYCLE and FOCUS_MONITOR. Positive
// values move forward.
type DirectionPayload struct {
	Direction int `json:"direction"`
}

// LayoutPayload is the payload of SET_LAYOUT. The optional fields replace
// the two-column parameters before the layout is activated.
type LayoutPayload struct {
	Layout      string   `json:"layout"`
	Monitor     *int     `json:"monitor,omitempty"`
	MasterCount *int     `json:"master_count,omitempty"`
	SplitRatio  *float64 `json:"split_ratio,omitempty"`
	Gap         *int     `json:"gap,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
