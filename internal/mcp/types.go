package mcp

import "github.com/1broseidon/tagwm/internal/wm"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	ActiveMonitor int                `json:"active_monitor"`
	Monitors      []wm.MonitorStatus `json:"monitors"`
	Tagviews      []wm.TagviewStatus `json:"tagviews"`
	Dragging      bool               `json:"dragging"`
	UptimeSeconds int64              `json:"uptime_seconds"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []wm.MonitorStatus `json:"monitors"`
}

// ViewTagviewInput is the input for the view_tagview tool.
type ViewTagviewInput struct {
	Tagview int  `json:"tagview" jsonschema:"required,Tagview number, starting at 1"`
	Monitor *int `json:"monitor,omitempty" jsonschema:"Monitor id (default: the active monitor)"`
}

// SendToTagviewInput is the input for the send_to_tagview tool.
type SendToTagviewInput struct {
	Tagview int `json:"tagview" jsonschema:"required,Tagview number, starting at 1"`
}

// CycleFocusInput is the input for the cycle_focus tool.
type CycleFocusInput struct {
	Direction string `json:"direction,omitempty" jsonschema:"next or prev (default: next)"`
}

// PromoteSelectionInput is the input for the promote_selection tool.
type PromoteSelectionInput struct{}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout      string   `json:"layout" jsonschema:"required,two-columns or grid"`
	Monitor     *int     `json:"monitor,omitempty" jsonschema:"Monitor id (default: the active monitor)"`
	MasterCount *int     `json:"master_count,omitempty" jsonschema:"Number of master windows (two-columns only)"`
	SplitRatio  *float64 `json:"split_ratio,omitempty" jsonschema:"Master column share of the width, between 0 and 1 exclusive (two-columns only)"`
	Gap         *int     `json:"gap,omitempty" jsonschema:"Gap between cells in pixels (grid only)"`
}
