package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagwm/internal/ipc"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// tagviewIndex converts a one-based tagview number into an IPC index.
func tagviewIndex(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("tagview must be 1 or greater, got %d", n)
	}
	return n - 1, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.ctl.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		ActiveMonitor: st.ActiveMonitor,
		Monitors:      st.Monitors,
		Tagviews:      st.Tagviews,
		Dragging:      st.Dragging,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.ctl.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	return nil, ListMonitorsOutput{Monitors: data.Monitors}, nil
}

func (s *Server) handleViewTagview(_ context.Context, _ *mcpsdk.CallToolRequest, args ViewTagviewInput) (*mcpsdk.CallToolResult, any, error) {
	idx, err := tagviewIndex(args.Tagview)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ctl.View(idx, args.Monitor); err != nil {
		return nil, nil, err
	}
	s.log.Debug().Int("tagview", args.Tagview).Msg("view_tagview")
	if args.Monitor != nil {
		return textResult("Showing tagview %d on monitor %d", args.Tagview, *args.Monitor), nil, nil
	}
	return textResult("Showing tagview %d on the active monitor", args.Tagview), nil, nil
}

func (s *Server) handleSendToTagview(_ context.Context, _ *mcpsdk.CallToolRequest, args SendToTagviewInput) (*mcpsdk.CallToolResult, any, error) {
	idx, err := tagviewIndex(args.Tagview)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ctl.Send(idx); err != nil {
		return nil, nil, err
	}
	s.log.Debug().Int("tagview", args.Tagview).Msg("send_to_tagview")
	return textResult("Sent the focused window to tagview %d", args.Tagview), nil, nil
}

func (s *Server) handleCycleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args CycleFocusInput) (*mcpsdk.CallToolResult, any, error) {
	dir := 1
	switch strings.ToLower(strings.TrimSpace(args.Direction)) {
	case "", "next":
	case "prev", "previous":
		dir = -1
	default:
		return nil, nil, fmt.Errorf("direction must be next or prev, got %q", args.Direction)
	}
	if err := s.ctl.Cycle(dir); err != nil {
		return nil, nil, err
	}
	if dir < 0 {
		return textResult("Focused the previous window"), nil, nil
	}
	return textResult("Focused the next window"), nil, nil
}

func (s *Server) handlePromoteSelection(_ context.Context, _ *mcpsdk.CallToolRequest, _ PromoteSelectionInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.ctl.Promote(); err != nil {
		return nil, nil, err
	}
	return textResult("Promoted the focused window to master"), nil, nil
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, any, error) {
	layout := strings.TrimSpace(args.Layout)
	if layout == "" {
		return nil, nil, fmt.Errorf("layout is required")
	}
	err := s.ctl.SetLayout(ipc.LayoutPayload{
		Layout:      layout,
		Monitor:     args.Monitor,
		MasterCount: args.MasterCount,
		SplitRatio:  args.SplitRatio,
		Gap:         args.Gap,
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Debug().Str("layout", layout).Msg("set_layout")
	return textResult("Layout set to %s", layout), nil, nil
}
