package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
)

type fakeController struct {
	calls   []string
	layouts []ipc.LayoutPayload
	err     error
}

func (f *fakeController) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeController) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		Status: wm.Status{
			ActiveMonitor: 1,
			Monitors: []wm.MonitorStatus{
				{ID: 0, Tagview: 0},
				{ID: 1, Tagview: 4, Active: true, Screen: platform.Rect{X: 1920, Width: 1280, Height: 1024}},
			},
		},
		UptimeSeconds: 42,
	}, nil
}

func (f *fakeController) GetMonitors() (*ipc.MonitorsData, error) {
	st, err := f.GetStatus()
	if err != nil {
		return nil, err
	}
	return &ipc.MonitorsData{Monitors: st.Monitors}, nil
}

func (f *fakeController) View(tagview int, monitor *int) error {
	if monitor != nil {
		return f.record(fmt.Sprintf("view %d on %d", tagview, *monitor))
	}
	return f.record(fmt.Sprintf("view %d", tagview))
}

func (f *fakeController) Send(tagview int) error {
	return f.record(fmt.Sprintf("send %d", tagview))
}

func (f *fakeController) Cycle(dir int) error {
	if dir < 0 {
		return f.record("cycle prev")
	}
	return f.record("cycle next")
}

func (f *fakeController) Promote() error { return f.record("promote") }

func (f *fakeController) SetLayout(p ipc.LayoutPayload) error {
	f.layouts = append(f.layouts, p)
	return f.record("layout " + p.Layout)
}

func newTestServer(ctl Controller) *Server {
	return NewServer(ctl, zerolog.Nop())
}

func resultText(t *testing.T, res *mcpsdk.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %+v", res)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestGetStatusAndMonitors(t *testing.T) {
	s := newTestServer(&fakeController{})
	ctx := context.Background()

	_, st, err := s.handleGetStatus(ctx, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if st.ActiveMonitor != 1 || st.UptimeSeconds != 42 || len(st.Monitors) != 2 {
		t.Fatalf("unexpected status %+v", st)
	}

	_, mons, err := s.handleListMonitors(ctx, nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("list_monitors: %v", err)
	}
	if mons.Monitors[1].Screen.X != 1920 || mons.Monitors[1].Tagview != 4 {
		t.Fatalf("unexpected monitors %+v", mons.Monitors)
	}
}

func TestTagviewToolsAreOneBased(t *testing.T) {
	ctl := &fakeController{}
	s := newTestServer(ctl)
	ctx := context.Background()
	mon := 1

	res, _, err := s.handleViewTagview(ctx, nil, ViewTagviewInput{Tagview: 3})
	if err != nil {
		t.Fatalf("view_tagview: %v", err)
	}
	if got := resultText(t, res); got != "Showing tagview 3 on the active monitor" {
		t.Fatalf("unexpected text %q", got)
	}
	if _, _, err := s.handleViewTagview(ctx, nil, ViewTagviewInput{Tagview: 2, Monitor: &mon}); err != nil {
		t.Fatalf("view_tagview on monitor: %v", err)
	}
	if _, _, err := s.handleSendToTagview(ctx, nil, SendToTagviewInput{Tagview: 9}); err != nil {
		t.Fatalf("send_to_tagview: %v", err)
	}
	if _, _, err := s.handleViewTagview(ctx, nil, ViewTagviewInput{Tagview: 0}); err == nil {
		t.Fatal("expected tagview 0 to be rejected")
	}

	want := []string{"view 2", "view 1 on 1", "send 8"}
	if len(ctl.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ctl.calls, want)
	}
	for i := range want {
		if ctl.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", ctl.calls, want)
		}
	}
}

func TestCycleFocusDirections(t *testing.T) {
	ctl := &fakeController{}
	s := newTestServer(ctl)
	ctx := context.Background()

	for _, dir := range []string{"", "next", "PREV", "previous"} {
		if _, _, err := s.handleCycleFocus(ctx, nil, CycleFocusInput{Direction: dir}); err != nil {
			t.Fatalf("cycle_focus(%q): %v", dir, err)
		}
	}
	if _, _, err := s.handleCycleFocus(ctx, nil, CycleFocusInput{Direction: "sideways"}); err == nil {
		t.Fatal("expected bad direction to fail")
	}
	want := []string{"cycle next", "cycle next", "cycle prev", "cycle prev"}
	for i := range want {
		if ctl.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", ctl.calls, want)
		}
	}
}

func TestSetLayoutForwardsParameters(t *testing.T) {
	ctl := &fakeController{}
	s := newTestServer(ctl)
	ratio := 0.65

	res, _, err := s.handleSetLayout(context.Background(), nil, SetLayoutInput{Layout: " two-columns ", SplitRatio: &ratio})
	if err != nil {
		t.Fatalf("set_layout: %v", err)
	}
	if got := resultText(t, res); got != "Layout set to two-columns" {
		t.Fatalf("unexpected text %q", got)
	}
	if len(ctl.layouts) != 1 || ctl.layouts[0].Layout != "two-columns" || *ctl.layouts[0].SplitRatio != 0.65 {
		t.Fatalf("unexpected payloads %+v", ctl.layouts)
	}

	if _, _, err := s.handleSetLayout(context.Background(), nil, SetLayoutInput{}); err == nil {
		t.Fatal("expected empty layout to fail")
	}
}

func TestErrorsPropagate(t *testing.T) {
	s := newTestServer(&fakeController{err: errors.New("failed to connect to daemon")})
	ctx := context.Background()

	if _, _, err := s.handleGetStatus(ctx, nil, GetStatusInput{}); err == nil {
		t.Fatal("expected get_status error")
	}
	if _, _, err := s.handlePromoteSelection(ctx, nil, PromoteSelectionInput{}); err == nil {
		t.Fatal("expected promote_selection error")
	}
}
