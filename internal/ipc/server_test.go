package ipc

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
)

type fakeHandler struct {
	mu      sync.Mutex
	actions []wm.Action
	views   []string
	layouts []LayoutPayload
	fail    error
}

func (h *fakeHandler) Status() wm.Status {
	return wm.Status{
		ActiveMonitor: 0,
		Monitors: []wm.MonitorStatus{
			{ID: 0, Screen: platform.Rect{Width: 1920, Height: 1080}, Tagview: 2, Active: true},
		},
		Tagviews: []wm.TagviewStatus{{Index: 2, Name: "3", Layout: "grid"}},
	}
}

func (h *fakeHandler) Do(a wm.Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail != nil {
		return h.fail
	}
	h.actions = append(h.actions, a)
	return nil
}

func (h *fakeHandler) View(monitor *int, tagview int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	mon := "active"
	if monitor != nil {
		mon = fmt.Sprint(*monitor)
	}
	h.views = append(h.views, fmt.Sprintf("%s:%d", mon, tagview))
	return nil
}

func (h *fakeHandler) SetLayout(p LayoutPayload) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts = append(h.layouts, p)
	return nil
}

func startServer(t *testing.T, h Handler, exec Executor) *Client {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("TAGWM_SOCKET", "")

	if exec == nil {
		exec = func(fn func()) error {
			fn()
			return nil
		}
	}
	srv, err := NewServer(h, exec, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClient()
}

func TestServer_StatusRoundTrip(t *testing.T) {
	client := startServer(t, &fakeHandler{}, nil)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Monitors) != 1 || status.Monitors[0].Tagview != 2 {
		t.Fatalf("unexpected monitors %+v", status.Monitors)
	}
	if status.Tagviews[0].Layout != "grid" {
		t.Fatalf("expected grid layout, got %q", status.Tagviews[0].Layout)
	}

	monitors, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if monitors.Monitors[0].Screen.Width != 1920 {
		t.Fatalf("expected width 1920, got %d", monitors.Monitors[0].Screen.Width)
	}
}

func TestServer_ActionsReachHandler(t *testing.T) {
	h := &fakeHandler{}
	client := startServer(t, h, nil)

	calls := []func() error{
		func() error { return client.Send(4) },
		func() error { return client.Cycle(-1) },
		func() error { return client.Cycle(1) },
		func() error { return client.FocusMonitor(1) },
		client.Promote,
		client.ToggleFloating,
		client.Kill,
		client.Reload,
		client.Quit,
	}
	for i, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	names := make([]string, 0, len(h.actions))
	for _, a := range h.actions {
		names = append(names, a.String())
	}
	want := []string{
		"send:5",
		wm.ActionFocusPrev,
		wm.ActionFocusNext,
		wm.ActionFocusMonitorNext,
		wm.ActionZoom,
		wm.ActionToggleFloating,
		wm.ActionKill,
		wm.ActionReload,
		wm.ActionQuit,
	}
	if !slices.Equal(names, want) {
		t.Fatalf("actions = %v, want %v", names, want)
	}
}

func TestServer_ViewAndLayout(t *testing.T) {
	h := &fakeHandler{}
	client := startServer(t, h, nil)

	mon := 1
	if err := client.View(0, nil); err != nil {
		t.Fatalf("view: %v", err)
	}
	if err := client.View(3, &mon); err != nil {
		t.Fatalf("view on monitor: %v", err)
	}
	if want := []string{"active:0", "1:3"}; !slices.Equal(h.views, want) {
		t.Fatalf("views = %v, want %v", h.views, want)
	}

	ratio := 0.6
	if err := client.SetLayout(LayoutPayload{Layout: "two-columns", SplitRatio: &ratio}); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if len(h.layouts) != 1 || h.layouts[0].Layout != "two-columns" {
		t.Fatalf("unexpected layouts %+v", h.layouts)
	}
	if got := *h.layouts[0].SplitRatio; math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("split ratio = %v, want 0.6", got)
	}
}

func TestServer_ErrorsBecomeErrorResponses(t *testing.T) {
	h := &fakeHandler{fail: errors.New("tagview 40: not found")}
	client := startServer(t, h, nil)

	if err := client.Send(39); err == nil || !strings.Contains(err.Error(), "tagview 40: not found") {
		t.Fatalf("expected handler error, got %v", err)
	}
	if _, err := client.sendRequest("DANCE", nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := client.sendRequest(CommandView, nil); err == nil || !strings.Contains(err.Error(), "missing payload") {
		t.Fatalf("expected missing payload error, got %v", err)
	}
}

func TestServer_ClosedLoop(t *testing.T) {
	client := startServer(t, &fakeHandler{}, func(func()) error { return ErrLoopClosed })

	if _, err := client.GetStatus(); err == nil || !strings.Contains(err.Error(), ErrLoopClosed.Error()) {
		t.Fatalf("expected %v, got %v", ErrLoopClosed, err)
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"VIEW","payload":{"tagview":2}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Command != CommandView {
		t.Fatalf("command = %q, want %q", req.Command, CommandView)
	}
	for _, bad := range []string{`{"payload":{}}`, `not json`} {
		if _, err := ParseRequest([]byte(bad)); err == nil {
			t.Fatalf("expected %s to fail", bad)
		}
	}
}
