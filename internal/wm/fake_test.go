package wm

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/monitor"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tagview"
)

// fakeBackend records every call and serves canned window properties.
type fakeBackend struct {
	calls    []string
	geometry map[platform.WindowID]platform.Rect
	visible  map[platform.WindowID]bool
	focused  platform.WindowID
	borders  map[platform.WindowID]bool

	hints      map[platform.WindowID]platform.SizeHints
	wmHints    map[platform.WindowID]platform.WMHints
	props      map[platform.WindowID]platform.Properties
	transients map[platform.WindowID]platform.WindowID

	clientList []platform.WindowID
	closed     []platform.WindowID
	configured []platform.WindowID
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		geometry:   make(map[platform.WindowID]platform.Rect),
		visible:    make(map[platform.WindowID]bool),
		borders:    make(map[platform.WindowID]bool),
		hints:      make(map[platform.WindowID]platform.SizeHints),
		wmHints:    make(map[platform.WindowID]platform.WMHints),
		props:      make(map[platform.WindowID]platform.Properties),
		transients: make(map[platform.WindowID]platform.WindowID),
	}
}

func (f *fakeBackend) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect, border int) error {
	f.record("move %d", id)
	f.geometry[id] = r
	return nil
}

func (f *fakeBackend) Show(id platform.WindowID) error {
	f.record("show %d", id)
	f.visible[id] = true
	return nil
}

func (f *fakeBackend) Hide(id platform.WindowID) error {
	f.record("hide %d", id)
	f.visible[id] = false
	return nil
}

func (f *fakeBackend) Focus(id platform.WindowID) error {
	f.record("focus %d", id)
	f.focused = id
	return nil
}

func (f *fakeBackend) SizeHints(id platform.WindowID) (platform.SizeHints, error) {
	return f.hints[id], nil
}

func (f *fakeBackend) WMHints(id platform.WindowID) (platform.WMHints, error) {
	return f.wmHints[id], nil
}

func (f *fakeBackend) Properties(id platform.WindowID) (platform.Properties, error) {
	return f.props[id], nil
}

func (f *fakeBackend) TransientFor(id platform.WindowID) (platform.WindowID, error) {
	return f.transients[id], nil
}

func (f *fakeBackend) Configure(id platform.WindowID, r platform.Rect, border int) error {
	f.configured = append(f.configured, id)
	return nil
}

func (f *fakeBackend) SetBorderColor(id platform.WindowID, focused bool) error {
	f.borders[id] = focused
	return nil
}

func (f *fakeBackend) SetClientList(ids []platform.WindowID) error {
	f.clientList = append([]platform.WindowID(nil), ids...)
	return nil
}

func (f *fakeBackend) Raise(id platform.WindowID) error {
	f.record("raise %d", id)
	return nil
}

func (f *fakeBackend) Close(id platform.WindowID) error {
	f.closed = append(f.closed, id)
	return nil
}

var (
	screenA = platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	screenB = platform.Rect{X: 1000, Y: 0, Width: 800, Height: 600}
)

// newTestManager returns a manager with n tagviews, border 0 and one monitor
// per screen.
func newTestManager(t *testing.T, tagviews int, screens ...platform.Rect) (*Manager, *fakeBackend, Input) {
	t.Helper()
	names := make([]string, tagviews)
	for i := range names {
		names[i] = fmt.Sprint(i + 1)
	}
	be := newFakeBackend()
	m := New(be, tagview.NewRegistry(names), Settings{Snap: 32}, zerolog.Nop())
	in, err := m.MonitorTopologyChanged(Input{}, screens)
	require.NoError(t, err)
	return m, be, in
}

func manage(t *testing.T, m *Manager, in Input, w platform.WindowID) *client.Client {
	t.Helper()
	id, err := m.ClientCreated(in, w, platform.Rect{X: 10, Y: 10, Width: 200, Height: 100}, 1)
	require.NoError(t, err)
	c, err := m.Client(id)
	require.NoError(t, err)
	return c
}

func windows(clients []*client.Client) []platform.WindowID {
	out := make([]platform.WindowID, len(clients))
	for i, c := range clients {
		out[i] = c.Window
	}
	return out
}

func tagviewOn(t *testing.T, m *Manager, monID int) *tagview.Tagview {
	t.Helper()
	mon, err := m.Monitor(monID)
	require.NoError(t, err)
	return mon.Tagview()
}

func requireEachTagviewShownOnce(t *testing.T, m *Manager) {
	t.Helper()
	seen := map[*tagview.Tagview]*monitor.Monitor{}
	for _, mon := range m.Monitors() {
		tv := mon.Tagview()
		require.NotNil(t, tv, "%s shows nothing", mon)
		prev, dup := seen[tv]
		require.False(t, dup, "%s shown on %s and %s", tv, prev, mon)
		seen[tv] = mon
	}
}
