package wm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"focus_next", Action{Name: ActionFocusNext}},
		{" zoom ", Action{Name: ActionZoom}},
		{"view:1", Action{Name: ActionView, Tagview: 0}},
		{"send:9", Action{Name: ActionSend, Tagview: 8}},
		{"layout:grid", Action{Name: ActionLayout, Layout: tiling.KindGrid}},
		{"spawn:terminal", Action{Name: ActionSpawn, Command: "terminal"}},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "dance", "view:0", "view:x", "layout:spiral", "spawn:", "zoom:1"} {
		_, err := ParseAction(bad)
		require.ErrorIs(t, err, ErrUnknownAction, bad)
	}
}

func TestActionString(t *testing.T) {
	for _, s := range []string{"view:3", "send:1", "layout:two-columns", "spawn:term", "kill"} {
		a, err := ParseAction(s)
		require.NoError(t, err)
		require.Equal(t, s, a.String())
	}
}

func TestSessionDo(t *testing.T) {
	m, be, in := newTestManager(t, 3, screenA, screenB)
	var spawned []string
	quit := false
	s := &Session{WM: m, In: in, Hooks: Hooks{
		Spawn: func(name string) error { spawned = append(spawned, name); return nil },
		Quit:  func() { quit = true },
	}}
	manage(t, m, s.In, 1)
	manage(t, m, s.In, 2)

	do := func(name string) {
		t.Helper()
		a, err := ParseAction(name)
		require.NoError(t, err)
		require.NoError(t, s.Do(a))
	}

	do("focus_next")
	require.Equal(t, platform.WindowID(1), be.focused)
	do("zoom")
	require.Equal(t, []platform.WindowID{1, 2}, windows(tagviewOn(t, m, 0).Clients()))

	do("focus_monitor_next")
	require.Equal(t, 1, s.In.ActiveMonitor)
	do("focus_monitor_prev")
	require.Equal(t, 0, s.In.ActiveMonitor)

	do("view:3")
	require.Equal(t, 2, tagviewOn(t, m, 0).Index)
	do("view:1")
	do("send:3")
	tv, err := m.Tagviews().Get(2)
	require.NoError(t, err)
	require.Equal(t, 1, tv.Len())

	do("layout:grid")
	require.Equal(t, tiling.KindGrid, tagviewOn(t, m, 0).Layout().Kind())
	do("cycle_layout")
	require.Equal(t, tiling.KindTwoColumns, tagviewOn(t, m, 0).Layout().Kind())

	do("spawn:term")
	require.Equal(t, []string{"term"}, spawned)
	do("quit")
	require.True(t, quit)

	a, err := ParseAction("reload")
	require.NoError(t, err)
	require.Error(t, s.Do(a))
}
