package tagview

import (
	"testing"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/selectlist"
	"github.com/1broseidon/tagwm/internal/tiling"
	"github.com/stretchr/testify/require"
)

func newClient(w platform.WindowID) *client.Client {
	return client.New(w, platform.Rect{Width: 100, Height: 100}, 0)
}

func TestAttach_InsertsBeforeSelectionAndSelects(t *testing.T) {
	tv := New(0, "1")
	a, b, c := newClient(1), newClient(2), newClient(3)

	tv.Attach(a)
	require.Equal(t, []*client.Client{a}, tv.Clients())

	tv.Attach(b)
	require.Equal(t, []*client.Client{b, a}, tv.Clients())

	require.NoError(t, tv.Select(a))
	tv.Attach(c)
	require.Equal(t, []*client.Client{b, c, a}, tv.Clients())
	sel, ok := tv.Selected()
	require.True(t, ok)
	require.Same(t, c, sel)
}

func TestAttachFront(t *testing.T) {
	tv := New(0, "1")
	a, b := newClient(1), newClient(2)
	tv.Attach(a)
	tv.AttachFront(b)
	require.Equal(t, []*client.Client{b, a}, tv.Clients())
	sel, _ := tv.Selected()
	require.Same(t, b, sel)
}

func TestDetach_ReassignsSelection(t *testing.T) {
	tv := New(0, "1")
	a, b := newClient(1), newClient(2)
	tv.Attach(a)
	tv.Attach(b) // [b a], b selected
	require.NoError(t, tv.Detach(b))
	sel, ok := tv.Selected()
	require.True(t, ok)
	require.Same(t, a, sel)

	require.ErrorIs(t, tv.Detach(b), selectlist.ErrNotFound)
}

func TestMoveTo(t *testing.T) {
	src, dst := New(0, "1"), New(1, "2")
	a, b, c := newClient(1), newClient(2), newClient(3)
	src.Attach(a)
	src.Attach(b)
	src.Attach(c) // [c b a], c selected

	require.NoError(t, src.MoveTo(dst, c))
	require.Equal(t, 2, src.Len())
	require.Equal(t, 1, dst.Len())

	sel, _ := src.Selected()
	require.Same(t, b, sel, "source selection follows removal rules")
	dsel, _ := dst.Selected()
	require.Same(t, c, dsel)

	require.ErrorIs(t, src.MoveTo(dst, c), selectlist.ErrNotFound)
	require.Equal(t, 1, dst.Len())
}

func TestPromoteToMaster(t *testing.T) {
	tv := New(0, "1")
	a, b, c := newClient(1), newClient(2), newClient(3)
	tv.Attach(a)
	tv.Attach(b)
	tv.Attach(c) // [c b a]

	require.NoError(t, tv.PromoteToMaster(a))
	require.Equal(t, []*client.Client{a, b, c}, tv.Clients())
	sel, _ := tv.Selected()
	require.Same(t, a, sel)

	require.NoError(t, tv.PromoteToMaster(a), "promoting the master is a no-op")
	require.Equal(t, []*client.Client{a, b, c}, tv.Clients())
}

func TestPromoteToMaster_NoOps(t *testing.T) {
	tv := New(0, "1")
	a, b := newClient(1), newClient(2)
	tv.Attach(a)
	tv.Attach(b) // [b a]

	a.Floating = true
	require.NoError(t, tv.PromoteToMaster(a))
	require.Equal(t, []*client.Client{b, a}, tv.Clients())

	a.Floating = false
	require.NoError(t, tv.SetLayout(tiling.KindGrid))
	require.NoError(t, tv.PromoteToMaster(a))
	require.Equal(t, []*client.Client{b, a}, tv.Clients())

	require.ErrorIs(t, tv.PromoteToMaster(newClient(9)), selectlist.ErrNotFound)
}

func TestPromoteToMaster_SkipsFloatingHead(t *testing.T) {
	tv := New(0, "1")
	a, b, f := newClient(1), newClient(2), newClient(3)
	tv.Attach(a)
	tv.Attach(b)
	f.Floating = true
	tv.AttachFront(f) // [f b a]

	require.NoError(t, tv.PromoteToMaster(a))
	require.Equal(t, []*client.Client{f, a, b}, tv.Clients())
}

func TestSetLayoutConfig_RejectsAndRetains(t *testing.T) {
	tv := New(0, "1")
	require.NoError(t, tv.SetLayoutConfig(tiling.TwoColumns{MasterCount: 2, SplitRatio: 0.6}))

	err := tv.SetLayoutConfig(tiling.TwoColumns{MasterCount: 1, SplitRatio: 1.0})
	require.ErrorIs(t, err, tiling.ErrInvalidLayoutConfig)
	require.Equal(t, tiling.TwoColumns{MasterCount: 2, SplitRatio: 0.6}, tv.Layout())
}

func TestAdjustMasterCountAndSplitRatio(t *testing.T) {
	tv := New(0, "1")
	require.Equal(t, 2, tv.AdjustMasterCount(1))
	require.Equal(t, 0, tv.AdjustMasterCount(-5))

	require.NoError(t, tv.AdjustSplitRatio(0.05))
	require.InDelta(t, 0.55, tv.Layout().(tiling.TwoColumns).SplitRatio, 1e-9)

	require.ErrorIs(t, tv.AdjustSplitRatio(0.5), tiling.ErrInvalidLayoutConfig)
	require.InDelta(t, 0.55, tv.Layout().(tiling.TwoColumns).SplitRatio, 1e-9)
}

func TestCycleLayout(t *testing.T) {
	tv := New(0, "1")
	require.Equal(t, tiling.KindGrid, tv.CycleLayout(1))
	require.Equal(t, tiling.KindTwoColumns, tv.CycleLayout(1))
	require.Equal(t, tiling.KindGrid, tv.CycleLayout(-1))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry([]string{"web", "code", "chat"}, tiling.Grid{Gap: 2})
	require.Equal(t, 3, r.Len())

	tv, err := r.Get(1)
	require.NoError(t, err)
	require.Equal(t, "code", tv.Name)
	require.Equal(t, tiling.KindGrid, tv.Layout().Kind())
	require.True(t, r.Has(tv))
	require.False(t, r.Has(New(1, "code")))

	_, err = r.Get(3)
	require.ErrorIs(t, err, selectlist.ErrNotFound)

	c := newClient(7)
	tv.Attach(c)
	owner, ok := r.Owner(c)
	require.True(t, ok)
	require.Same(t, tv, owner)
}
