package daemon

import (
	"testing"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/tiling"
)

func TestLayoutFromPayload(t *testing.T) {
	two := tiling.TwoColumns{MasterCount: 1, SplitRatio: 0.5}
	master, ratio, gap := 2, 0.7, 6

	l, err := layoutFromPayload(two, tiling.KindTwoColumns, ipc.LayoutPayload{Layout: "two-columns"})
	if err != nil || l != nil {
		t.Fatalf("plain switch should carry no config, got %v, %v", l, err)
	}

	l, err = layoutFromPayload(two, tiling.KindTwoColumns, ipc.LayoutPayload{MasterCount: &master})
	if err != nil || l != (tiling.TwoColumns{MasterCount: 2, SplitRatio: 0.5}) {
		t.Fatalf("master count: got %v, %v", l, err)
	}

	l, err = layoutFromPayload(two, tiling.KindTwoColumns, ipc.LayoutPayload{SplitRatio: &ratio})
	if err != nil || l != (tiling.TwoColumns{MasterCount: 1, SplitRatio: 0.7}) {
		t.Fatalf("split ratio: got %v, %v", l, err)
	}

	if _, err := layoutFromPayload(two, tiling.KindTwoColumns, ipc.LayoutPayload{Gap: &gap}); err == nil {
		t.Fatalf("expected gap on two-columns to fail")
	}

	l, err = layoutFromPayload(nil, tiling.KindGrid, ipc.LayoutPayload{Gap: &gap})
	if err != nil {
		t.Fatalf("grid gap: %v", err)
	}
	if grid, ok := l.(tiling.Grid); !ok || grid.Gap != 6 {
		t.Fatalf("expected grid with gap 6, got %#v", l)
	}

	if _, err := layoutFromPayload(tiling.Grid{}, tiling.KindGrid, ipc.LayoutPayload{MasterCount: &master}); err == nil {
		t.Fatalf("expected master count on grid to fail")
	}
}
