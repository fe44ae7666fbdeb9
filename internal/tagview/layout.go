package tagview

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagwm/internal/tiling"
)

// Layout returns the active layout with its current configuration.
func (tv *Tagview) Layout() tiling.Layout {
	return tv.layouts[tv.active]
}

// LayoutConfig returns the stored configuration for kind.
func (tv *Tagview) LayoutConfig(kind tiling.Kind) tiling.Layout {
	return tv.layouts[kind]
}

// SetLayout makes kind the active layout.
func (tv *Tagview) SetLayout(kind tiling.Kind) error {
	if _, ok := tv.layouts[kind]; !ok {
		return fmt.Errorf("%s: unknown layout %q", tv, kind)
	}
	tv.active = kind
	return nil
}

// CycleLayout activates the next (delta > 0) or previous layout variant.
func (tv *Tagview) CycleLayout(delta int) tiling.Kind {
	idx := 0
	for i, k := range tiling.Kinds {
		if k == tv.active {
			idx = i
			break
		}
	}
	n := len(tiling.Kinds)
	idx = ((idx+delta)%n + n) % n
	tv.active = tiling.Kinds[idx]
	return tv.active
}

// SetLayoutConfig replaces the configuration of the layout's variant. An
// invalid configuration is rejected and the previous one kept. It does not
// change which layout is active.
func (tv *Tagview) SetLayoutConfig(l tiling.Layout) error {
	if l == nil {
		return fmt.Errorf("%s: %w: nil layout", tv, tiling.ErrInvalidLayoutConfig)
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("%s: %w", tv, err)
	}
	tv.layouts[l.Kind()] = l
	return nil
}

// AdjustMasterCount changes the two-column master count by delta, stopping
// at zero.
func (tv *Tagview) AdjustMasterCount(delta int) int {
	cfg := tv.twoColumns()
	cfg.MasterCount = max(cfg.MasterCount+delta, 0)
	tv.layouts[tiling.KindTwoColumns] = cfg
	return cfg.MasterCount
}

// AdjustSplitRatio changes the two-column split ratio by delta. Results
// outside [MinSplitRatio, MaxSplitRatio] are rejected.
func (tv *Tagview) AdjustSplitRatio(delta float64) error {
	cfg := tv.twoColumns()
	ratio := math.Round((cfg.SplitRatio+delta)*1000) / 1000
	if ratio < tiling.MinSplitRatio || ratio > tiling.MaxSplitRatio {
		return fmt.Errorf("%s: %w: split ratio %v outside [%v, %v]",
			tv, tiling.ErrInvalidLayoutConfig, ratio, tiling.MinSplitRatio, tiling.MaxSplitRatio)
	}
	cfg.SplitRatio = ratio
	tv.layouts[tiling.KindTwoColumns] = cfg
	return nil
}

func (tv *Tagview) twoColumns() tiling.TwoColumns {
	if cfg, ok := tv.layouts[tiling.KindTwoColumns].(tiling.TwoColumns); ok {
		return cfg
	}
	return tiling.Default(tiling.KindTwoColumns).(tiling.TwoColumns)
}
