package daemon

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// layoutFromPayload applies the parameters of a SET_LAYOUT request to the
// tagview's stored configuration for that layout. It returns nil when the
// request only switches layouts.
func layoutFromPayload(current tiling.Layout, kind tiling.Kind, p ipc.LayoutPayload) (tiling.Layout, error) {
	if current == nil {
		current = tiling.Default(kind)
	}
	switch l := current.(type) {
	case tiling.TwoColumns:
		if p.Gap != nil {
			return nil, fmt.Errorf("gap does not apply to %s", kind)
		}
		if p.MasterCount == nil && p.SplitRatio == nil {
			return nil, nil
		}
		if p.MasterCount != nil {
			l.MasterCount = *p.MasterCount
		}
		if p.SplitRatio != nil {
			l.SplitRatio = *p.SplitRatio
		}
		return l, nil
	case tiling.Grid:
		if p.MasterCount != nil || p.SplitRatio != nil {
			return nil, fmt.Errorf("master_count and split_ratio do not apply to %s", kind)
		}
		if p.Gap == nil {
			return nil, nil
		}
		l.Gap = *p.Gap
		return l, nil
	}
	return nil, fmt.Errorf("layout %s takes no parameters", kind)
}
