package events

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagwm/internal/wm"
)

// MotionInterval is the minimum spacing, in X server milliseconds, between
// two motion events that are acted upon.
const MotionInterval = 1000 / 60

// Classify sorts an X event into the class the window manager uses to decide
// whether it may run during a pointer drag. Only map requests, configure
// requests and exposes are structural; notifications such as destroy, unmap
// and root reconfiguration wait until the drag ends.
func Classify(ev interface{}) wm.EventClass {
	switch ev.(type) {
	case xproto.MapRequestEvent, xproto.ConfigureRequestEvent, xproto.ExposeEvent:
		return wm.EventStructural
	case xproto.MotionNotifyEvent, xproto.ButtonPressEvent, xproto.ButtonReleaseEvent:
		return wm.EventPointer
	}
	return wm.EventOther
}

// motionThrottle drops motion events that arrive faster than MotionInterval.
type motionThrottle struct {
	last xproto.Timestamp
	seen bool
}

func (t *motionThrottle) allow(ts xproto.Timestamp) bool {
	// Server time wraps; a jump backwards counts as a fresh start.
	if t.seen && ts >= t.last && ts-t.last <= MotionInterval {
		return false
	}
	t.last, t.seen = ts, true
	return true
}

// _NET_WM_STATE client message actions.
const (
	netWMStateRemove = 0
	netWMStateAdd    = 1
	netWMStateToggle = 2
)

// wantFullscreen resolves a _NET_WM_STATE action against the current state.
func wantFullscreen(action uint32, current bool) bool {
	switch action {
	case netWMStateAdd:
		return true
	case netWMStateRemove:
		return false
	case netWMStateToggle:
		return !current
	}
	return current
}

// hintForProperty maps a changed property name to the hint it affects.
func hintForProperty(name string) (wm.HintKind, bool) {
	switch name {
	case "WM_NORMAL_HINTS":
		return wm.HintNormal, true
	case "WM_HINTS":
		return wm.HintWM, true
	case "WM_TRANSIENT_FOR":
		return wm.HintTransient, true
	case "WM_NAME", "_NET_WM_NAME":
		return wm.HintName, true
	}
	return 0, false
}

// isStrutProperty reports whether a property change can move a dock's
// reserved space.
func isStrutProperty(name string) bool {
	return name == "_NET_WM_STRUT_PARTIAL" || name == "_NET_WM_STRUT"
}

func configureMask(valueMask uint16) wm.ConfigureMask {
	var mask wm.ConfigureMask
	if valueMask&xproto.ConfigWindowX != 0 {
		mask |= wm.ConfigureX
	}
	if valueMask&xproto.ConfigWindowY != 0 {
		mask |= wm.ConfigureY
	}
	if valueMask&xproto.ConfigWindowWidth != 0 {
		mask |= wm.ConfigureWidth
	}
	if valueMask&xproto.ConfigWindowHeight != 0 {
		mask |= wm.ConfigureHeight
	}
	if valueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= wm.ConfigureBorder
	}
	return mask
}
