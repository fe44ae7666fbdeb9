package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Geometry is a window's position, size and border as reported by the server.
type Geometry struct {
	X, Y          int
	Width, Height int
	Border        int
}

// WindowGeometry reads the geometry of windowID.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry of 0x%x: %w", windowID, err)
	}
	return Geometry{
		X:      int(geom.X),
		Y:      int(geom.Y),
		Width:  int(geom.Width),
		Height: int(geom.Height),
		Border: int(geom.BorderWidth),
	}, nil
}

// OverrideRedirect reports whether windowID asked to bypass the window
// manager. Unreadable windows count as override-redirect.
func (c *Connection) OverrideRedirect(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return true
	}
	return attrs.OverrideRedirect
}

// SelectClientInput selects the events the manager needs on a managed window.
func (c *Connection) SelectClientInput(windowID xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), windowID,
		xproto.CwEventMask, []uint32{uint32(ClientEventMask)}).Check()
}

// IsNormalWindow checks if a window is an application window the manager
// should tile. Docks, desktops, splashes and notifications are left alone.
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return true
}

// ExistingWindows returns the top-level windows that were mapped before the
// manager started: ordinary windows first, then transients, so parents are
// managed before their dialogs.
func (c *Connection) ExistingWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}

	var normal, transient []xproto.Window
	for _, w := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), w).Reply()
		if err != nil || attrs.OverrideRedirect {
			continue
		}
		if !c.viewableOrIconic(w, attrs) {
			continue
		}
		if _, err := icccm.WmTransientForGet(c.XUtil, w); err == nil {
			transient = append(transient, w)
		} else {
			normal = append(normal, w)
		}
	}
	return append(normal, transient...), nil
}

func (c *Connection) viewableOrIconic(w xproto.Window, attrs *xproto.GetWindowAttributesReply) bool {
	if attrs.MapState == xproto.MapStateViewable {
		return true
	}
	state, err := icccm.WmStateGet(c.XUtil, w)
	return err == nil && state.State == icccm.StateIconic
}

// ForwardConfigureRequest applies a configure request from a window the
// manager does not track, exactly as asked.
func (c *Connection) ForwardConfigureRequest(ev xproto.ConfigureRequestEvent) error {
	var values []uint32
	mask := ev.ValueMask
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(ev.X))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(ev.Y))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(ev.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(ev.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(ev.StackMode))
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), ev.Window, mask, values).Check()
}

// MapUnmanaged maps a window the manager leaves alone, such as a dock.
func (c *Connection) MapUnmanaged(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}
