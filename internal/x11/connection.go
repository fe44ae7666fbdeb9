package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrOtherWM is returned by BecomeWM when the root window is already
// redirected by someone else.
var ErrOtherWM = errors.New("another window manager is already running")

// RootEventMask is what the window manager selects on the root window.
const RootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// ClientEventMask is what the window manager selects on managed windows.
const ClientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange

// Supported lists the EWMH hints advertised on the root window.
var Supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
	check *xwindow.Window
}

// NewConnection establishes a connection to the X11 server and initializes
// the keyboard and mouse binding modules.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// BecomeWM selects substructure redirection on the root window and
// advertises EWMH support under name.
func (c *Connection) BecomeWM(name string) error {
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root,
		xproto.CwEventMask, []uint32{uint32(RootEventMask)}).Check()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOtherWM, err)
	}

	check, err := xwindow.Create(c.XUtil, c.Root)
	if err != nil {
		return fmt.Errorf("create supporting window: %w", err)
	}
	c.check = check

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return fmt.Errorf("set wm name: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, Supported); err != nil {
		return fmt.Errorf("set supported hints: %w", err)
	}
	return nil
}

// MainPing starts the event loop in its own goroutine. See xevent.MainPing.
func (c *Connection) MainPing() (before, after, quit chan struct{}) {
	return xevent.MainPing(c.XUtil)
}

// Quit stops the event loop started by MainPing.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	if c.check != nil {
		c.check.Destroy()
	}
	_ = ewmh.ActiveWindowSet(c.XUtil, 0)
	c.XUtil.Conn().Close()
}
