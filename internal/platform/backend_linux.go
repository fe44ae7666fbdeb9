//go:build linux

package platform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/1broseidon/tagwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// BorderColors are the border pixels for unfocused and focused windows.
type BorderColors struct {
	Normal  uint32
	Focused uint32
}

// LinuxBackend implements Backend on top of an X11 connection.
type LinuxBackend struct {
	conn   *x11.Connection
	colors BorderColors
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, colors BorderColors) *LinuxBackend {
	return &LinuxBackend{conn: conn, colors: colors}
}

// SetBorderColors replaces the border pixels used from now on.
func (b *LinuxBackend) SetBorderColors(colors BorderColors) {
	b.colors = colors
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Screens returns the monitor rectangles, minus dock struts when
// respectStruts is set.
func (b *LinuxBackend) Screens(respectStruts bool) ([]Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.Screens(respectStruts)
	if err != nil {
		return nil, err
	}
	rects := make([]Rect, 0, len(monitors))
	for _, m := range monitors {
		rects = append(rects, Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}
	return rects, nil
}

// MoveResize applies geometry and border width, then tells the client its new
// geometry with a synthetic ConfigureNotify.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect, border int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth)
	values := []uint32{
		uint32(bounds.X),
		uint32(bounds.Y),
		uint32(max(bounds.Width, 1)),
		uint32(max(bounds.Height, 1)),
		uint32(max(border, 0)),
	}
	if err := xproto.ConfigureWindowChecked(conn.XUtil.Conn(), xproto.Window(windowID), mask, values).Check(); err != nil {
		return fmt.Errorf("configure 0x%x: %w", uint32(windowID), err)
	}
	return b.Configure(windowID, bounds, border)
}

// Configure sends a synthetic ConfigureNotify describing bounds.
func (b *LinuxBackend) Configure(windowID WindowID, bounds Rect, border int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	ev := xproto.ConfigureNotifyEvent{
		Event:            xproto.Window(windowID),
		Window:           xproto.Window(windowID),
		AboveSibling:     xproto.WindowNone,
		X:                int16(bounds.X),
		Y:                int16(bounds.Y),
		Width:            uint16(max(bounds.Width, 1)),
		Height:           uint16(max(bounds.Height, 1)),
		BorderWidth:      uint16(max(border, 0)),
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(
		conn.XUtil.Conn(),
		false,
		xproto.Window(windowID),
		xproto.EventMaskStructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Show maps a window and marks it NormalState.
func (b *LinuxBackend) Show(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := xproto.MapWindowChecked(conn.XUtil.Conn(), xproto.Window(windowID)).Check(); err != nil {
		return fmt.Errorf("map 0x%x: %w", uint32(windowID), err)
	}
	return icccm.WmStateSet(conn.XUtil, xproto.Window(windowID), &icccm.WmState{State: icccm.StateNormal})
}

// Hide unmaps a window and marks it IconicState.
func (b *LinuxBackend) Hide(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := xproto.UnmapWindowChecked(conn.XUtil.Conn(), xproto.Window(windowID)).Check(); err != nil {
		return fmt.Errorf("unmap 0x%x: %w", uint32(windowID), err)
	}
	return icccm.WmStateSet(conn.XUtil, xproto.Window(windowID), &icccm.WmState{State: icccm.StateIconic})
}

// Focus gives input focus to a window, or returns it to the root when
// windowID is None. Clients that speak WM_TAKE_FOCUS are told as well.
func (b *LinuxBackend) Focus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	if windowID == None {
		if err := xproto.SetInputFocusChecked(conn.XUtil.Conn(), xproto.InputFocusPointerRoot,
			conn.Root, xproto.TimeCurrentTime).Check(); err != nil {
			return fmt.Errorf("focus root: %w", err)
		}
		return ewmh.ActiveWindowSet(conn.XUtil, 0)
	}

	win := xproto.Window(windowID)
	if err := xproto.SetInputFocusChecked(conn.XUtil.Conn(), xproto.InputFocusPointerRoot,
		win, xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("focus 0x%x: %w", uint32(windowID), err)
	}
	if err := ewmh.ActiveWindowSet(conn.XUtil, win); err != nil {
		return err
	}
	if b.supportsProtocol(win, "WM_TAKE_FOCUS") {
		return b.sendProtocol(win, "WM_TAKE_FOCUS")
	}
	return nil
}

// SizeHints reads WM_NORMAL_HINTS.
func (b *LinuxBackend) SizeHints(windowID WindowID) (SizeHints, error) {
	conn, err := b.connection()
	if err != nil {
		return SizeHints{}, err
	}
	nh, err := icccm.WmNormalHintsGet(conn.XUtil, xproto.Window(windowID))
	if err != nil {
		// Absent hints are not an error for the caller.
		return SizeHints{}, nil
	}

	var sh SizeHints
	if nh.Flags&icccm.SizeHintPBaseSize != 0 {
		sh.HasBase = true
		sh.BaseWidth, sh.BaseHeight = int(nh.BaseWidth), int(nh.BaseHeight)
	}
	if nh.Flags&icccm.SizeHintPMinSize != 0 {
		sh.HasMin = true
		sh.MinWidth, sh.MinHeight = int(nh.MinWidth), int(nh.MinHeight)
	}
	if nh.Flags&icccm.SizeHintPMaxSize != 0 {
		sh.HasMax = true
		sh.MaxWidth, sh.MaxHeight = int(nh.MaxWidth), int(nh.MaxHeight)
	}
	if nh.Flags&icccm.SizeHintPResizeInc != 0 {
		sh.HasInc = true
		sh.WidthInc, sh.HeightInc = int(nh.WidthInc), int(nh.HeightInc)
	}
	if nh.Flags&icccm.SizeHintPAspect != 0 {
		sh.HasAspect = true
		sh.MinAspectNum, sh.MinAspectDen = int(nh.MinAspectNum), int(nh.MinAspectDen)
		sh.MaxAspectNum, sh.MaxAspectDen = int(nh.MaxAspectNum), int(nh.MaxAspectDen)
	}
	return sh, nil
}

// WMHints reads urgency and input focus hints from WM_HINTS.
func (b *LinuxBackend) WMHints(windowID WindowID) (WMHints, error) {
	conn, err := b.connection()
	if err != nil {
		return WMHints{}, err
	}
	h, err := icccm.WmHintsGet(conn.XUtil, xproto.Window(windowID))
	if err != nil {
		return WMHints{}, nil
	}
	return WMHints{
		Urgent:   h.Flags&icccm.HintUrgency != 0,
		HasInput: h.Flags&icccm.HintInput != 0,
		Input:    h.Input != 0,
	}, nil
}

// Properties reads the title, window type and initial fullscreen state.
func (b *LinuxBackend) Properties(windowID WindowID) (Properties, error) {
	conn, err := b.connection()
	if err != nil {
		return Properties{}, err
	}
	win := xproto.Window(windowID)

	props := Properties{Name: b.windowTitle(win)}
	if types, err := ewmh.WmWindowTypeGet(conn.XUtil, win); err == nil {
		props.Dialog = slices.Contains(types, "_NET_WM_WINDOW_TYPE_DIALOG")
	}
	if states, err := ewmh.WmStateGet(conn.XUtil, win); err == nil {
		props.Fullscreen = slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
	}
	return props, nil
}

// TransientFor returns WM_TRANSIENT_FOR, or None when unset.
func (b *LinuxBackend) TransientFor(windowID WindowID) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return None, err
	}
	parent, err := icccm.WmTransientForGet(conn.XUtil, xproto.Window(windowID))
	if err != nil {
		return None, nil
	}
	return WindowID(parent), nil
}

// SetBorderColor paints the window border.
func (b *LinuxBackend) SetBorderColor(windowID WindowID, focused bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	pixel := b.colors.Normal
	if focused {
		pixel = b.colors.Focused
	}
	return xproto.ChangeWindowAttributesChecked(conn.XUtil.Conn(), xproto.Window(windowID),
		xproto.CwBorderPixel, []uint32{pixel}).Check()
}

// SetClientList publishes _NET_CLIENT_LIST.
func (b *LinuxBackend) SetClientList(ids []WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	wins := make([]xproto.Window, len(ids))
	for i, id := range ids {
		wins[i] = xproto.Window(id)
	}
	return ewmh.ClientListSet(conn.XUtil, wins)
}

// Raise puts a window on top of the stack.
func (b *LinuxBackend) Raise(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return xproto.ConfigureWindowChecked(conn.XUtil.Conn(), xproto.Window(windowID),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

// Close requests graceful window close via WM_DELETE_WINDOW, and kills the
// client when it does not support the protocol.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	win := xproto.Window(windowID)
	if b.supportsProtocol(win, "WM_DELETE_WINDOW") {
		return b.sendProtocol(win, "WM_DELETE_WINDOW")
	}
	return xproto.KillClientChecked(conn.XUtil.Conn(), uint32(win)).Check()
}

func (b *LinuxBackend) supportsProtocol(win xproto.Window, proto string) bool {
	protocols, err := icccm.WmProtocolsGet(b.conn.XUtil, win)
	if err != nil {
		return false
	}
	return slices.Contains(protocols, proto)
}

func (b *LinuxBackend) sendProtocol(win xproto.Window, proto string) error {
	xu := b.conn.XUtil
	protoAtom, err := xprop.Atm(xu, proto)
	if err != nil {
		return err
	}
	protocolsAtom, err := xprop.Atm(xu, "WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(protoAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		xu.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func (b *LinuxBackend) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return "broken"
}
