package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// PublishDesktops advertises tagviews as EWMH desktops so pagers and bars can
// show them.
func (c *Connection) PublishDesktops(names []string) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set desktop names: %w", err)
	}
	return nil
}

// SetCurrentDesktop sets _NET_CURRENT_DESKTOP.
func (c *Connection) SetCurrentDesktop(desktop int) error {
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(desktop)); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	return nil
}

// SetWindowDesktop sets _NET_WM_DESKTOP on a managed window.
func (c *Connection) SetWindowDesktop(windowID xproto.Window, desktop int) error {
	if err := ewmh.WmDesktopSet(c.XUtil, windowID, uint(desktop)); err != nil {
		return fmt.Errorf("failed to set window desktop: %w", err)
	}
	return nil
}
