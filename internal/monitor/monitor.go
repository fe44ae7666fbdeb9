// Package monitor binds a screen region to the tagview it displays.
package monitor

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tagview"
)

// Chrome is the strip reserved for a bar along the top or bottom edge.
type Chrome struct {
	Height  int
	Top     bool
	Visible bool
}

// Renderer is what a monitor asks of the window manager when its tagview
// changes or its geometry moves.
type Renderer interface {
	HideClients(tv *tagview.Tagview)
	ShowClients(tv *tagview.Tagview)
	Arrange(m *Monitor)
}

// Monitor is a physical display region showing exactly one tagview.
type Monitor struct {
	ID     int
	Name   string
	screen platform.Rect
	work   platform.Rect
	bar    platform.Rect
	chrome Chrome
	tv     *tagview.Tagview
}

// New creates a monitor showing tv. The caller makes tv's clients visible.
func New(id int, screen platform.Rect, chrome Chrome, tv *tagview.Tagview) *Monitor {
	m := &Monitor{ID: id, screen: screen, chrome: chrome, tv: tv}
	m.updateWorkArea()
	return m
}

func (m *Monitor) String() string {
	return fmt.Sprintf("monitor %d (%dx%d+%d+%d)", m.ID, m.screen.Width, m.screen.Height, m.screen.X, m.screen.Y)
}

// Screen returns the full monitor geometry.
func (m *Monitor) Screen() platform.Rect { return m.screen }

// WorkArea returns the screen minus the chrome strip.
func (m *Monitor) WorkArea() platform.Rect { return m.work }

// BarArea returns the chrome strip, empty when hidden.
func (m *Monitor) BarArea() platform.Rect { return m.bar }

// Chrome returns the chrome settings.
func (m *Monitor) Chrome() Chrome { return m.chrome }

// Tagview returns the tagview on display.
func (m *Monitor) Tagview() *tagview.Tagview { return m.tv }

func (m *Monitor) updateWorkArea() {
	m.work = m.screen
	m.bar = platform.Rect{}
	if !m.chrome.Visible || m.chrome.Height <= 0 {
		return
	}
	h := min(m.chrome.Height, m.screen.Height)
	m.work.Height -= h
	if m.chrome.Top {
		m.work.Y += h
		m.bar = platform.Rect{X: m.screen.X, Y: m.screen.Y, Width: m.screen.Width, Height: h}
	} else {
		m.bar = platform.Rect{X: m.screen.X, Y: m.work.Y + m.work.Height, Width: m.screen.Width, Height: h}
	}
}

// Show displays tv. The old tagview is hidden before tv is arranged and
// shown, so no client is visible in two places at once.
func (m *Monitor) Show(tv *tagview.Tagview, r Renderer) {
	if m.tv == tv {
		return
	}
	if m.tv != nil {
		r.HideClients(m.tv)
	}
	m.tv = tv
	r.Arrange(m)
	r.ShowClients(tv)
}

// SwapTagviews exchanges the tagviews shown by m and other. Both old bindings
// are hidden before either new one is shown.
func (m *Monitor) SwapTagviews(other *Monitor, r Renderer) {
	if m == other || m.tv == other.tv {
		return
	}
	r.HideClients(m.tv)
	r.HideClients(other.tv)
	m.tv, other.tv = other.tv, m.tv
	r.Arrange(m)
	r.Arrange(other)
	r.ShowClients(m.tv)
	r.ShowClients(other.tv)
}

// Resize moves the monitor to a new screen rectangle and re-arranges.
func (m *Monitor) Resize(screen platform.Rect, r Renderer) {
	m.screen = screen
	m.updateWorkArea()
	r.Arrange(m)
}

// SetChromeVisible shows or hides the reserved strip and re-arranges.
func (m *Monitor) SetChromeVisible(visible bool, r Renderer) {
	if m.chrome.Visible == visible {
		return
	}
	m.chrome.Visible = visible
	m.updateWorkArea()
	r.Arrange(m)
}

// SetChrome replaces the chrome settings and re-arranges.
func (m *Monitor) SetChrome(chrome Chrome, r Renderer) {
	m.chrome = chrome
	m.updateWorkArea()
	r.Arrange(m)
}

// Detach drops the tagview binding, leaving the monitor empty. Used when the
// monitor is being destroyed.
func (m *Monitor) Detach(r Renderer) *tagview.Tagview {
	tv := m.tv
	if tv != nil {
		r.HideClients(tv)
	}
	m.tv = nil
	return tv
}
