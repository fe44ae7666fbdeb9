package wm

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/selectlist"
)

// ClientCreated starts managing window w. The client joins the tagview shown
// on the active monitor, or its transient parent's tagview. The window's own
// border width is kept so it can be restored.
func (m *Manager) ClientCreated(in Input, w platform.WindowID, geom platform.Rect, border int) (client.ID, error) {
	if c, ok := m.windows[w]; ok {
		return c.ID, nil
	}
	mon, err := m.Monitor(in.ActiveMonitor)
	if err != nil {
		return client.ID{}, fmt.Errorf("manage 0x%x: %w", uint32(w), err)
	}

	c := client.New(w, geom, border)
	tv := mon.Tagview()

	transient := false
	if parent, err := m.backend.TransientFor(w); err == nil && parent != platform.None {
		transient = true
		if pc, ok := m.windows[parent]; ok {
			tv = m.owner(pc)
		}
	}

	area := mon.Screen()
	if shown := m.displaying(tv); shown != nil {
		area = shown.Screen()
	}
	c.Border = m.settings.BorderWidth
	clampInto(c, area)

	if props, err := m.backend.Properties(w); err == nil {
		c.Name = props.Name
		if props.Dialog {
			c.Floating = true
		}
		if props.Fullscreen {
			c.SetFullscreen(true, area)
		}
	} else {
		m.log.Debug().Err(err).Stringer("client", c).Msg("read properties failed")
	}
	if sh, err := m.backend.SizeHints(w); err == nil {
		c.UpdateSizeHints(sh)
	} else {
		m.log.Debug().Err(err).Stringer("client", c).Msg("read size hints failed")
	}
	if wh, err := m.backend.WMHints(w); err == nil {
		c.UpdateWMHints(wh, false)
	}
	if !c.Floating {
		c.Floating = transient || c.Fixed
	}

	if sel, ok := tv.Selected(); !ok || sel.Floating {
		tv.AttachFront(c)
	} else {
		tv.Attach(c)
	}
	m.clients[c.ID] = c
	m.windows[w] = c

	if err := m.backend.SetBorderColor(w, false); err != nil {
		m.log.Debug().Err(err).Stringer("client", c).Msg("border color failed")
	}
	m.updateClientList()

	// A window on a hidden tagview is simply never mapped.
	if shown := m.arrangeTagview(tv); shown != nil {
		m.showWindow(w)
		if c.Floating {
			m.raise(c)
		}
		if shown.ID == in.ActiveMonitor {
			m.focus(in, c)
		}
	}

	m.log.Info().Stringer("client", c).Str("id", c.ID.String()).Int("tagview", tv.Index).
		Bool("floating", c.Floating).Msg("managing window")
	return c.ID, nil
}

// clampInto keeps a new window's top-left corner on area.
func clampInto(c *client.Client, area platform.Rect) {
	if c.X+c.TotalWidth() > area.X+area.Width {
		c.X = area.X + area.Width - c.TotalWidth()
	}
	if c.Y+c.TotalHeight() > area.Y+area.Height {
		c.Y = area.Y + area.Height - c.TotalHeight()
	}
	c.X = max(c.X, area.X)
	c.Y = max(c.Y, area.Y)
}

// ClientDestroyed stops managing a client and refocuses whatever its tagview
// selects next.
func (m *Manager) ClientDestroyed(in Input, id client.ID) error {
	c, err := m.Client(id)
	if err != nil {
		return err
	}
	tv := m.owner(c)
	if err := tv.Detach(c); err != nil {
		return err
	}
	delete(m.clients, id)
	delete(m.windows, c.Window)
	delete(m.mapped, c.Window)
	delete(m.pendingUnmaps, c.Window)
	if m.drag != nil && m.drag.client == c {
		m.drag = nil
	}

	wasFocused := m.focused == c
	if wasFocused {
		m.focused = nil
	}

	shown := m.arrangeTagview(tv)
	if wasFocused || (shown != nil && shown.ID == in.ActiveMonitor) {
		m.focus(in, nil)
	}
	m.updateClientList()

	m.log.Info().Stringer("client", c).Str("id", id.String()).Msg("unmanaged window")
	return nil
}

// WindowDestroyed unmanages the client for w, if any.
func (m *Manager) WindowDestroyed(in Input, w platform.WindowID) error {
	c, ok := m.windows[w]
	if !ok {
		return nil
	}
	return m.ClientDestroyed(in, c.ID)
}

// WindowUnmapped handles an unmap notification. Unmaps caused by hiding a
// tagview are consumed; any other unmap means the client withdrew.
func (m *Manager) WindowUnmapped(in Input, w platform.WindowID, synthetic bool) error {
	c, ok := m.windows[w]
	if !ok {
		return nil
	}
	if !synthetic && m.pendingUnmaps[w] > 0 {
		m.pendingUnmaps[w]--
		return nil
	}
	return m.ClientDestroyed(in, c.ID)
}

// SendToWorkspace moves a client to tagview idx and re-arranges every monitor
// showing the source or destination.
func (m *Manager) SendToWorkspace(in Input, id client.ID, idx int) error {
	c, err := m.Client(id)
	if err != nil {
		return err
	}
	dst, err := m.tagviews.Get(idx)
	if err != nil {
		return err
	}
	src := m.owner(c)
	if src == dst {
		return nil
	}
	if err := src.MoveTo(dst, c); err != nil {
		return err
	}

	m.arrangeTagview(src)
	if m.arrangeTagview(dst) != nil {
		m.showWindow(c.Window)
	} else {
		m.hideWindow(c.Window)
	}
	if m.focused == c {
		m.focused = nil
	}
	m.focus(in, nil)

	m.log.Debug().Stringer("client", c).Int("from", src.Index).Int("to", dst.Index).Msg("sent to tagview")
	return nil
}

// SendSelectionToWorkspace sends the active monitor's selected client to
// tagview idx.
func (m *Manager) SendSelectionToWorkspace(in Input, idx int) error {
	c, err := m.selection(in.ActiveMonitor)
	if err != nil || c == nil {
		return err
	}
	return m.SendToWorkspace(in, c.ID, idx)
}

// CycleSelection moves the selection of the monitor's tagview one step,
// wrapping at either end, and focuses it. An empty tagview yields the zero
// ID and no error.
func (m *Manager) CycleSelection(in Input, monID int, dir int) (client.ID, error) {
	mon, err := m.Monitor(monID)
	if err != nil {
		return client.ID{}, err
	}
	tv := mon.Tagview()

	var c *client.Client
	var ok bool
	if dir >= 0 {
		c, ok = tv.SelectNext()
	} else {
		c, ok = tv.SelectPrevious()
	}
	if !ok {
		return client.ID{}, nil
	}
	m.focus(in, c)
	if c.Floating {
		m.raise(c)
	}
	return c.ID, nil
}

// PromoteSelection moves the monitor's selected client into the master slot.
func (m *Manager) PromoteSelection(in Input, monID int) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	c, ok := mon.Tagview().Selected()
	if !ok {
		return nil
	}
	if err := mon.Tagview().PromoteToMaster(c); err != nil {
		return err
	}
	m.Arrange(mon)
	if monID == in.ActiveMonitor {
		m.focus(in, c)
	}
	return nil
}

// FocusWindow focuses the client for w, typically on pointer entry or click.
// The monitor showing it becomes active.
func (m *Manager) FocusWindow(in Input, w platform.WindowID) Input {
	c, ok := m.windows[w]
	if !ok || c == m.focused {
		return in
	}
	if mon := m.displaying(m.owner(c)); mon != nil {
		in.ActiveMonitor = mon.ID
		m.focus(in, c)
	}
	return in
}

// ToggleFloating flips the floating state of the monitor's selection.
// Fullscreen and fixed-size clients are left alone.
func (m *Manager) ToggleFloating(in Input, monID int) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	c, ok := mon.Tagview().Selected()
	if !ok || c.Fullscreen {
		return nil
	}
	c.Floating = !c.Floating || c.Fixed
	if c.Floating {
		r, _ := c.ApplySizeHints(c.Rect(), client.Constraint{Bounds: mon.WorkArea()})
		c.SetGeometry(r)
	}
	m.Arrange(mon)
	return nil
}

// SetFullscreen enters or leaves fullscreen for window w.
func (m *Manager) SetFullscreen(in Input, w platform.WindowID, on bool) error {
	c, ok := m.windows[w]
	if !ok {
		return fmt.Errorf("window 0x%x: %w", uint32(w), selectlist.ErrNotFound)
	}
	mon := m.displaying(m.owner(c))
	screen := c.Rect()
	if mon != nil {
		screen = mon.Screen()
	}
	if !c.SetFullscreen(on, screen) {
		return nil
	}
	if mon != nil {
		m.Arrange(mon)
	} else {
		m.moveResize(c)
	}
	if on {
		m.raise(c)
	}
	return nil
}

// MarkUrgent flags a client that asked for attention while unfocused.
func (m *Manager) MarkUrgent(w platform.WindowID) {
	if c, ok := m.windows[w]; ok && c != m.focused {
		c.Urgent = true
	}
}

// HintKind names a window property that changed.
type HintKind int

const (
	HintNormal HintKind = iota
	HintWM
	HintTransient
	HintName
)

// UpdateHints re-reads a changed property of w.
func (m *Manager) UpdateHints(in Input, w platform.WindowID, kind HintKind) error {
	c, ok := m.windows[w]
	if !ok {
		return nil
	}
	switch kind {
	case HintNormal:
		sh, err := m.backend.SizeHints(w)
		if err != nil {
			return fmt.Errorf("read size hints for %s: %w", c, err)
		}
		c.UpdateSizeHints(sh)
	case HintWM:
		wh, err := m.backend.WMHints(w)
		if err != nil {
			return fmt.Errorf("read wm hints for %s: %w", c, err)
		}
		c.UpdateWMHints(wh, c == m.focused)
	case HintTransient:
		parent, err := m.backend.TransientFor(w)
		if err != nil || c.Floating {
			return nil
		}
		if _, managed := m.windows[parent]; managed {
			c.Floating = true
			m.arrangeTagview(m.owner(c))
		}
	case HintName:
		if props, err := m.backend.Properties(w); err == nil {
			c.Name = props.Name
		}
	}
	return nil
}

// KillSelection asks the active monitor's selected client to close.
func (m *Manager) KillSelection(in Input) error {
	c, err := m.selection(in.ActiveMonitor)
	if err != nil || c == nil {
		return err
	}
	if err := m.backend.Close(c.Window); err != nil {
		return fmt.Errorf("close %s: %w", c, err)
	}
	return nil
}

func (m *Manager) selection(monID int) (*client.Client, error) {
	mon, err := m.Monitor(monID)
	if err != nil {
		return nil, err
	}
	c, _ := mon.Tagview().Selected()
	return c, nil
}
