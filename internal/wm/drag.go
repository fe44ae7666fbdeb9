package wm

import (
	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/monitor"
	"github.com/1broseidon/tagwm/internal/platform"
)

// DragMode selects what a pointer drag does to the client.
type DragMode int

const (
	DragMove DragMode = iota
	DragResize
)

func (d DragMode) String() string {
	if d == DragResize {
		return "resize"
	}
	return "move"
}

// EventClass groups X events by how they may interleave with a drag.
type EventClass int

const (
	// EventStructural covers map and configure requests and exposes.
	EventStructural EventClass = iota
	// EventPointer covers motion and button events.
	EventPointer
	// EventOther is everything else, deferred until the drag ends.
	EventOther
)

type dragState struct {
	mode    DragMode
	client  *client.Client
	mon     *monitor.Monitor
	startX  int
	startY  int
	orig    platform.Rect
	dragged bool
}

// Dragging reports whether a pointer drag is in progress.
func (m *Manager) Dragging() bool { return m.drag != nil }

// Admit reports whether an event of class ec may be handled now. While a drag
// is running only structural and pointer events pass; the caller defers the
// rest and replays them after EndDrag.
func (m *Manager) Admit(ec EventClass) bool {
	if m.drag == nil {
		return true
	}
	return ec == EventStructural || ec == EventPointer
}

// BeginDrag starts moving or resizing the client for window w from the given
// pointer position. It reports false when w is unmanaged, fullscreen or not
// on display, in which case no drag begins.
func (m *Manager) BeginDrag(in Input, w platform.WindowID, mode DragMode, rootX, rootY int) bool {
	if m.drag != nil {
		return false
	}
	c, ok := m.windows[w]
	if !ok || c.Fullscreen {
		return false
	}
	mon := m.displaying(m.owner(c))
	if mon == nil {
		return false
	}
	if mon.ID == in.ActiveMonitor {
		m.focus(in, c)
	}
	m.raise(c)
	m.drag = &dragState{
		mode:   mode,
		client: c,
		mon:    mon,
		startX: rootX,
		startY: rootY,
		orig:   c.Rect(),
	}
	m.log.Debug().Stringer("client", c).Stringer("mode", mode).Msg("drag started")
	return true
}

// DragStep applies pointer motion to the dragged client. Edges snap to the
// work area and a tiled client pulled farther than the snap distance floats.
func (m *Manager) DragStep(rootX, rootY int) {
	d := m.drag
	if d == nil {
		return
	}
	mon := m.dragMonitor(d)
	if mon == nil {
		m.drag = nil
		m.log.Debug().Stringer("client", d.client).Msg("drag cancelled, client left the display")
		return
	}
	d.mon = mon

	c := d.client
	snap := m.settings.Snap
	work := mon.WorkArea()
	dx, dy := rootX-d.startX, rootY-d.startY

	switch d.mode {
	case DragMove:
		nx, ny := d.orig.X+dx, d.orig.Y+dy
		switch {
		case abs(work.X-nx) < snap:
			nx = work.X
		case abs(work.X+work.Width-(nx+c.TotalWidth())) < snap:
			nx = work.X + work.Width - c.TotalWidth()
		}
		switch {
		case abs(work.Y-ny) < snap:
			ny = work.Y
		case abs(work.Y+work.Height-(ny+c.TotalHeight())) < snap:
			ny = work.Y + work.Height - c.TotalHeight()
		}
		if !c.Floating && (abs(nx-c.X) > snap || abs(ny-c.Y) > snap) {
			m.floatDragged(d)
		}
		if c.Floating {
			m.dragResize(c, platform.Rect{X: nx, Y: ny, Width: c.Width, Height: c.Height})
		}
	case DragResize:
		nw := max(d.orig.Width+dx, 1)
		nh := max(d.orig.Height+dy, 1)
		if !c.Floating && (abs(nw-c.Width) > snap || abs(nh-c.Height) > snap) {
			m.floatDragged(d)
		}
		if c.Floating {
			m.dragResize(c, platform.Rect{X: c.X, Y: c.Y, Width: nw, Height: nh})
		}
	}
}

// dragMonitor resolves the monitor showing the dragged client. IPC commands
// and topology changes run between motion events, so the monitor recorded at
// BeginDrag may be gone or show another tagview. It returns nil when the
// client is unmanaged or not on display.
func (m *Manager) dragMonitor(d *dragState) *monitor.Monitor {
	if _, ok := m.clients[d.client.ID]; !ok {
		return nil
	}
	return m.displaying(m.owner(d.client))
}

func (m *Manager) floatDragged(d *dragState) {
	d.client.Floating = true
	d.dragged = true
	m.Arrange(d.mon)
}

func (m *Manager) dragResize(c *client.Client, r platform.Rect) {
	r, changed := c.ApplySizeHints(r, client.Constraint{Bounds: m.desktop(), Interactive: true})
	if !changed {
		return
	}
	c.SetGeometry(r)
	m.moveResize(c)
}

// desktop is the bounding box of every monitor.
func (m *Manager) desktop() platform.Rect {
	var out platform.Rect
	for i, mon := range m.monitors.Items() {
		s := mon.Screen()
		if i == 0 {
			out = s
			continue
		}
		x2 := max(out.X+out.Width, s.X+s.Width)
		y2 := max(out.Y+out.Height, s.Y+s.Height)
		out.X, out.Y = min(out.X, s.X), min(out.Y, s.Y)
		out.Width, out.Height = x2-out.X, y2-out.Y
	}
	return out
}

// EndDrag finishes the drag. A client released over another monitor moves to
// the tagview shown there and that monitor becomes active.
func (m *Manager) EndDrag(in Input, rootX, rootY int) (Input, error) {
	d := m.drag
	if d == nil {
		return in, nil
	}
	m.DragStep(rootX, rootY)
	if m.drag != d {
		// Cancelled by the final step.
		return in, nil
	}
	m.drag = nil

	c := d.client
	if _, managed := m.clients[c.ID]; !managed {
		return in, nil
	}
	target := m.monitorFor(c.Rect())
	if target == nil || target == d.mon {
		m.log.Debug().Stringer("client", c).Msg("drag finished")
		return in, nil
	}
	in.ActiveMonitor = target.ID
	if err := m.SendToWorkspace(in, c.ID, target.Tagview().Index); err != nil {
		return in, err
	}
	m.focus(in, c)
	m.log.Debug().Stringer("client", c).Int("monitor", target.ID).Msg("drag moved client to monitor")
	return in, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
