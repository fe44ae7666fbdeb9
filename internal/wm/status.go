package wm

import (
	"github.com/1broseidon/tagwm/internal/platform"
)

// ConfigureMask flags which fields of a configure request were set.
type ConfigureMask uint16

const (
	ConfigureX ConfigureMask = 1 << iota
	ConfigureY
	ConfigureWidth
	ConfigureHeight
	ConfigureBorder
)

// ConfigureRequest is a client's request to change its own geometry.
type ConfigureRequest struct {
	Window platform.WindowID
	Mask   ConfigureMask
	Bounds platform.Rect
	Border int
}

// Configure answers a configure request from a managed window. Floating
// clients get what they ask for, kept on their monitor; tiled clients are told
// their current geometry. It reports false for unmanaged windows, which the
// caller passes through unchanged.
func (m *Manager) Configure(req ConfigureRequest) bool {
	c, ok := m.windows[req.Window]
	if !ok {
		return false
	}
	if req.Mask&ConfigureBorder != 0 {
		c.Border = req.Border
	}
	if !c.Floating || c.Fullscreen {
		if err := m.backend.Configure(c.Window, c.Rect(), c.Border); err != nil {
			m.log.Debug().Err(err).Stringer("client", c).Msg("synthetic configure failed")
		}
		return true
	}

	mon := m.displaying(m.owner(c))
	r := c.Rect()
	if req.Mask&ConfigureX != 0 {
		r.X = req.Bounds.X
	}
	if req.Mask&ConfigureY != 0 {
		r.Y = req.Bounds.Y
	}
	if req.Mask&ConfigureWidth != 0 {
		r.Width = req.Bounds.Width
	}
	if req.Mask&ConfigureHeight != 0 {
		r.Height = req.Bounds.Height
	}
	if mon != nil {
		s := mon.Screen()
		// Center windows that would start off their monitor.
		if r.X+r.Width > s.X+s.Width {
			r.X = s.X + (s.Width/2 - (r.Width+2*c.Border)/2)
		}
		if r.Y+r.Height > s.Y+s.Height {
			r.Y = s.Y + (s.Height/2 - (r.Height+2*c.Border)/2)
		}
	}
	c.SetGeometry(r)
	if req.Mask&(ConfigureX|ConfigureY) != 0 && req.Mask&(ConfigureWidth|ConfigureHeight) == 0 {
		if err := m.backend.Configure(c.Window, c.Rect(), c.Border); err != nil {
			m.log.Debug().Err(err).Stringer("client", c).Msg("synthetic configure failed")
		}
	}
	if mon != nil {
		m.moveResize(c)
	}
	return true
}

// ClientStatus describes one client in a Status snapshot.
type ClientStatus struct {
	ID         string        `json:"id"`
	Window     uint32        `json:"window"`
	Name       string        `json:"name"`
	Bounds     platform.Rect `json:"bounds"`
	Floating   bool          `json:"floating"`
	Fullscreen bool          `json:"fullscreen"`
	Urgent     bool          `json:"urgent"`
	Selected   bool          `json:"selected"`
	Focused    bool          `json:"focused"`
}

// TagviewStatus describes one tagview in a Status snapshot.
type TagviewStatus struct {
	Index   int            `json:"index"`
	Name    string         `json:"name"`
	Layout  string         `json:"layout"`
	Monitor *int           `json:"monitor,omitempty"`
	Clients []ClientStatus `json:"clients"`
}

// MonitorStatus describes one monitor in a Status snapshot.
type MonitorStatus struct {
	ID       int           `json:"id"`
	Screen   platform.Rect `json:"screen"`
	WorkArea platform.Rect `json:"work_area"`
	Tagview  int           `json:"tagview"`
	Active   bool          `json:"active"`
}

// Status is a read-only view of the manager's state.
type Status struct {
	ActiveMonitor int             `json:"active_monitor"`
	Monitors      []MonitorStatus `json:"monitors"`
	Tagviews      []TagviewStatus `json:"tagviews"`
	Dragging      bool            `json:"dragging"`
}

// Snapshot returns the current state for status queries.
func (m *Manager) Snapshot(in Input) Status {
	st := Status{
		ActiveMonitor: in.ActiveMonitor,
		Monitors:      make([]MonitorStatus, 0, m.monitors.Len()),
		Tagviews:      make([]TagviewStatus, 0, m.tagviews.Len()),
		Dragging:      m.drag != nil,
	}
	for _, mon := range m.monitors.Items() {
		st.Monitors = append(st.Monitors, MonitorStatus{
			ID:       mon.ID,
			Screen:   mon.Screen(),
			WorkArea: mon.WorkArea(),
			Tagview:  mon.Tagview().Index,
			Active:   mon.ID == in.ActiveMonitor,
		})
	}
	for _, tv := range m.tagviews.All() {
		ts := TagviewStatus{
			Index:   tv.Index,
			Name:    tv.Name,
			Layout:  string(tv.Layout().Kind()),
			Clients: make([]ClientStatus, 0, tv.Len()),
		}
		if mon := m.displaying(tv); mon != nil {
			id := mon.ID
			ts.Monitor = &id
		}
		sel, _ := tv.Selected()
		for _, c := range tv.Clients() {
			ts.Clients = append(ts.Clients, ClientStatus{
				ID:         c.ID.String(),
				Window:     uint32(c.Window),
				Name:       c.Name,
				Bounds:     c.Rect(),
				Floating:   c.Floating,
				Fullscreen: c.Fullscreen,
				Urgent:     c.Urgent,
				Selected:   c == sel,
				Focused:    c == m.focused,
			})
		}
		st.Tagviews = append(st.Tagviews, ts)
	}
	return st
}
