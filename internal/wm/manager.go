// Package wm ties tagviews, monitors and the layout engine together and
// exposes the operations the event pump, hotkeys and IPC call into.
//
// A Manager is not safe for concurrent use. Callers serialize access on a
// single goroutine (see internal/daemon).
package wm

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/monitor"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/selectlist"
	"github.com/1broseidon/tagwm/internal/tagview"
)

// ErrTopologyInconsistent marks a monitor bound to a tagview outside the
// registry. It is raised with panic.
var ErrTopologyInconsistent = errors.New("topology inconsistent")

// Input is the input-handling context. It names the monitor that currently
// receives keyboard actions.
type Input struct {
	ActiveMonitor int
}

// Settings are the manager's tunables.
type Settings struct {
	BorderWidth int
	// Snap is the edge-snapping distance for interactive moves.
	Snap int
	// ResizeHints applies size hints to tiled clients as well.
	ResizeHints bool
	Chrome      monitor.Chrome
}

// Manager owns the window-management state.
type Manager struct {
	backend  platform.Backend
	log      zerolog.Logger
	settings Settings

	tagviews *tagview.Registry
	monitors *selectlist.List[*monitor.Monitor]

	clients map[client.ID]*client.Client
	windows map[platform.WindowID]*client.Client

	// mapped tracks windows believed visible; pendingUnmaps counts unmap
	// notifications caused by our own hides.
	mapped        map[platform.WindowID]bool
	pendingUnmaps map[platform.WindowID]int

	focused *client.Client
	drag    *dragState
}

var _ monitor.Renderer = (*Manager)(nil)

// New creates a manager over the given tagviews. Monitors are created by the
// first MonitorTopologyChanged call.
func New(backend platform.Backend, tagviews *tagview.Registry, settings Settings, log zerolog.Logger) *Manager {
	return &Manager{
		backend:       backend,
		log:           log.With().Str("component", "wm").Logger(),
		settings:      settings,
		tagviews:      tagviews,
		monitors:      selectlist.New[*monitor.Monitor](),
		clients:       make(map[client.ID]*client.Client),
		windows:       make(map[platform.WindowID]*client.Client),
		mapped:        make(map[platform.WindowID]bool),
		pendingUnmaps: make(map[platform.WindowID]int),
	}
}

// Settings returns the current settings.
func (m *Manager) Settings() Settings { return m.settings }

// Tagviews returns the tagview registry.
func (m *Manager) Tagviews() *tagview.Registry { return m.tagviews }

// Monitors returns the monitors in ID order.
func (m *Manager) Monitors() []*monitor.Monitor { return m.monitors.Items() }

// Client returns the client with the given ID.
func (m *Manager) Client(id client.ID) (*client.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, selectlist.ErrNotFound)
	}
	return c, nil
}

// ClientByWindow returns the client managing window w.
func (m *Manager) ClientByWindow(w platform.WindowID) (*client.Client, bool) {
	c, ok := m.windows[w]
	return c, ok
}

// Monitor returns the monitor with the given ID.
func (m *Manager) Monitor(id int) (*monitor.Monitor, error) {
	mon, ok := m.monitors.At(id)
	if !ok {
		return nil, fmt.Errorf("monitor %d: %w", id, selectlist.ErrNotFound)
	}
	return mon, nil
}

// displaying returns the monitor showing tv, if any.
func (m *Manager) displaying(tv *tagview.Tagview) *monitor.Monitor {
	mon, ok := m.monitors.Find(func(x *monitor.Monitor) bool { return x.Tagview() == tv })
	if !ok {
		return nil
	}
	return mon
}

// owner returns the tagview holding c. A managed client without one means the
// indexes and the tagviews disagree.
func (m *Manager) owner(c *client.Client) *tagview.Tagview {
	tv, ok := m.tagviews.Owner(c)
	if !ok {
		panic(fmt.Errorf("%w: %s is managed but in no tagview", ErrTopologyInconsistent, c))
	}
	return tv
}

// HideClients implements monitor.Renderer.
func (m *Manager) HideClients(tv *tagview.Tagview) {
	for _, c := range tv.Clients() {
		m.hideWindow(c.Window)
	}
}

// ShowClients implements monitor.Renderer.
func (m *Manager) ShowClients(tv *tagview.Tagview) {
	for _, c := range tv.Clients() {
		m.showWindow(c.Window)
	}
}

func (m *Manager) showWindow(w platform.WindowID) {
	if m.mapped[w] {
		return
	}
	if err := m.backend.Show(w); err != nil {
		m.log.Warn().Err(err).Uint32("window", uint32(w)).Msg("show failed")
		return
	}
	m.mapped[w] = true
}

func (m *Manager) hideWindow(w platform.WindowID) {
	if !m.mapped[w] {
		return
	}
	if err := m.backend.Hide(w); err != nil {
		m.log.Warn().Err(err).Uint32("window", uint32(w)).Msg("hide failed")
		return
	}
	m.mapped[w] = false
	m.pendingUnmaps[w]++
}

// Arrange implements monitor.Renderer. It runs the tagview's layout over the
// work area and pushes every client's geometry to the backend.
func (m *Manager) Arrange(mon *monitor.Monitor) {
	tv := mon.Tagview()
	if !m.tagviews.Has(tv) {
		panic(fmt.Errorf("%w: %s shows a tagview outside the registry", ErrTopologyInconsistent, mon))
	}

	work := mon.WorkArea()
	for _, p := range tv.Layout().Arrange(tv.Clients(), work, m.settings.BorderWidth) {
		c := p.Client
		c.Border = p.Border
		r, _ := c.ApplySizeHints(p.Rect, client.Constraint{Bounds: work, RespectHints: m.settings.ResizeHints})
		c.SetGeometry(r)
		m.moveResize(c)
	}

	for _, c := range tv.Clients() {
		switch {
		case c.Fullscreen:
			c.SetGeometry(mon.Screen())
			m.moveResize(c)
		case c.Floating:
			r, _ := c.ApplySizeHints(c.Rect(), client.Constraint{Bounds: work})
			c.SetGeometry(r)
			m.moveResize(c)
		}
	}

	if sel, ok := tv.Selected(); ok && sel.Floating {
		m.raise(sel)
	}
	m.log.Debug().Int("monitor", mon.ID).Int("tagview", tv.Index).
		Str("layout", string(tv.Layout().Kind())).Int("clients", tv.Len()).Msg("arranged")
}

func (m *Manager) moveResize(c *client.Client) {
	if err := m.backend.MoveResize(c.Window, c.Rect(), c.Border); err != nil {
		m.log.Warn().Err(err).Stringer("client", c).Msg("move/resize failed")
	}
}

func (m *Manager) raise(c *client.Client) {
	if err := m.backend.Raise(c.Window); err != nil {
		m.log.Warn().Err(err).Stringer("client", c).Msg("raise failed")
	}
}

// arrangeTagview re-arranges the monitor showing tv, if any.
func (m *Manager) arrangeTagview(tv *tagview.Tagview) *monitor.Monitor {
	mon := m.displaying(tv)
	if mon != nil {
		m.Arrange(mon)
	}
	return mon
}

// ArrangeAll re-arranges every monitor.
func (m *Manager) ArrangeAll() {
	for _, mon := range m.monitors.Items() {
		m.Arrange(mon)
	}
}

// focus gives input focus to c, or to the selection of the active monitor's
// tagview when c is nil. The client becomes its tagview's selection.
func (m *Manager) focus(in Input, c *client.Client) {
	if c == nil {
		if mon, err := m.Monitor(in.ActiveMonitor); err == nil {
			c, _ = mon.Tagview().Selected()
		}
	}

	if m.focused != nil && m.focused != c {
		if _, managed := m.clients[m.focused.ID]; managed {
			if err := m.backend.SetBorderColor(m.focused.Window, false); err != nil {
				m.log.Debug().Err(err).Stringer("client", m.focused).Msg("unfocus border failed")
			}
		}
	}
	m.focused = c

	if c == nil {
		if err := m.backend.Focus(platform.None); err != nil {
			m.log.Warn().Err(err).Msg("focus root failed")
		}
		return
	}

	c.Urgent = false
	if err := m.owner(c).Select(c); err != nil {
		m.log.Warn().Err(err).Msg("select focused client failed")
	}
	if err := m.backend.SetBorderColor(c.Window, true); err != nil {
		m.log.Debug().Err(err).Stringer("client", c).Msg("focus border failed")
	}
	if c.NeverFocus {
		return
	}
	if err := m.backend.Focus(c.Window); err != nil {
		m.log.Warn().Err(err).Stringer("client", c).Msg("focus failed")
	}
}

// Focused returns the client holding input focus.
func (m *Manager) Focused() (*client.Client, bool) {
	return m.focused, m.focused != nil
}

func (m *Manager) updateClientList() {
	ids := make([]platform.WindowID, 0, len(m.windows))
	for _, tv := range m.tagviews.All() {
		for _, c := range tv.Clients() {
			ids = append(ids, c.Window)
		}
	}
	if err := m.backend.SetClientList(ids); err != nil {
		m.log.Debug().Err(err).Msg("client list update failed")
	}
}
