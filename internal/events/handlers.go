package events

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
)

func (p *Pump) mapRequest(ev xproto.MapRequestEvent) {
	p.manage(ev.Window)
	p.changed()
}

// manage starts managing w, or maps it untouched when it is a dock or
// similar window that only reserves screen space.
func (p *Pump) manage(w xproto.Window) {
	if p.conn.OverrideRedirect(w) {
		return
	}
	if !p.conn.IsNormalWindow(w) {
		if err := p.conn.MapUnmanaged(w); err != nil {
			p.log.Debug().Err(err).Uint32("window", uint32(w)).Msg("map unmanaged window failed")
		}
		if !p.docks[w] {
			p.docks[w] = true
			p.refresh()
		}
		return
	}
	if _, ok := p.session.WM.ClientByWindow(platform.WindowID(w)); ok {
		return
	}

	geom, err := p.conn.WindowGeometry(w)
	if err != nil {
		p.log.Debug().Err(err).Uint32("window", uint32(w)).Msg("skip window without geometry")
		return
	}
	if err := p.conn.SelectClientInput(w); err != nil {
		p.log.Debug().Err(err).Uint32("window", uint32(w)).Msg("select client input failed")
	}
	rect := platform.Rect{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height}
	if _, err := p.session.WM.ClientCreated(p.session.In, platform.WindowID(w), rect, geom.Border); err != nil {
		p.log.Warn().Err(err).Uint32("window", uint32(w)).Msg("manage window failed")
	}
}

func (p *Pump) configureRequest(ev xproto.ConfigureRequestEvent) {
	req := wm.ConfigureRequest{
		Window: platform.WindowID(ev.Window),
		Mask:   configureMask(ev.ValueMask),
		Bounds: platform.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)},
		Border: int(ev.BorderWidth),
	}
	if p.session.WM.Configure(req) {
		return
	}
	if err := p.conn.ForwardConfigureRequest(ev); err != nil {
		p.log.Debug().Err(err).Uint32("window", uint32(ev.Window)).Msg("forward configure request failed")
	}
}

func (p *Pump) configureNotify(ev xproto.ConfigureNotifyEvent) {
	if ev.Window != p.root {
		return
	}
	p.refresh()
	p.changed()
}

func (p *Pump) destroyNotify(ev xproto.DestroyNotifyEvent) {
	if p.docks[ev.Window] {
		delete(p.docks, ev.Window)
		p.refresh()
		return
	}
	if err := p.session.WM.WindowDestroyed(p.session.In, platform.WindowID(ev.Window)); err != nil {
		p.log.Warn().Err(err).Uint32("window", uint32(ev.Window)).Msg("unmanage destroyed window failed")
	}
	p.changed()
}

func (p *Pump) unmapNotify(ev xproto.UnmapNotifyEvent) {
	if p.docks[ev.Window] {
		delete(p.docks, ev.Window)
		p.refresh()
		return
	}
	// Unmaps of children of other windows are reported to the root as well.
	if ev.Event != p.root && ev.Event != ev.Window {
		return
	}
	if err := p.session.WM.WindowUnmapped(p.session.In, platform.WindowID(ev.Window), false); err != nil {
		p.log.Warn().Err(err).Uint32("window", uint32(ev.Window)).Msg("unmanage unmapped window failed")
	}
	p.changed()
}

func (p *Pump) enterNotify(ev xproto.EnterNotifyEvent) {
	if ev.Mode != xproto.NotifyModeNormal {
		return
	}
	if ev.Detail == xproto.NotifyDetailInferior && ev.Event != p.root {
		return
	}
	s := p.session
	if ev.Event == p.root {
		if id := s.WM.MonitorAt(int(ev.RootX), int(ev.RootY)); id >= 0 {
			s.In = s.WM.ActivateMonitor(s.In, id)
		}
		p.changed()
		return
	}
	if !p.opts.FocusFollowsMouse {
		return
	}
	s.In = s.WM.FocusWindow(s.In, platform.WindowID(ev.Event))
	p.changed()
}

func (p *Pump) propertyNotify(ev xproto.PropertyNotifyEvent) {
	if ev.State == xproto.PropertyDelete {
		return
	}
	name, err := xprop.AtomName(p.xu, ev.Atom)
	if err != nil {
		return
	}
	if isStrutProperty(name) {
		if p.docks[ev.Window] {
			p.refresh()
		}
		return
	}
	kind, ok := hintForProperty(name)
	if !ok {
		return
	}
	if err := p.session.WM.UpdateHints(p.session.In, platform.WindowID(ev.Window), kind); err != nil {
		p.log.Debug().Err(err).Uint32("window", uint32(ev.Window)).Msg("update hints failed")
	}
	p.changed()
}

func (p *Pump) clientMessage(ev xproto.ClientMessageEvent) {
	if ev.Format != 32 {
		return
	}
	msg, err := xprop.AtomName(p.xu, ev.Type)
	if err != nil {
		return
	}
	w := platform.WindowID(ev.Window)
	data := ev.Data.Data32

	switch msg {
	case "_NET_WM_STATE":
		full, err := xprop.Atm(p.xu, "_NET_WM_STATE_FULLSCREEN")
		if err != nil || len(data) < 3 {
			return
		}
		if data[1] != uint32(full) && data[2] != uint32(full) {
			return
		}
		c, ok := p.session.WM.ClientByWindow(w)
		if !ok {
			return
		}
		on := wantFullscreen(data[0], c.Fullscreen)
		if err := p.session.WM.SetFullscreen(p.session.In, w, on); err != nil {
			p.log.Debug().Err(err).Stringer("client", c).Msg("set fullscreen failed")
		}
	case "_NET_ACTIVE_WINDOW":
		p.session.WM.MarkUrgent(w)
	default:
		return
	}
	p.changed()
}

// motion runs for pointer motion on the root window. During a drag it moves
// the dragged client; otherwise it tracks which monitor the pointer is on.
func (p *Pump) motion(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
	x, y := int(ev.RootX), int(ev.RootY)
	if p.session.WM.Dragging() {
		p.dragStep(xu, x, y, int(ev.EventX), int(ev.EventY))
		return
	}
	s := p.session
	id := s.WM.MonitorAt(x, y)
	if id < 0 || id == s.In.ActiveMonitor {
		return
	}
	s.In = s.WM.ActivateMonitor(s.In, id)
	p.changed()
}

func (p *Pump) beginDrag(w xproto.Window, mode wm.DragMode, rootX, rootY int) (bool, xproto.Cursor) {
	if w == 0 {
		return false, 0
	}
	if !p.session.WM.BeginDrag(p.session.In, platform.WindowID(w), mode, rootX, rootY) {
		return false, 0
	}
	return true, p.cursors[mode]
}

func (p *Pump) dragStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	p.session.WM.DragStep(rootX, rootY)
}

func (p *Pump) dragEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	in, err := p.session.WM.EndDrag(p.session.In, rootX, rootY)
	if err != nil {
		p.log.Warn().Err(err).Msg("finish drag failed")
	}
	p.session.In = in
	p.replayDeferred()
	p.changed()
}

func (p *Pump) toggleFloatingAt(w xproto.Window) {
	if w == 0 {
		return
	}
	s := p.session
	if _, ok := s.WM.ClientByWindow(platform.WindowID(w)); !ok {
		return
	}
	s.In = s.WM.FocusWindow(s.In, platform.WindowID(w))
	if err := s.WM.ToggleFloating(s.In, s.In.ActiveMonitor); err != nil {
		p.log.Debug().Err(err).Msg("toggle floating failed")
	}
	p.changed()
}

// refresh re-reads screens after a dock or the root window changed.
func (p *Pump) refresh() {
	if err := p.RefreshScreens(); err != nil {
		p.log.Warn().Err(err).Msg("refresh screens failed")
	}
}
