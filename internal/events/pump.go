// Package events turns X events into window manager operations.
//
// All handlers run on the xevent loop goroutine, which is the only goroutine
// that touches the wm.Session (see internal/daemon).
package events

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
	"github.com/1broseidon/tagwm/internal/x11"
)

// ScreenSource reports the current monitor rectangles.
type ScreenSource interface {
	Screens(respectStruts bool) ([]platform.Rect, error)
}

// Buttons are the pointer bindings on client windows, already expanded to
// real modifiers (e.g. "Mod1-1"). An empty binding is skipped.
type Buttons struct {
	Move           string
	Resize         string
	ToggleFloating string
}

// Options tune how events are interpreted.
type Options struct {
	FocusFollowsMouse bool
	RespectStruts     bool
	Buttons           Buttons
}

// Pump dispatches X events to a wm.Session.
type Pump struct {
	conn    *x11.Connection
	xu      *xgbutil.XUtil
	root    xproto.Window
	screens ScreenSource
	session *wm.Session
	opts    Options
	log     zerolog.Logger

	throttle motionThrottle
	deferred []xgb.Event
	docks    map[xproto.Window]bool
	cursors  map[wm.DragMode]xproto.Cursor

	// OnChange runs after any event that may have changed window
	// management state.
	OnChange func()
}

// New creates a pump. Call Start before entering the event loop.
func New(conn *x11.Connection, screens ScreenSource, session *wm.Session, opts Options, log zerolog.Logger) *Pump {
	return &Pump{
		conn:    conn,
		xu:      conn.XUtil,
		root:    conn.Root,
		screens: screens,
		session: session,
		opts:    opts,
		log:     log.With().Str("component", "events").Logger(),
		docks:   make(map[xproto.Window]bool),
		cursors: make(map[wm.DragMode]xproto.Cursor),
	}
}

// Start connects the dispatcher and the pointer bindings.
func (p *Pump) Start() error {
	for mode, shape := range map[wm.DragMode]uint16{
		wm.DragMove:   xcursor.Fleur,
		wm.DragResize: xcursor.BottomRightCorner,
	} {
		cursor, err := xcursor.CreateCursor(p.xu, shape)
		if err != nil {
			return fmt.Errorf("create %s cursor: %w", mode, err)
		}
		p.cursors[mode] = cursor
	}

	xevent.HookFun(p.hook).Connect(p.xu)
	xevent.MotionNotifyFun(p.motion).Connect(p.xu, p.root)
	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		mousebind.DragEnd(xu, ev)
	}).Connect(p.xu, p.root)

	return p.bindButtons()
}

// Reconfigure applies new options, rebinding pointer buttons.
func (p *Pump) Reconfigure(opts Options) error {
	p.opts = opts
	mousebind.Detach(p.xu, p.root)
	return p.bindButtons()
}

func (p *Pump) bindButtons() error {
	var errs []error
	bindDrag := func(seq string, mode wm.DragMode) {
		if seq == "" {
			return
		}
		err := mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
			win := ev.Child
			begin := func(xu *xgbutil.XUtil, rx, ry, ex, ey int) (bool, xproto.Cursor) {
				return p.beginDrag(win, mode, rx, ry)
			}
			mousebind.DragBegin(xu, ev, p.root, p.root, begin, p.dragStep, p.dragEnd)
		}).Connect(p.xu, p.root, seq, false, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("bind %s to %s: %w", seq, mode, err))
		}
	}
	bindDrag(p.opts.Buttons.Move, wm.DragMove)
	bindDrag(p.opts.Buttons.Resize, wm.DragResize)

	if seq := p.opts.Buttons.ToggleFloating; seq != "" {
		err := mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
			p.toggleFloatingAt(ev.Child)
		}).Connect(p.xu, p.root, seq, false, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("bind %s to toggle_floating: %w", seq, err))
		}
	}
	return errors.Join(errs...)
}

// Scan manages the windows that were mapped before the manager started.
func (p *Pump) Scan() error {
	windows, err := p.conn.ExistingWindows()
	if err != nil {
		return err
	}
	for _, w := range windows {
		p.manage(w)
	}
	p.changed()
	return nil
}

// RefreshScreens re-reads the monitor layout and applies it.
func (p *Pump) RefreshScreens() error {
	rects, err := p.screens.Screens(p.opts.RespectStruts)
	if err != nil {
		return err
	}
	in, err := p.session.WM.MonitorTopologyChanged(p.session.In, rects)
	if err != nil {
		return err
	}
	p.session.In = in
	return nil
}

// hook sees every event before xgbutil's per-window callbacks. Returning
// false stops further processing of the event.
func (p *Pump) hook(xu *xgbutil.XUtil, event interface{}) bool {
	if mn, ok := event.(xproto.MotionNotifyEvent); ok && !p.throttle.allow(mn.Time) {
		return false
	}
	if !p.session.WM.Admit(Classify(event)) {
		if ev, ok := event.(xgb.Event); ok {
			p.deferred = append(p.deferred, ev)
		}
		return false
	}

	switch ev := event.(type) {
	case xproto.MapRequestEvent:
		p.mapRequest(ev)
	case xproto.ConfigureRequestEvent:
		p.configureRequest(ev)
	case xproto.ConfigureNotifyEvent:
		p.configureNotify(ev)
	case xproto.DestroyNotifyEvent:
		p.destroyNotify(ev)
	case xproto.UnmapNotifyEvent:
		p.unmapNotify(ev)
	case xproto.EnterNotifyEvent:
		p.enterNotify(ev)
	case xproto.PropertyNotifyEvent:
		p.propertyNotify(ev)
	case xproto.ClientMessageEvent:
		p.clientMessage(ev)
	}
	return true
}

// replayDeferred puts events held back during a drag at the end of the
// queue, in their original order.
func (p *Pump) replayDeferred() {
	if len(p.deferred) == 0 {
		return
	}
	p.log.Debug().Int("events", len(p.deferred)).Msg("replaying deferred events")
	for _, ev := range p.deferred {
		xevent.Enqueue(p.xu, ev, nil)
	}
	p.deferred = nil
}

func (p *Pump) changed() {
	if p.OnChange != nil {
		p.OnChange()
	}
}
