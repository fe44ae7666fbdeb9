package wm

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/1broseidon/tagwm/internal/tiling"
)

// ErrUnknownAction is returned for action names that are not bound to any
// operation.
var ErrUnknownAction = errors.New("unknown action")

// SplitRatioStep is the split ratio change of one ratio_inc or ratio_dec.
const SplitRatioStep = 0.05

// Action names usable in key bindings.
const (
	ActionFocusNext        = "focus_next"
	ActionFocusPrev        = "focus_prev"
	ActionMasterInc        = "master_inc"
	ActionMasterDec        = "master_dec"
	ActionRatioInc         = "ratio_inc"
	ActionRatioDec         = "ratio_dec"
	ActionZoom             = "zoom"
	ActionKill             = "kill"
	ActionFocusMonitorNext = "focus_monitor_next"
	ActionFocusMonitorPrev = "focus_monitor_prev"
	ActionSendMonitorNext  = "send_monitor_next"
	ActionSendMonitorPrev  = "send_monitor_prev"
	ActionToggleFloating   = "toggle_floating"
	ActionToggleBar        = "toggle_bar"
	ActionCycleLayout      = "cycle_layout"
	ActionQuit             = "quit"
	ActionReload           = "reload"

	// Actions taking an argument after a colon, e.g. "view:3".
	ActionView   = "view"
	ActionSend   = "send"
	ActionLayout = "layout"
	ActionSpawn  = "spawn"
)

var plainActions = []string{
	ActionFocusNext, ActionFocusPrev,
	ActionMasterInc, ActionMasterDec,
	ActionRatioInc, ActionRatioDec,
	ActionZoom, ActionKill,
	ActionFocusMonitorNext, ActionFocusMonitorPrev,
	ActionSendMonitorNext, ActionSendMonitorPrev,
	ActionToggleFloating, ActionToggleBar, ActionCycleLayout,
	ActionQuit, ActionReload,
}

// Action is a parsed key binding target.
type Action struct {
	Name string
	// Tagview is the zero-based tagview index for view and send.
	Tagview int
	Layout  tiling.Kind
	Command string
}

func (a Action) String() string {
	switch a.Name {
	case ActionView, ActionSend:
		return fmt.Sprintf("%s:%d", a.Name, a.Tagview+1)
	case ActionLayout:
		return fmt.Sprintf("%s:%s", a.Name, a.Layout)
	case ActionSpawn:
		return fmt.Sprintf("%s:%s", a.Name, a.Command)
	}
	return a.Name
}

// ParseAction parses an action name. Tagview numbers in "view:N" and
// "send:N" are one-based.
func ParseAction(s string) (Action, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	if !hasArg {
		if slices.Contains(plainActions, name) {
			return Action{Name: name}, nil
		}
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}

	switch name {
	case ActionView, ActionSend:
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return Action{}, fmt.Errorf("%w: %q needs a tagview number from 1", ErrUnknownAction, s)
		}
		return Action{Name: name, Tagview: n - 1}, nil
	case ActionLayout:
		kind, err := tiling.ParseKind(arg)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q: %v", ErrUnknownAction, s, err)
		}
		return Action{Name: name, Layout: kind}, nil
	case ActionSpawn:
		if arg == "" {
			return Action{}, fmt.Errorf("%w: %q needs a command name", ErrUnknownAction, s)
		}
		return Action{Name: name, Command: arg}, nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Hooks are the actions that reach outside the window manager.
type Hooks struct {
	Spawn  func(name string) error
	Reload func() error
	Quit   func()
}

// Session pairs a Manager with the input context its operations receive.
// Like the Manager it must only be used from one goroutine.
type Session struct {
	WM    *Manager
	In    Input
	Hooks Hooks
}

// Do runs a parsed action against the active monitor.
func (s *Session) Do(a Action) error {
	m, mon := s.WM, s.In.ActiveMonitor
	switch a.Name {
	case ActionFocusNext:
		_, err := m.CycleSelection(s.In, mon, 1)
		return err
	case ActionFocusPrev:
		_, err := m.CycleSelection(s.In, mon, -1)
		return err
	case ActionMasterInc:
		return m.AdjustMasterCount(mon, 1)
	case ActionMasterDec:
		return m.AdjustMasterCount(mon, -1)
	case ActionRatioInc:
		return m.AdjustSplitRatio(mon, SplitRatioStep)
	case ActionRatioDec:
		return m.AdjustSplitRatio(mon, -SplitRatioStep)
	case ActionZoom:
		return m.PromoteSelection(s.In, mon)
	case ActionKill:
		return m.KillSelection(s.In)
	case ActionFocusMonitorNext:
		s.In = m.FocusMonitor(s.In, 1)
	case ActionFocusMonitorPrev:
		s.In = m.FocusMonitor(s.In, -1)
	case ActionSendMonitorNext:
		return m.SendToMonitor(s.In, 1)
	case ActionSendMonitorPrev:
		return m.SendToMonitor(s.In, -1)
	case ActionToggleFloating:
		return m.ToggleFloating(s.In, mon)
	case ActionToggleBar:
		return m.ToggleChrome(mon)
	case ActionCycleLayout:
		_, err := m.CycleLayout(mon, 1)
		return err
	case ActionView:
		return m.WorkspaceSwitch(s.In, mon, a.Tagview)
	case ActionSend:
		return m.SendSelectionToWorkspace(s.In, a.Tagview)
	case ActionLayout:
		return m.SetLayout(mon, a.Layout)
	case ActionSpawn:
		if s.Hooks.Spawn == nil {
			return fmt.Errorf("spawn %q: no launcher configured", a.Command)
		}
		return s.Hooks.Spawn(a.Command)
	case ActionReload:
		if s.Hooks.Reload == nil {
			return errors.New("reload not supported")
		}
		return s.Hooks.Reload()
	case ActionQuit:
		if s.Hooks.Quit != nil {
			s.Hooks.Quit()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Name)
	}
	return nil
}
