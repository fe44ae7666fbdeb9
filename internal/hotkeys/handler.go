package hotkeys

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Runner executes an action. It is called on the event loop goroutine.
type Runner func(wm.Action) error

// Handler manages global keyboard shortcuts
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	run  Runner
	log  zerolog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, run Runner, log zerolog.Logger) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:   xu,
		root: root,
		run:  run,
		log:  log.With().Str("component", "hotkeys").Logger(),
	}
}

// ExpandMod replaces the "Mod" placeholder in a key or button sequence with
// the configured modifier, so "Mod-Shift-c" becomes "Mod1-Shift-c".
func ExpandMod(seq, modKey string) string {
	parts := strings.Split(seq, "-")
	for i, p := range parts[:len(parts)-1] {
		if p == "Mod" {
			parts[i] = modKey
		}
	}
	return strings.Join(parts, "-")
}

// RegisterAll binds every action in keys (action name to key sequence).
// Bindings that fail are skipped and reported together.
func (h *Handler) RegisterAll(keys map[string]string, modKey string) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}

	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		action, err := wm.ParseAction(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		seq := ExpandMod(keys[name], modKey)
		if err := h.Register(seq, action); err != nil {
			errs = append(errs, fmt.Errorf("bind %s to %s: %w", seq, name, err))
		}
	}
	h.log.Debug().Int("bindings", len(names)-len(errs)).Msg("key bindings registered")
	return errors.Join(errs...)
}

// Register binds one key sequence to an action.
func (h *Handler) Register(keySequence string, action wm.Action) error {
	return h.RegisterFunc(keySequence, func() {
		h.log.Debug().Str("key", keySequence).Stringer("action", action).Msg("hotkey triggered")
		if err := h.run(action); err != nil {
			h.log.Warn().Err(err).Stringer("action", action).Msg("action failed")
		}
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Reset drops every key binding on the root window.
func (h *Handler) Reset() {
	if h.xu != nil {
		keybind.Detach(h.xu, h.root)
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
