// Package daemon runs the window manager: it owns the X connection, wires
// the event pump, hotkeys and IPC server to one wm.Session and serializes
// them on a single goroutine.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/events"
	"github.com/1broseidon/tagwm/internal/hotkeys"
	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tagview"
	"github.com/1broseidon/tagwm/internal/tiling"
	"github.com/1broseidon/tagwm/internal/wm"
	"github.com/1broseidon/tagwm/internal/x11"
)

// Name is advertised through _NET_WM_NAME on the supporting window.
const Name = "tagwm"

// Daemon is a running window manager instance.
type Daemon struct {
	cfgPath string
	cfg     *config.Config
	base    zerolog.Logger
	log     zerolog.Logger

	conn    *x11.Connection
	backend *platform.LinuxBackend
	session *wm.Session
	pump    *events.Pump
	keys    *hotkeys.Handler
	loop    *Loop

	// desktops caches the _NET_WM_DESKTOP value last written per window.
	desktops map[platform.WindowID]int
	current  int
}

var _ ipc.Handler = (*Daemon)(nil)

// New creates a daemon for an already loaded configuration. cfgPath is
// re-read on reload.
func New(cfgPath string, cfg *config.Config, log zerolog.Logger) *Daemon {
	return &Daemon{
		cfgPath:  cfgPath,
		cfg:      cfg,
		base:     log,
		log:      log.With().Str("component", "daemon").Logger(),
		loop:     NewLoop(),
		desktops: make(map[platform.WindowID]int),
		current:  -1,
	}
}

// Run connects to the X server, takes over window management and blocks
// until ctx is cancelled, a quit action runs or the X connection ends.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := x11.NewConnection()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()
	d.conn = conn

	if err := conn.BecomeWM(Name); err != nil {
		return err
	}

	colors, err := borderColors(d.cfg)
	if err != nil {
		return err
	}
	d.backend = platform.NewLinuxBackend(conn, colors)

	registry := tagview.NewRegistry(d.cfg.Tagviews, d.cfg.Layouts()...)
	d.session = &wm.Session{
		WM: wm.New(d.backend, registry, d.cfg.Settings(), d.base),
		Hooks: wm.Hooks{
			Spawn:  d.spawn,
			Reload: d.reload,
			Quit: func() {
				d.log.Info().Msg("quit requested")
				cancel()
			},
		},
	}

	d.pump = events.New(conn, d.backend, d.session, pumpOptions(d.cfg), d.base)
	d.pump.OnChange = d.publish
	if err := d.pump.RefreshScreens(); err != nil {
		return fmt.Errorf("failed to set up monitors: %w", err)
	}
	if err := conn.PublishDesktops(d.cfg.Tagviews); err != nil {
		d.log.Warn().Err(err).Msg("failed to publish desktops")
	}

	d.keys = hotkeys.NewHandler(d.backend, d.do, d.base)
	if err := d.keys.RegisterAll(d.cfg.Keys, d.cfg.ModKey); err != nil {
		d.log.Warn().Err(err).Msg("some key bindings could not be registered")
	}
	if err := d.pump.Start(); err != nil {
		d.log.Warn().Err(err).Msg("some button bindings could not be registered")
	}
	if err := d.pump.Scan(); err != nil {
		d.log.Warn().Err(err).Msg("failed to adopt existing windows")
	}

	server, err := ipc.NewServer(d, d.loop.Exec, d.base)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	// SIGHUP reloads the config, as RELOAD does over IPC.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				d.log.Info().Msg("received SIGHUP, reloading config")
				if err := d.loop.Exec(func() { d.logReload(d.reload()) }); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	d.log.Info().
		Int("monitors", len(d.session.WM.Monitors())).
		Int("tagviews", len(d.cfg.Tagviews)).
		Msg("entering event loop")

	before, after, quit := conn.MainPing()
	err = d.loop.Run(ctx, before, after, quit, conn.Quit)
	d.log.Info().Msg("shutting down")
	return err
}

// do runs a key-bound or IPC action and publishes the resulting state.
func (d *Daemon) do(a wm.Action) error {
	err := d.session.Do(a)
	d.publish()
	return err
}

// Status implements ipc.Handler.
func (d *Daemon) Status() wm.Status {
	return d.session.WM.Snapshot(d.session.In)
}

// Do implements ipc.Handler.
func (d *Daemon) Do(a wm.Action) error {
	return d.do(a)
}

// View implements ipc.Handler.
func (d *Daemon) View(monitor *int, idx int) error {
	mon := d.session.In.ActiveMonitor
	if monitor != nil {
		mon = *monitor
	}
	err := d.session.WM.WorkspaceSwitch(d.session.In, mon, idx)
	d.publish()
	return err
}

// SetLayout implements ipc.Handler.
func (d *Daemon) SetLayout(p ipc.LayoutPayload) error {
	kind, err := tiling.ParseKind(p.Layout)
	if err != nil {
		return err
	}
	monID := d.session.In.ActiveMonitor
	if p.Monitor != nil {
		monID = *p.Monitor
	}
	mon, err := d.session.WM.Monitor(monID)
	if err != nil {
		return err
	}

	l, err := layoutFromPayload(mon.Tagview().LayoutConfig(kind), kind, p)
	if err != nil {
		return err
	}
	if l != nil {
		if err := d.session.WM.SetLayoutConfig(monID, l); err != nil {
			return err
		}
	}
	return d.session.WM.SetLayout(monID, kind)
}

// reload re-reads the config file and applies everything that can change
// at runtime. A config that fails to load or validate leaves the running
// one untouched.
func (d *Daemon) reload() error {
	res, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	cfg := res.Config
	colors, err := borderColors(cfg)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	if !slices.Equal(cfg.Tagviews, d.cfg.Tagviews) {
		d.log.Warn().Msg("tagview changes take effect after a restart")
	}

	for _, tv := range d.session.WM.Tagviews().All() {
		for _, l := range cfg.Layouts() {
			if err := tv.SetLayoutConfig(l); err != nil {
				return fmt.Errorf("reload: %w", err)
			}
		}
	}
	d.backend.SetBorderColors(colors)
	d.session.WM.ApplySettings(cfg.Settings())

	d.keys.Reset()
	if err := d.keys.RegisterAll(cfg.Keys, cfg.ModKey); err != nil {
		d.log.Warn().Err(err).Msg("some key bindings could not be registered")
	}
	if err := d.pump.Reconfigure(pumpOptions(cfg)); err != nil {
		d.log.Warn().Err(err).Msg("some button bindings could not be registered")
	}
	if err := d.pump.RefreshScreens(); err != nil {
		d.log.Warn().Err(err).Msg("failed to refresh monitors")
	}

	d.cfg = cfg
	d.log.Info().Strs("files", res.Files).Msg("config reloaded")
	return nil
}

func (d *Daemon) logReload(err error) {
	if err != nil {
		d.log.Error().Err(err).Msg("config reload failed")
	}
	d.publish()
}

// spawn starts a configured command detached from the window manager.
func (d *Daemon) spawn(name string) error {
	argv, ok := d.cfg.Commands[name]
	if !ok || len(argv) == 0 {
		return fmt.Errorf("spawn: no command named %q", name)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s: %w", name, err)
	}
	d.log.Debug().Str("command", name).Int("pid", cmd.Process.Pid).Msg("spawned")
	go func() {
		if err := cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				d.log.Debug().Err(err).Str("command", name).Msg("spawned command failed")
			}
		}
	}()
	return nil
}

// publish mirrors the tagview state into EWMH properties for pagers.
func (d *Daemon) publish() {
	st := d.session.WM.Snapshot(d.session.In)
	for _, mon := range st.Monitors {
		if mon.Active && mon.Tagview != d.current {
			if err := d.conn.SetCurrentDesktop(mon.Tagview); err != nil {
				d.log.Debug().Err(err).Msg("failed to set current desktop")
			}
			d.current = mon.Tagview
		}
	}

	seen := make(map[platform.WindowID]bool, len(d.desktops))
	for _, tv := range st.Tagviews {
		for _, c := range tv.Clients {
			w := platform.WindowID(c.Window)
			seen[w] = true
			if prev, ok := d.desktops[w]; ok && prev == tv.Index {
				continue
			}
			if err := d.conn.SetWindowDesktop(xproto.Window(w), tv.Index); err != nil {
				d.log.Debug().Err(err).Uint32("window", c.Window).Msg("failed to set window desktop")
			}
			d.desktops[w] = tv.Index
		}
	}
	for w := range d.desktops {
		if !seen[w] {
			delete(d.desktops, w)
		}
	}
}

func pumpOptions(cfg *config.Config) events.Options {
	return events.Options{
		FocusFollowsMouse: cfg.FocusFollowsMouse,
		RespectStruts:     cfg.RespectStruts,
		Buttons: events.Buttons{
			Move:           expandButton(cfg.Buttons.Move, cfg.ModKey),
			Resize:         expandButton(cfg.Buttons.Resize, cfg.ModKey),
			ToggleFloating: expandButton(cfg.Buttons.ToggleFloating, cfg.ModKey),
		},
	}
}

func expandButton(seq, modKey string) string {
	if seq == "" || seq == config.Unbound {
		return ""
	}
	return hotkeys.ExpandMod(seq, modKey)
}

func borderColors(cfg *config.Config) (platform.BorderColors, error) {
	normal, focused, err := cfg.BorderPixels()
	if err != nil {
		return platform.BorderColors{}, err
	}
	return platform.BorderColors{Normal: normal, Focused: focused}, nil
}
