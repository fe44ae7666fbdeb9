package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagwm/internal/monitor"
	"github.com/1broseidon/tagwm/internal/tiling"
	"github.com/1broseidon/tagwm/internal/wm"
)

// MaxTagviews is the largest number of tagviews that may be configured.
const MaxTagviews = 32

// Unbound is the key sequence that removes a default binding.
const Unbound = "none"

// Bar reserves a strip of each monitor for an external status bar.
type Bar struct {
	Height  int  `yaml:"height"`
	Top     bool `yaml:"top"`
	Visible bool `yaml:"visible"`
}

// Colors are border colours as "#rrggbb".
type Colors struct {
	NormalBorder  string `yaml:"normal_border"`
	FocusedBorder string `yaml:"focused_border"`
}

// TwoColumnsConfig configures the master/stack layout.
type TwoColumnsConfig struct {
	MasterCount int     `yaml:"master_count"`
	SplitRatio  float64 `yaml:"split_ratio"`
}

// GridConfig configures the grid layout.
type GridConfig struct {
	Gap             int  `yaml:"gap"`
	FlexibleLastRow bool `yaml:"flexible_last_row"`
}

// LayoutConfig holds the layout every tagview starts with and the initial
// parameters of each variant.
type LayoutConfig struct {
	Default    string           `yaml:"default"`
	TwoColumns TwoColumnsConfig `yaml:"two_columns"`
	Grid       GridConfig       `yaml:"grid"`
}

// Buttons are pointer bindings on client windows, e.g. "Mod-1".
type Buttons struct {
	Move           string `yaml:"move"`
	Resize         string `yaml:"resize"`
	ToggleFloating string `yaml:"toggle_floating"`
}

// Config holds the application configuration.
type Config struct {
	BorderWidth       int                 `yaml:"border_width"`
	Snap              int                 `yaml:"snap"`
	ResizeHints       bool                `yaml:"resize_hints"`
	FocusFollowsMouse bool                `yaml:"focus_follows_mouse"`
	RespectStruts     bool                `yaml:"respect_struts"`
	Bar               Bar                 `yaml:"bar"`
	Colors            Colors              `yaml:"colors"`
	Tagviews          []string            `yaml:"tagviews"`
	Layout            LayoutConfig        `yaml:"layout"`
	ModKey            string              `yaml:"mod_key"`
	LogLevel          string              `yaml:"log_level"`
	LogFile           string              `yaml:"log_file,omitempty"`
	Keys              map[string]string   `yaml:"keys"`
	Buttons           Buttons             `yaml:"buttons"`
	Commands          map[string][]string `yaml:"commands"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/tagwm/config.yaml, falling back
// to ~/.config/tagwm/config.yaml.
func DefaultConfigPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, "tagwm", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tagwm", "config.yaml"), nil
}

func defaultTagviewNames() []string {
	names := make([]string, 9)
	for i := range names {
		names[i] = strconv.Itoa(i + 1)
	}
	return names
}

// DefaultKeys returns the stock bindings for n tagviews. Only the first nine
// tagviews get number keys.
func DefaultKeys(n int) map[string]string {
	keys := map[string]string{
		wm.ActionFocusNext:        "Mod-j",
		wm.ActionFocusPrev:        "Mod-k",
		wm.ActionMasterInc:        "Mod-i",
		wm.ActionMasterDec:        "Mod-d",
		wm.ActionRatioDec:         "Mod-h",
		wm.ActionRatioInc:         "Mod-l",
		wm.ActionZoom:             "Mod-Return",
		wm.ActionKill:             "Mod-Shift-c",
		wm.ActionFocusMonitorPrev: "Mod-comma",
		wm.ActionFocusMonitorNext: "Mod-period",
		wm.ActionSendMonitorPrev:  "Mod-Shift-comma",
		wm.ActionSendMonitorNext:  "Mod-Shift-period",
		wm.ActionToggleFloating:   "Mod-Shift-space",
		wm.ActionToggleBar:        "Mod-b",
		wm.ActionCycleLayout:      "Mod-space",
		wm.ActionQuit:             "Mod-Shift-q",
		wm.ActionReload:           "Mod-Shift-r",
		"layout:two-columns":      "Mod-t",
		"layout:grid":             "Mod-g",
		"spawn:terminal":          "Mod-Shift-Return",
		"spawn:launcher":          "Mod-p",
	}
	for i := 1; i <= min(n, 9); i++ {
		keys[fmt.Sprintf("view:%d", i)] = fmt.Sprintf("Mod-%d", i)
		keys[fmt.Sprintf("send:%d", i)] = fmt.Sprintf("Mod-Shift-%d", i)
	}
	return keys
}

// DefaultConfig returns a configuration with the stock settings.
func DefaultConfig() *Config {
	names := defaultTagviewNames()
	return &Config{
		BorderWidth:       3,
		Snap:              32,
		ResizeHints:       false,
		FocusFollowsMouse: true,
		RespectStruts:     true,
		Bar:               Bar{Height: 0, Top: true, Visible: false},
		Colors:            Colors{NormalBorder: "#444444", FocusedBorder: "#005577"},
		Tagviews:          names,
		Layout: LayoutConfig{
			Default:    string(tiling.KindTwoColumns),
			TwoColumns: TwoColumnsConfig{MasterCount: 1, SplitRatio: 0.5},
			Grid:       GridConfig{Gap: 0, FlexibleLastRow: true},
		},
		ModKey:   "Mod1",
		LogLevel: "info",
		Keys:     DefaultKeys(len(names)),
		Buttons:  Buttons{Move: "Mod-1", Resize: "Mod-3", ToggleFloating: "Mod-2"},
		Commands: map[string][]string{
			"terminal": {"xterm"},
			"launcher": {"dmenu_run"},
		},
	}
}

// Settings converts the configuration into window manager settings.
func (c *Config) Settings() wm.Settings {
	return wm.Settings{
		BorderWidth: c.BorderWidth,
		Snap:        c.Snap,
		ResizeHints: c.ResizeHints,
		Chrome: monitor.Chrome{
			Height:  c.Bar.Height,
			Top:     c.Bar.Top,
			Visible: c.Bar.Visible,
		},
	}
}

// Layouts returns the initial layout of every variant, the default first.
func (c *Config) Layouts() []tiling.Layout {
	twoCols := tiling.TwoColumns{
		MasterCount: c.Layout.TwoColumns.MasterCount,
		SplitRatio:  c.Layout.TwoColumns.SplitRatio,
	}
	grid := tiling.Grid{
		Gap:             c.Layout.Grid.Gap,
		FlexibleLastRow: c.Layout.Grid.FlexibleLastRow,
	}
	if c.Layout.Default == string(tiling.KindGrid) {
		return []tiling.Layout{grid, twoCols}
	}
	return []tiling.Layout{twoCols, grid}
}

// BorderPixels returns the normal and focused border colours as pixel values.
func (c *Config) BorderPixels() (normal, focused uint32, err error) {
	if normal, err = ParseColor(c.Colors.NormalBorder); err != nil {
		return 0, 0, err
	}
	if focused, err = ParseColor(c.Colors.FocusedBorder); err != nil {
		return 0, 0, err
	}
	return normal, focused, nil
}

// ParseColor converts "#rrggbb" into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	return uint32(v), nil
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if c.Snap < 0 {
		return &ValidationError{Path: "snap", Err: fmt.Errorf("snap must be >= 0")}
	}
	if c.Bar.Height < 0 {
		return &ValidationError{Path: "bar.height", Err: fmt.Errorf("height must be >= 0")}
	}
	if _, err := ParseColor(c.Colors.NormalBorder); err != nil {
		return &ValidationError{Path: "colors.normal_border", Err: err}
	}
	if _, err := ParseColor(c.Colors.FocusedBorder); err != nil {
		return &ValidationError{Path: "colors.focused_border", Err: err}
	}

	if len(c.Tagviews) == 0 {
		return &ValidationError{Path: "tagviews", Err: fmt.Errorf("tagviews must not be empty")}
	}
	if len(c.Tagviews) > MaxTagviews {
		return &ValidationError{Path: "tagviews", Err: fmt.Errorf("at most %d tagviews are supported, got %d", MaxTagviews, len(c.Tagviews))}
	}
	for i, name := range c.Tagviews {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "tagviews", Err: fmt.Errorf("tagview %d has an empty name", i+1)}
		}
	}

	if _, err := tiling.ParseKind(c.Layout.Default); err != nil {
		return &ValidationError{Path: "layout.default", Err: err}
	}
	twoCols := tiling.TwoColumns{MasterCount: c.Layout.TwoColumns.MasterCount, SplitRatio: c.Layout.TwoColumns.SplitRatio}
	if twoCols.MasterCount < 0 {
		return &ValidationError{Path: "layout.two_columns.master_count", Err: twoCols.Validate()}
	}
	if err := twoCols.Validate(); err != nil {
		return &ValidationError{Path: "layout.two_columns.split_ratio", Err: err}
	}
	if err := (tiling.Grid{Gap: c.Layout.Grid.Gap}).Validate(); err != nil {
		return &ValidationError{Path: "layout.grid.gap", Err: err}
	}

	switch c.ModKey {
	case "Mod1", "Mod2", "Mod3", "Mod4", "Mod5", "Control", "Shift":
	default:
		return &ValidationError{Path: "mod_key", Err: fmt.Errorf("mod_key must be one of: Mod1..Mod5, Control, Shift")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	for _, name := range sortedKeys(c.Keys) {
		if err := c.validateKey(name); err != nil {
			return &ValidationError{Path: "keys." + name, Err: err}
		}
	}

	buttons := map[string]string{
		"buttons.move":            c.Buttons.Move,
		"buttons.resize":          c.Buttons.Resize,
		"buttons.toggle_floating": c.Buttons.ToggleFloating,
	}
	for _, path := range sortedKeys(buttons) {
		if err := validateButton(buttons[path]); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	for _, name := range sortedKeys(c.Commands) {
		if len(c.Commands[name]) == 0 || strings.TrimSpace(c.Commands[name][0]) == "" {
			return &ValidationError{Path: "commands." + name, Err: fmt.Errorf("command must not be empty")}
		}
	}
	return nil
}

func (c *Config) validateKey(name string) error {
	if strings.TrimSpace(c.Keys[name]) == "" {
		return fmt.Errorf("key sequence must not be empty")
	}
	action, err := wm.ParseAction(name)
	if err != nil {
		return err
	}
	switch action.Name {
	case wm.ActionView, wm.ActionSend:
		if action.Tagview >= len(c.Tagviews) {
			return fmt.Errorf("tagview %d does not exist (%d configured)", action.Tagview+1, len(c.Tagviews))
		}
	case wm.ActionSpawn:
		if _, ok := c.Commands[action.Command]; !ok {
			return fmt.Errorf("command %q is not defined under commands", action.Command)
		}
	}
	return nil
}

func validateButton(seq string) error {
	if seq == "" || seq == Unbound {
		return nil
	}
	parts := strings.Split(seq, "-")
	switch parts[len(parts)-1] {
	case "1", "2", "3", "4", "5":
		return nil
	}
	return fmt.Errorf("button binding %q must end in a button number 1-5", seq)
}
