package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tagwm/internal/tiling"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Tagviews) != 9 {
		t.Fatalf("expected 9 tagviews, got %d", len(cfg.Tagviews))
	}
	if cfg.Keys["view:9"] != "Mod-9" || cfg.Keys["send:1"] != "Mod-Shift-1" {
		t.Fatalf("unexpected number keys: view:9=%q send:1=%q", cfg.Keys["view:9"], cfg.Keys["send:1"])
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.BorderWidth != 3 || res.Config.Snap != 32 {
		t.Fatalf("expected defaults, got border_width=%d snap=%d", res.Config.BorderWidth, res.Config.Snap)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Layout.Default != string(tiling.KindTwoColumns) {
		t.Fatalf("expected layout.default %q, got %q", tiling.KindTwoColumns, res.Config.Layout.Default)
	}
	if !res.Config.FocusFollowsMouse || !res.Config.RespectStruts {
		t.Fatal("expected focus_follows_mouse and respect_struts to default to true")
	}
}

func TestLoadFromPath_UnknownKeyFails(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "border_width: 2\nborder_colour: red\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected unknown key to fail")
	}
	if !strings.Contains(err.Error(), "border_colour") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestLoadFromPath_BadSplitRatioReportsPath(t *testing.T) {
	data := strings.Join([]string{
		"layout:",
		"  two_columns:",
		"    split_ratio: 1.0",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "layout.two_columns.split_ratio" {
		t.Fatalf("expected path layout.two_columns.split_ratio, got %q", verr.Path)
	}
	if !errors.Is(err, tiling.ErrInvalidLayoutConfig) {
		t.Fatalf("expected ErrInvalidLayoutConfig, got %v", err)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 3 {
		t.Fatalf("expected file source on line 3, got %+v", verr.Source)
	}
	if !strings.HasPrefix(err.Error(), verr.Source.File+":3:") {
		t.Fatalf("expected file:line prefix, got %q", err.Error())
	}
}

func TestLoadFromPath_PartialOverridesKeepDefaults(t *testing.T) {
	data := strings.Join([]string{
		"bar:",
		"  height: 18",
		"layout:",
		"  default: grid",
		"  grid:",
		"    gap: 4",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Bar.Height != 18 || !cfg.Bar.Top || cfg.Bar.Visible {
		t.Fatalf("unexpected bar %+v", cfg.Bar)
	}
	if !cfg.Layout.Grid.FlexibleLastRow || cfg.Layout.Grid.Gap != 4 {
		t.Fatalf("unexpected grid %+v", cfg.Layout.Grid)
	}

	layouts := cfg.Layouts()
	if layouts[0].Kind() != tiling.KindGrid {
		t.Fatalf("expected grid first, got %s", layouts[0].Kind())
	}
	settings := cfg.Settings()
	if settings.Chrome.Height != 18 || settings.BorderWidth != 3 {
		t.Fatalf("unexpected settings %+v", settings)
	}
}

func TestLoadFromPath_TagviewsResizeNumberKeys(t *testing.T) {
	data := strings.Join([]string{
		"tagviews: [web, code, chat]",
		"keys:",
		"  zoom: none",
		"  view:2: Mod-w",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	keys := res.Config.Keys
	if _, ok := keys["view:4"]; ok {
		t.Fatal("expected no binding for tagview 4")
	}
	if keys["view:3"] != "Mod-3" || keys["view:2"] != "Mod-w" {
		t.Fatalf("unexpected view keys: %v", keys)
	}
	if _, ok := keys["zoom"]; ok {
		t.Fatal("expected zoom to be unbound")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative border", func(c *Config) { c.BorderWidth = -1 }, "border_width"},
		{"negative snap", func(c *Config) { c.Snap = -5 }, "snap"},
		{"no tagviews", func(c *Config) { c.Tagviews = nil }, "tagviews"},
		{"too many tagviews", func(c *Config) { c.Tagviews = make([]string, MaxTagviews+1) }, "tagviews"},
		{"bad layout", func(c *Config) { c.Layout.Default = "spiral" }, "layout.default"},
		{"negative master", func(c *Config) { c.Layout.TwoColumns.MasterCount = -1 }, "layout.two_columns.master_count"},
		{"bad colour", func(c *Config) { c.Colors.FocusedBorder = "blue" }, "colors.focused_border"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"empty key", func(c *Config) { c.Keys["zoom"] = " " }, "keys.zoom"},
		{"unknown action", func(c *Config) { c.Keys["dance"] = "Mod-x" }, "keys.dance"},
		{"view out of range", func(c *Config) { c.Keys["view:12"] = "Mod-F12" }, "keys.view:12"},
		{"spawn without command", func(c *Config) { c.Keys["spawn:browser"] = "Mod-w" }, "keys.spawn:browser"},
		{"bad button", func(c *Config) { c.Buttons.Move = "Mod-x" }, "buttons.move"},
		{"empty command", func(c *Config) { c.Commands["terminal"] = nil }, "commands.terminal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestLoadFromPath_IncludeOverriddenByParent(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "colors.yaml", "colors:\n  normal_border: \"#111111\"\n  focused_border: \"#222222\"\n")
	path := writeConfig(t, dir, "config.yaml", "include: colors.yaml\ncolors:\n  focused_border: \"#333333\"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Colors.NormalBorder != "#111111" || res.Config.Colors.FocusedBorder != "#333333" {
		t.Fatalf("unexpected colours %+v", res.Config.Colors)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 loaded files, got %v", res.Files)
	}
	normal, focused, err := res.Config.BorderPixels()
	if err != nil {
		t.Fatalf("border pixels: %v", err)
	}
	if normal != 0x111111 || focused != 0x333333 {
		t.Fatalf("unexpected pixels %06x %06x", normal, focused)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	path := writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	if _, err := LoadFromPath(path); err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryInNameOrder(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "conf.d")
	if err := os.Mkdir(conf, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, conf, "10-snap.yaml", "snap: 5\n")
	writeConfig(t, conf, "20-snap.yml", "snap: 9\n")
	writeConfig(t, conf, "notes.txt", "snap: 99\n")
	path := writeConfig(t, dir, "config.yaml", "include: conf.d\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Snap != 9 {
		t.Fatalf("expected later include to win, got snap=%d", res.Config.Snap)
	}
	if len(res.Files) != 3 || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("unexpected load order %v", res.Files)
	}
	if src := res.Sources["snap"]; filepath.Base(src.File) != "20-snap.yml" {
		t.Fatalf("expected snap sourced from 20-snap.yml, got %+v", src)
	}
}

func TestLoadFromPath_SharedIncludeLoadedOnce(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "common.yaml", "snap: 4\n")
	writeConfig(t, dir, "a.yaml", "include: common.yaml\n")
	path := writeConfig(t, dir, "config.yaml", "include: [a.yaml, common.yaml]\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected common.yaml once, got %v", res.Files)
	}
	if res.Config.Snap != 4 {
		t.Fatalf("unexpected snap %d", res.Config.Snap)
	}
}

func TestLoadFromPath_MissingIncludeReportsPosition(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "snap: 3\ninclude: nope.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), ":2:10: include \"nope.yaml\"") {
		t.Fatalf("expected positioned include error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "snap: 10\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "snap")
	if err != nil {
		t.Fatalf("explain snap: %v", err)
	}
	if val != 10 || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("unexpected snap explanation: %v %+v", val, src)
	}

	val, src, err = Explain(res, "layout.two_columns.split_ratio")
	if err != nil {
		t.Fatalf("explain split_ratio: %v", err)
	}
	if val != 0.5 || src.Kind != SourceDefault {
		t.Fatalf("unexpected split_ratio explanation: %v %+v", val, src)
	}

	val, _, err = Explain(res, "keys.view:3")
	if err != nil {
		t.Fatalf("explain keys.view:3: %v", err)
	}
	if val != "Mod-3" {
		t.Fatalf("expected Mod-3, got %v", val)
	}

	if _, _, err := Explain(res, "bar.width"); err == nil {
		t.Fatal("expected unknown path error")
	}
}

func TestSaveTo_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagwm", "config.yaml")
	cfg := DefaultConfig()
	cfg.Snap = 7
	cfg.Tagviews = []string{"a", "b"}
	cfg.Keys = DefaultKeys(2)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Snap != 7 || len(res.Config.Tagviews) != 2 {
		t.Fatalf("unexpected loaded config: snap=%d tagviews=%v", res.Config.Snap, res.Config.Tagviews)
	}
}

func TestDefaultConfigPath_HonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(dir, "tagwm", "config.yaml") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestParseColor(t *testing.T) {
	if v, err := ParseColor("#005577"); err != nil || v != 0x005577 {
		t.Fatalf("ParseColor(#005577) = %06x, %v", v, err)
	}
	for _, bad := range []string{"005577", "#05577", "#gg0000", ""} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}
