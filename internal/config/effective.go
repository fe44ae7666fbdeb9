package config

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over the defaults. Default number-key
// bindings follow the configured tagview count; user keys are laid over them
// and bindings set to "none" are dropped.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.Snap != nil {
		cfg.Snap = *raw.Snap
	}
	if raw.ResizeHints != nil {
		cfg.ResizeHints = *raw.ResizeHints
	}
	if raw.FocusFollowsMouse != nil {
		cfg.FocusFollowsMouse = *raw.FocusFollowsMouse
	}
	if raw.RespectStruts != nil {
		cfg.RespectStruts = *raw.RespectStruts
	}
	if raw.Bar != nil {
		cfg.Bar.Height = derefInt(raw.Bar.Height, cfg.Bar.Height)
		cfg.Bar.Top = derefBool(raw.Bar.Top, cfg.Bar.Top)
		cfg.Bar.Visible = derefBool(raw.Bar.Visible, cfg.Bar.Visible)
	}
	if raw.Colors != nil {
		cfg.Colors.NormalBorder = derefString(raw.Colors.NormalBorder, cfg.Colors.NormalBorder)
		cfg.Colors.FocusedBorder = derefString(raw.Colors.FocusedBorder, cfg.Colors.FocusedBorder)
	}
	if raw.Tagviews != nil {
		cfg.Tagviews = append([]string(nil), raw.Tagviews...)
		cfg.Keys = DefaultKeys(len(cfg.Tagviews))
	}
	if raw.Layout != nil {
		cfg.Layout.Default = derefString(raw.Layout.Default, cfg.Layout.Default)
		if tc := raw.Layout.TwoColumns; tc != nil {
			cfg.Layout.TwoColumns.MasterCount = derefInt(tc.MasterCount, cfg.Layout.TwoColumns.MasterCount)
			if tc.SplitRatio != nil {
				cfg.Layout.TwoColumns.SplitRatio = *tc.SplitRatio
			}
		}
		if g := raw.Layout.Grid; g != nil {
			cfg.Layout.Grid.Gap = derefInt(g.Gap, cfg.Layout.Grid.Gap)
			cfg.Layout.Grid.FlexibleLastRow = derefBool(g.FlexibleLastRow, cfg.Layout.Grid.FlexibleLastRow)
		}
	}
	if raw.ModKey != nil {
		cfg.ModKey = *raw.ModKey
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	for _, action := range sortedKeys(raw.Keys) {
		seq := raw.Keys[action]
		if seq == Unbound {
			delete(cfg.Keys, action)
			continue
		}
		cfg.Keys[action] = seq
	}
	if raw.Buttons != nil {
		cfg.Buttons.Move = derefString(raw.Buttons.Move, cfg.Buttons.Move)
		cfg.Buttons.Resize = derefString(raw.Buttons.Resize, cfg.Buttons.Resize)
		cfg.Buttons.ToggleFloating = derefString(raw.Buttons.ToggleFloating, cfg.Buttons.ToggleFloating)
	}
	cfg.Commands = mergeCommands(cfg.Commands, raw.Commands)

	return cfg, nil
}

func mergeCommands(base map[string][]string, overlay map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base)+len(overlay))
	for name, argv := range base {
		out[name] = argv
	}
	for name, argv := range overlay {
		out[name] = argv
	}
	return out
}

func mergeStringMap(base map[string]string, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
