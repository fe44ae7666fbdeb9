package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawBar struct {
	Height  *int  `yaml:"height"`
	Top     *bool `yaml:"top"`
	Visible *bool `yaml:"visible"`
}

type RawColors struct {
	NormalBorder  *string `yaml:"normal_border"`
	FocusedBorder *string `yaml:"focused_border"`
}

type RawTwoColumns struct {
	MasterCount *int     `yaml:"master_count"`
	SplitRatio  *float64 `yaml:"split_ratio"`
}

type RawGrid struct {
	Gap             *int  `yaml:"gap"`
	FlexibleLastRow *bool `yaml:"flexible_last_row"`
}

type RawLayoutConfig struct {
	Default    *string        `yaml:"default"`
	TwoColumns *RawTwoColumns `yaml:"two_columns"`
	Grid       *RawGrid       `yaml:"grid"`
}

type RawButtons struct {
	Move           *string `yaml:"move"`
	Resize         *string `yaml:"resize"`
	ToggleFloating *string `yaml:"toggle_floating"`
}

// RawConfig is one YAML file as written. Absent keys stay nil so that files
// can be layered before defaults are applied.
type RawConfig struct {
	Include           IncludeList         `yaml:"include"`
	BorderWidth       *int                `yaml:"border_width"`
	Snap              *int                `yaml:"snap"`
	ResizeHints       *bool               `yaml:"resize_hints"`
	FocusFollowsMouse *bool               `yaml:"focus_follows_mouse"`
	RespectStruts     *bool               `yaml:"respect_struts"`
	Bar               *RawBar             `yaml:"bar"`
	Colors            *RawColors          `yaml:"colors"`
	Tagviews          []string            `yaml:"tagviews"`
	Layout            *RawLayoutConfig    `yaml:"layout"`
	ModKey            *string             `yaml:"mod_key"`
	LogLevel          *string             `yaml:"log_level"`
	LogFile           *string             `yaml:"log_file"`
	Keys              map[string]string   `yaml:"keys"`
	Buttons           *RawButtons         `yaml:"buttons"`
	Commands          map[string][]string `yaml:"commands"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	if overlay.Snap != nil {
		out.Snap = overlay.Snap
	}
	if overlay.ResizeHints != nil {
		out.ResizeHints = overlay.ResizeHints
	}
	if overlay.FocusFollowsMouse != nil {
		out.FocusFollowsMouse = overlay.FocusFollowsMouse
	}
	if overlay.RespectStruts != nil {
		out.RespectStruts = overlay.RespectStruts
	}
	if overlay.Bar != nil {
		var base RawBar
		if out.Bar != nil {
			base = *out.Bar
		}
		merged := mergeRawBar(base, *overlay.Bar)
		out.Bar = &merged
	}
	if overlay.Colors != nil {
		var base RawColors
		if out.Colors != nil {
			base = *out.Colors
		}
		merged := mergeRawColors(base, *overlay.Colors)
		out.Colors = &merged
	}
	if overlay.Tagviews != nil {
		out.Tagviews = append([]string(nil), overlay.Tagviews...)
	}
	if overlay.Layout != nil {
		var base RawLayoutConfig
		if out.Layout != nil {
			base = *out.Layout
		}
		merged := mergeRawLayout(base, *overlay.Layout)
		out.Layout = &merged
	}
	if overlay.ModKey != nil {
		out.ModKey = overlay.ModKey
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != nil {
		out.LogFile = overlay.LogFile
	}
	if overlay.Keys != nil {
		out.Keys = mergeStringMap(out.Keys, overlay.Keys)
	}
	if overlay.Buttons != nil {
		var base RawButtons
		if out.Buttons != nil {
			base = *out.Buttons
		}
		merged := mergeRawButtons(base, *overlay.Buttons)
		out.Buttons = &merged
	}
	if overlay.Commands != nil {
		out.Commands = mergeCommands(out.Commands, overlay.Commands)
	}

	return out
}

func mergeRawBar(base RawBar, overlay RawBar) RawBar {
	out := base
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Visible != nil {
		out.Visible = overlay.Visible
	}
	return out
}

func mergeRawColors(base RawColors, overlay RawColors) RawColors {
	out := base
	if overlay.NormalBorder != nil {
		out.NormalBorder = overlay.NormalBorder
	}
	if overlay.FocusedBorder != nil {
		out.FocusedBorder = overlay.FocusedBorder
	}
	return out
}

func mergeRawLayout(base RawLayoutConfig, overlay RawLayoutConfig) RawLayoutConfig {
	out := base
	if overlay.Default != nil {
		out.Default = overlay.Default
	}
	if overlay.TwoColumns != nil {
		merged := RawTwoColumns{}
		if out.TwoColumns != nil {
			merged = *out.TwoColumns
		}
		if overlay.TwoColumns.MasterCount != nil {
			merged.MasterCount = overlay.TwoColumns.MasterCount
		}
		if overlay.TwoColumns.SplitRatio != nil {
			merged.SplitRatio = overlay.TwoColumns.SplitRatio
		}
		out.TwoColumns = &merged
	}
	if overlay.Grid != nil {
		merged := RawGrid{}
		if out.Grid != nil {
			merged = *out.Grid
		}
		if overlay.Grid.Gap != nil {
			merged.Gap = overlay.Grid.Gap
		}
		if overlay.Grid.FlexibleLastRow != nil {
			merged.FlexibleLastRow = overlay.Grid.FlexibleLastRow
		}
		out.Grid = &merged
	}
	return out
}

func mergeRawButtons(base RawButtons, overlay RawButtons) RawButtons {
	out := base
	if overlay.Move != nil {
		out.Move = overlay.Move
	}
	if overlay.Resize != nil {
		out.Resize = overlay.Resize
	}
	if overlay.ToggleFloating != nil {
		out.ToggleFloating = overlay.ToggleFloating
	}
	return out
}
