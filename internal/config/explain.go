package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths follow the file layout, for example:
//
//	border_width
//	bar.height
//	colors.focused_border
//	layout.two_columns.split_ratio
//	keys.view:3
//	commands.terminal
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue walks the marshalled config so that every key the file accepts
// can be explained without a hand-written table.
func lookupValue(cfg *Config, path string) (any, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	rest := path
	for rest != "" {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		next, remaining, ok := lookupChild(node, rest)
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node, rest = next, remaining
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return value, nil
}

// lookupChild matches the longest key that prefixes path, so map keys that
// contain dots still resolve.
func lookupChild(node *yaml.Node, path string) (*yaml.Node, string, bool) {
	var best *yaml.Node
	bestKey := ""
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if key != path && !strings.HasPrefix(path, key+".") {
			continue
		}
		if len(key) > len(bestKey) {
			best, bestKey = node.Content[i+1], key
		}
	}
	if best == nil {
		return nil, "", false
	}
	return best, strings.TrimPrefix(strings.TrimPrefix(path, bestKey), "."), true
}
