package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind says where an effective value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source locates a value: a built-in default or a position in a YAML file.
type Source struct {
	Kind   SourceKind
	Name   string
	File   string
	Line   int
	Column int
}

func fileSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// LoadResult is a loaded configuration together with where each key was set.
type LoadResult struct {
	Config *Config
	// Sources maps dotted key paths to the file position that set them last.
	Sources map[string]Source
	// Files lists every file read, includes before their includer.
	Files []string
}

// LoadFromPath reads path, merges its includes and validates the result. A
// missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	w := &includeWalker{
		seen:    map[string]bool{},
		sources: map[string]Source{},
	}
	raw := RawConfig{}
	if _, err := os.Stat(path); err == nil {
		if raw, err = w.load(path, nil); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, w.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: w.sources, Files: w.files}, nil
}

// includeWalker loads a file tree depth first. Included files merge before
// the file naming them, so the includer's own keys win.
type includeWalker struct {
	seen    map[string]bool
	sources map[string]Source
	files   []string
}

func (w *includeWalker) load(path string, chain []string) (RawConfig, error) {
	file := canonicalPath(path)
	if slices.Contains(chain, file) {
		return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(chain, " -> "), file)
	}
	if w.seen[file] {
		return RawConfig{}, nil
	}
	w.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: parse yaml: %w", file, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}

	root := documentRoot(&doc)
	merged := RawConfig{}
	for _, ref := range includeNodes(root) {
		targets, err := expandInclude(file, ref.Value)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s:%d:%d: include %q: %w", file, ref.Line, ref.Column, ref.Value, err)
		}
		for _, target := range targets {
			inc, err := w.load(target, append(chain, file))
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(inc)
		}
	}

	recordSources(root, file, "", w.sources)
	w.files = append(w.files, file)
	return merged.merge(own), nil
}

// locate attaches the position of the offending key to a validation error.
func (w *includeWalker) locate(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := w.sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks where it can so one file reached two ways
// is loaded once.
func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// expandInclude turns an include entry into files. Relative entries resolve
// against the including file, "~" against the home directory, and a directory
// expands to its *.yaml and *.yml files in name order.
func expandInclude(from, entry string) ([]string, error) {
	if entry == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if entry == "~" || strings.HasPrefix(entry, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		entry = filepath.Join(home, strings.TrimPrefix(entry, "~"))
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(filepath.Dir(from), entry)
	}

	info, err := os.Stat(entry)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{entry}, nil
	}
	entries, err := os.ReadDir(entry)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			if !e.IsDir() {
				out = append(out, filepath.Join(entry, e.Name()))
			}
		}
	}
	// ReadDir already sorts by name.
	return out, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// includeNodes returns the scalar entries of a top-level include key.
func includeNodes(root *yaml.Node) []*yaml.Node {
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []*yaml.Node{val}
		case yaml.SequenceNode:
			var out []*yaml.Node
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					out = append(out, item)
				}
			}
			return out
		}
		return nil
	}
	return nil
}

// recordSources stores the position of every mapping key below n under its
// dotted path. Sequences are recorded as a whole.
func recordSources(n *yaml.Node, file, prefix string, out map[string]Source) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			path := n.Content[i].Value
			if prefix != "" {
				path = prefix + "." + path
			}
			val := n.Content[i+1]
			out[path] = fileSource(file, val)
			recordSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = fileSource(file, n)
		}
	}
}
