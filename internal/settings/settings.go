// Package settings reads the scene file that managers populate themselves
// from at Init.
//
// The file is YAML, kept as a yaml.Node tree so that mapping order survives.
// Values are addressed by slash paths: "/Sprites/hero/Position" walks mapping
// keys, and a numeric segment indexes a sequence ("/Spawns/0/Count").
// Getters never fail; a missing or malformed value yields the default.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/zengine/internal/config"
)

// Settings is a parsed scene file.
type Settings struct {
	root   *yaml.Node
	source string
}

// Parse builds Settings from YAML bytes. source is reported by Source.
func Parse(data []byte, source string) (*Settings, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", source, err)
	}
	s := &Settings{source: source}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		s.root = doc.Content[0]
	}
	return s, nil
}

// Load reads the scene file.
// Search order: customPath -> ~/.zengine/scene.yaml -> ./configs/scene.yaml -> embedded default
func Load(customPath string) (*Settings, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("settings: read %s: %w", customPath, err)
		}
		return Parse(data, customPath)
	}
	if data, path, err := config.Find("scene.yaml"); err == nil {
		if s, err := Parse(data, path); err == nil {
			return s, nil
		}
	}
	return Parse(config.DefaultSceneYAML(), "embedded:scene.yaml")
}

// Empty returns Settings with no values.
func Empty() *Settings {
	return &Settings{source: "empty"}
}

// Source names where the settings came from.
func (s *Settings) Source() string { return s.source }

func (s *Settings) lookup(path string) *yaml.Node {
	if s == nil || s.root == nil {
		return nil
	}
	n := s.root
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		n = child(n, seg)
		if n == nil {
			return nil
		}
	}
	return n
}

func child(n *yaml.Node, seg string) *yaml.Node {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == seg {
				return n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		i, err := strconv.Atoi(seg)
		if err == nil && i >= 0 && i < len(n.Content) {
			return n.Content[i]
		}
	}
	return nil
}

func (s *Settings) scalar(path string) (string, bool) {
	n := s.lookup(path)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}

// Has reports whether path resolves to any node.
func (s *Settings) Has(path string) bool {
	return s.lookup(path) != nil
}

// GetString returns the scalar at path, or def.
func (s *Settings) GetString(path, def string) string {
	if v, ok := s.scalar(path); ok {
		return v
	}
	return def
}

// GetInt returns the integer at path, or def.
func (s *Settings) GetInt(path string, def int) int {
	v, ok := s.scalar(path)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// GetBool returns the boolean at path, or def.
func (s *Settings) GetBool(path string, def bool) bool {
	n := s.lookup(path)
	if n == nil || n.Kind != yaml.ScalarNode {
		return def
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return def
	}
	return b
}

// GetFloat returns the number at path, or def.
func (s *Settings) GetFloat(path string, def float32) float32 {
	v, ok := s.scalar(path)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// GetFloats returns a numeric sequence at path. A scalar is returned as a
// one-element slice.
func (s *Settings) GetFloats(path string) ([]float32, bool) {
	n := s.lookup(path)
	if n == nil {
		return nil, false
	}
	if n.Kind == yaml.ScalarNode {
		f, err := strconv.ParseFloat(n.Value, 32)
		if err != nil {
			return nil, false
		}
		return []float32{float32(f)}, true
	}
	if n.Kind != yaml.SequenceNode {
		return nil, false
	}
	out := make([]float32, 0, len(n.Content))
	for _, c := range n.Content {
		f, err := strconv.ParseFloat(c.Value, 32)
		if err != nil {
			return nil, false
		}
		out = append(out, float32(f))
	}
	return out, true
}

// GetStrings returns a sequence of scalars at path.
func (s *Settings) GetStrings(path string) []string {
	n := s.lookup(path)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind == yaml.ScalarNode {
			out = append(out, c.Value)
		}
	}
	return out
}

// Count returns the number of entries of the mapping or sequence at path.
func (s *Settings) Count(path string) int {
	n := s.lookup(path)
	if n == nil {
		return 0
	}
	switch n.Kind {
	case yaml.MappingNode:
		return len(n.Content) / 2
	case yaml.SequenceNode:
		return len(n.Content)
	}
	return 0
}

// Keys returns the mapping keys at path in file order.
func (s *Settings) Keys(path string) []string {
	n := s.lookup(path)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, n.Content[i].Value)
	}
	return out
}

// Join builds a settings path from segments.
func Join(segs ...string) string {
	return "/" + strings.Join(segs, "/")
}
