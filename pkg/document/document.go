// Package document provides a dynamic map-backed view over YAML
// configuration with dot-path accessors. Missing paths yield an absence
// flag instead of an error so callers can silently skip incomplete data.
package document

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a nested configuration payload. Values are scalars,
// []any, or map[string]any as produced by yaml.Unmarshal.
type Document map[string]any

// Load reads a YAML file into a Document.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse unmarshals YAML bytes into a Document.
func Parse(data []byte) (Document, error) {
	doc := make(Document)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return doc, nil
}

// Save writes the document back as block-style YAML.
func (d Document) Save(path string) error {
	data, err := yaml.Marshal(map[string]any(d))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// Get walks a dot-separated path through nested maps. The second return
// is false when any intermediate key is missing or not a map.
func (d Document) Get(dotPath string) (any, bool) {
	return getNested(map[string]any(d), dotPath)
}

// GetString returns the string at a path, or the fallback when absent
// or not a string.
func (d Document) GetString(dotPath, fallback string) string {
	value, ok := d.Get(dotPath)
	if !ok {
		return fallback
	}

	s, ok := value.(string)
	if !ok {
		return fallback
	}

	return s
}

// GetStringSlice returns the string list at a path, nil when absent.
// YAML sequences arrive as []any; non-string elements are dropped.
func (d Document) GetStringSlice(dotPath string) []string {
	value, ok := d.Get(dotPath)
	if !ok {
		return nil
	}

	raw, ok := value.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))

	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// Set writes a value at a dot-separated path, creating intermediate
// maps as needed and overwriting non-map intermediates.
func (d Document) Set(dotPath string, value any) {
	setNested(map[string]any(d), dotPath, value)
}

// asMap unwraps either map shape a nested node can carry: plain
// map[string]any from generic unmarshal, or Document when yaml decodes
// into the named type and propagates it to nested mappings.
func asMap(value any) (map[string]any, bool) {
	switch node := value.(type) {
	case map[string]any:
		return node, true
	case Document:
		return node, true
	default:
		return nil, false
	}
}

func getNested(data map[string]any, dotPath string) (any, bool) {
	var current any = data

	for _, key := range strings.Split(dotPath, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}

		current, ok = node[key]
		if !ok || current == nil {
			return nil, false
		}
	}

	return current, true
}

func setNested(data map[string]any, dotPath string, value any) {
	keys := strings.Split(dotPath, ".")
	current := data

	for _, key := range keys[:len(keys)-1] {
		next, ok := asMap(current[key])
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}

		current = next
	}

	current[keys[len(keys)-1]] = value
}
