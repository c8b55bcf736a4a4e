// Package config provides typed, path-tracking access to an already
// deserialized detector configuration tree.
package config

import (
	"errors"
	"fmt"
	"sort"
)

// Tree is the root of a deserialized configuration.
type Tree = map[string]any

// ErrMissingField is matched by every *MissingFieldError.
var ErrMissingField = errors.New("missing config field")

// MissingFieldError reports an absent required key.
type MissingFieldError struct {
	Path string // dotted path of the missing key, e.g. "world.grid.coordinates"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required config field %q", e.Path)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// FieldTypeError reports a key whose value has the wrong type.
type FieldTypeError struct {
	Path string
	Want string
	Got  any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("config field %q: expected %s, got %T", e.Path, e.Want, e.Got)
}

// Node is a position in the tree together with the path that led to it.
type Node struct {
	path  string
	value any
}

// Root returns the node for the whole tree.
func Root(t Tree) Node {
	return Node{value: t}
}

// At wraps an arbitrary value found at path.
func At(path string, v any) Node {
	return Node{path: path, value: v}
}

// Path returns the dotted path of n.
func (n Node) Path() string {
	return n.path
}

// Value returns the raw value.
func (n Node) Value() any {
	return n.value
}

func (n Node) child(key string) string {
	if n.path == "" {
		return key
	}
	return n.path + "." + key
}

// Map returns n as a map.
func (n Node) Map() (map[string]any, error) {
	m, ok := n.value.(map[string]any)
	if !ok {
		return nil, &FieldTypeError{Path: n.path, Want: "mapping", Got: n.value}
	}
	return m, nil
}

// Has reports whether n is a mapping containing key.
func (n Node) Has(key string) bool {
	m, ok := n.value.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// Get returns the required child key.
func (n Node) Get(key string) (Node, error) {
	m, err := n.Map()
	if err != nil {
		return Node{}, err
	}
	v, ok := m[key]
	if !ok {
		return Node{}, &MissingFieldError{Path: n.child(key)}
	}
	return Node{path: n.child(key), value: v}, nil
}

// Lookup returns the child key and whether it was present.
func (n Node) Lookup(key string) (Node, bool) {
	m, ok := n.value.(map[string]any)
	if !ok {
		return Node{}, false
	}
	v, ok := m[key]
	if !ok {
		return Node{}, false
	}
	return Node{path: n.child(key), value: v}, true
}

// GetPath follows a chain of keys.
func (n Node) GetPath(keys ...string) (Node, error) {
	cur := n
	for _, k := range keys {
		next, err := cur.Get(k)
		if err != nil {
			return Node{}, err
		}
		cur = next
	}
	return cur, nil
}

// Text returns n as a string.
func (n Node) Text() (string, error) {
	s, ok := n.value.(string)
	if !ok {
		return "", &FieldTypeError{Path: n.path, Want: "string", Got: n.value}
	}
	return s, nil
}

// Float returns n as a float64. Any Go numeric type is accepted.
func (n Node) Float() (float64, error) {
	switch v := n.value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint:
		return float64(v), nil
	}
	return 0, &FieldTypeError{Path: n.path, Want: "number", Got: n.value}
}

// Int returns n as an int. Floats with an integral value are accepted.
func (n Node) Int() (int, error) {
	switch v := n.value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, &FieldTypeError{Path: n.path, Want: "integer", Got: n.value}
}

// Bool returns n as a bool.
func (n Node) Bool() (bool, error) {
	b, ok := n.value.(bool)
	if !ok {
		return false, &FieldTypeError{Path: n.path, Want: "boolean", Got: n.value}
	}
	return b, nil
}

// List returns the elements of a sequence as nodes indexed by position.
func (n Node) List() ([]Node, error) {
	items, ok := n.value.([]any)
	if !ok {
		return nil, &FieldTypeError{Path: n.path, Want: "sequence", Got: n.value}
	}
	out := make([]Node, len(items))
	for i, it := range items {
		out[i] = Node{path: fmt.Sprintf("%s[%d]", n.path, i), value: it}
	}
	return out, nil
}

// StringMap returns a mapping whose values are all strings.
func (n Node) StringMap() (map[string]string, error) {
	m, err := n.Map()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, &FieldTypeError{Path: n.child(k), Want: "string", Got: v}
		}
		out[k] = s
	}
	return out, nil
}

// Keys returns the sorted keys of a mapping node.
func (n Node) Keys() []string {
	m, ok := n.value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FloatField returns the required numeric child key.
func (n Node) FloatField(key string) (float64, error) {
	c, err := n.Get(key)
	if err != nil {
		return 0, err
	}
	return c.Float()
}

// StringField returns the required string child key.
func (n Node) StringField(key string) (string, error) {
	c, err := n.Get(key)
	if err != nil {
		return "", err
	}
	return c.Text()
}
