// Package material holds the read-only table of media and bulk materials a
// detector description may refer to by name.
package material

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMaterial is matched by every *UnknownMaterialError.
var ErrUnknownMaterial = errors.New("unknown material")

// UnknownMaterialError reports a material name missing from a Table.
type UnknownMaterialError struct {
	Name string
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("unknown material %q", e.Name)
}

func (e *UnknownMaterialError) Is(target error) bool {
	return target == ErrUnknownMaterial
}

// Material describes the bulk properties of a medium. Values are copied
// into every detector that uses them.
type Material struct {
	Name                 string  // lookup key, e.g. "HPGe"
	Symbol               string  // chemical symbol or short tag
	RelativePermittivity float64 // ε_r, dimensionless
	Density              float64 // kg/m³
	Semiconducting       bool
}

func (m Material) String() string {
	return m.Name
}

// Table resolves material names.
type Table interface {
	Lookup(name string) (Material, error)
}

// MapTable is a Table backed by a map. It is never mutated after NewTable.
type MapTable struct {
	byName map[string]Material
}

// NewTable returns a table holding exactly the given materials.
func NewTable(ms ...Material) *MapTable {
	t := &MapTable{byName: make(map[string]Material, len(ms))}
	for _, m := range ms {
		t.byName[m.Name] = m
	}
	return t
}

// Lookup returns the material registered under name.
func (t *MapTable) Lookup(name string) (Material, error) {
	m, ok := t.byName[name]
	if !ok {
		return Material{}, &UnknownMaterialError{Name: name}
	}
	return m, nil
}

// Names returns the registered names in sorted order.
func (t *MapTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultTable is the process-wide material table.
var DefaultTable = NewTable(
	Material{Name: "vacuum", Symbol: "vacuum", RelativePermittivity: 1.0, Density: 0},
	Material{Name: "HPGe", Symbol: "Ge", RelativePermittivity: 16.0, Density: 5323, Semiconducting: true},
	Material{Name: "Ge", Symbol: "Ge", RelativePermittivity: 16.0, Density: 5323, Semiconducting: true},
	Material{Name: "Si", Symbol: "Si", RelativePermittivity: 11.7, Density: 2329, Semiconducting: true},
	Material{Name: "CdZnTe", Symbol: "CZT", RelativePermittivity: 10.9, Density: 5780, Semiconducting: true},
	Material{Name: "Al", Symbol: "Al", RelativePermittivity: 10.0, Density: 2700},
	Material{Name: "Cu", Symbol: "Cu", RelativePermittivity: 1e6, Density: 8960},
	Material{Name: "Pb", Symbol: "Pb", RelativePermittivity: 1e6, Density: 11340},
	Material{Name: "LAr", Symbol: "Ar", RelativePermittivity: 1.505, Density: 1396},
	Material{Name: "PTFE", Symbol: "PTFE", RelativePermittivity: 2.1, Density: 2200},
)
