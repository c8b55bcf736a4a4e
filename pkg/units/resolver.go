package units

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedUnit is matched by every *UnrecognizedUnitError.
var ErrUnrecognizedUnit = errors.New("unrecognized unit")

// UnrecognizedUnitError reports a unit symbol that the registry does not
// know for the requested kind.
type UnrecognizedUnitError struct {
	Kind   Kind
	Symbol string
}

func (e *UnrecognizedUnitError) Error() string {
	return fmt.Sprintf("unrecognized %s unit %q", e.Kind, e.Symbol)
}

func (e *UnrecognizedUnitError) Is(target error) bool {
	return target == ErrUnrecognizedUnit
}

// Registry maps unit symbols to units. It is read-only once built.
type Registry struct {
	units map[string]Unit
}

// NewRegistry builds a registry holding exactly the given units.
func NewRegistry(us ...Unit) *Registry {
	r := &Registry{units: make(map[string]Unit, len(us))}
	for _, u := range us {
		r.units[u.Symbol] = u
	}
	return r
}

// DefaultRegistry is the process-wide symbol table. It is populated at
// package initialisation and never mutated.
var DefaultRegistry = NewRegistry(
	Metre, Centimetre, Millimetre, Micrometre, Nanometre, Inch,
	Unit{Symbol: "um", Kind: Length, Scale: 1e-6},
	Radian, Degree,
	Unit{Symbol: "°", Kind: Angle, Scale: Degree.Scale},
	Volt, Millivolt, Kilovolt, Megavolt,
	Kelvin, Celsius,
	Unit{Symbol: "degC", Kind: Temperature, Scale: 1, Offset: 273.15},
	Unit{Symbol: "C", Kind: Temperature, Scale: 1, Offset: 273.15},
)

// Lookup returns the unit registered under symbol for kind k.
func (r *Registry) Lookup(k Kind, symbol string) (Unit, error) {
	u, ok := r.units[symbol]
	if !ok || u.Kind != k {
		return Unit{}, &UnrecognizedUnitError{Kind: k, Symbol: symbol}
	}
	return u, nil
}

// Defaults used for every kind missing from a unit mapping.
var defaultSymbols = map[Kind]string{
	Length:      "mm",
	Angle:       "rad",
	Potential:   "V",
	Temperature: "K",
}

// Table holds the resolved input unit for every quantity kind. A Table
// obtained from Resolve is always fully populated.
type Table struct {
	units [len(Kinds)]Unit
}

// DefaultTable returns the table produced by resolving an empty mapping.
func DefaultTable() Table {
	t, err := DefaultRegistry.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("units: default table: %v", err))
	}
	return t
}

// Resolve produces a Table from a kind-name → symbol mapping. Keys other
// than length, angle, potential and temperature are ignored; absent keys
// take the defaults mm, rad, V and K.
func (r *Registry) Resolve(symbols map[string]string) (Table, error) {
	var t Table
	for _, k := range Kinds {
		sym, ok := symbols[k.String()]
		if !ok {
			sym = defaultSymbols[k]
		}
		u, err := r.Lookup(k, sym)
		if err != nil {
			return Table{}, err
		}
		t.units[k] = u
	}
	return t, nil
}

// Resolve resolves symbols against DefaultRegistry.
func Resolve(symbols map[string]string) (Table, error) {
	return DefaultRegistry.Resolve(symbols)
}

// Unit returns the unit resolved for kind k.
func (t Table) Unit(k Kind) Unit {
	return t.units[k]
}

// ToCanonical converts a raw value of kind k into canonical units and
// rounds it to geometric precision.
func (t Table) ToCanonical(k Kind, v float64) float64 {
	return Round(t.units[k].ToCanonical(v))
}

// FromCanonical converts a canonical value of kind k back into the table's
// unit, rounded to geometric precision.
func (t Table) FromCanonical(k Kind, v float64) float64 {
	return Round(t.units[k].FromCanonical(v))
}

func (t Table) String() string {
	return fmt.Sprintf("{length: %s, angle: %s, potential: %s, temperature: %s}",
		t.units[Length], t.units[Angle], t.units[Potential], t.units[Temperature])
}
