// Package units resolves the unit symbols used in detector descriptions into
// scale factors for the four quantity kinds the geometry engine understands,
// and converts raw values into the canonical internal unit system
// (metre, radian, volt, kelvin).
package units

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is one of the four physical quantity kinds.
type Kind int

const (
	Length Kind = iota
	Angle
	Potential
	Temperature
)

// Kinds lists every quantity kind in table order.
var Kinds = [...]Kind{Length, Angle, Potential, Temperature}

func (k Kind) String() string {
	switch k {
	case Length:
		return "length"
	case Angle:
		return "angle"
	case Potential:
		return "potential"
	case Temperature:
		return "temperature"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Unit is a concrete unit of one kind. A raw value v expressed in this unit
// equals v*Scale + Offset in canonical units.
type Unit struct {
	Symbol string
	Kind   Kind
	Scale  float64
	Offset float64 // non-zero only for affine temperature scales
}

// ToCanonical converts v from u into canonical units.
func (u Unit) ToCanonical(v float64) float64 {
	return v*u.Scale + u.Offset
}

// FromCanonical converts a canonical value back into u.
func (u Unit) FromCanonical(v float64) float64 {
	return (v - u.Offset) / u.Scale
}

func (u Unit) String() string {
	return u.Symbol
}

// Canonical units.
var (
	Metre  = Unit{Symbol: "m", Kind: Length, Scale: 1}
	Radian = Unit{Symbol: "rad", Kind: Angle, Scale: 1}
	Volt   = Unit{Symbol: "V", Kind: Potential, Scale: 1}
	Kelvin = Unit{Symbol: "K", Kind: Temperature, Scale: 1}
)

// Common non-canonical units.
var (
	Millimetre = Unit{Symbol: "mm", Kind: Length, Scale: 1e-3}
	Centimetre = Unit{Symbol: "cm", Kind: Length, Scale: 1e-2}
	Micrometre = Unit{Symbol: "µm", Kind: Length, Scale: 1e-6}
	Nanometre  = Unit{Symbol: "nm", Kind: Length, Scale: 1e-9}
	Inch       = Unit{Symbol: "in", Kind: Length, Scale: 0.0254}
	Degree     = Unit{Symbol: "deg", Kind: Angle, Scale: math.Pi / 180}
	Millivolt  = Unit{Symbol: "mV", Kind: Potential, Scale: 1e-3}
	Kilovolt   = Unit{Symbol: "kV", Kind: Potential, Scale: 1e3}
	Megavolt   = Unit{Symbol: "MV", Kind: Potential, Scale: 1e6}
	Celsius    = Unit{Symbol: "°C", Kind: Temperature, Scale: 1, Offset: 273.15}
)

// geomSigDigits is the number of significant digits kept for stored geometry.
const geomSigDigits = 12

// ZeroTolerance is the magnitude below which a rounded value becomes zero.
const ZeroTolerance = 1e-12

// Round rounds v to the fixed geometric precision. It removes the jitter
// introduced by multiplying through unit scales, so 35 mm is stored as
// exactly 0.035 and not 0.035000000000000003.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if math.Abs(v) < ZeroTolerance {
		return 0
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', geomSigDigits, 64), 64)
	if err != nil {
		return v
	}
	return r
}
