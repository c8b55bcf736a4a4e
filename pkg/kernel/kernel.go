// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide volume primitives, boolean operations and
// point membership behind this interface. The kernel abstraction keeps the
// detector model independent of the primitive library.
//
// All coordinates handed to a kernel are in canonical units: metres for
// lengths and radians for angles.
package kernel

import (
	"fmt"
	"math"
)

// ContainsTolerance is the signed-distance slack within which a point on a
// surface is still considered inside. Solids are closed sets.
const ContainsTolerance = 1e-12

// Vec3 is a Cartesian point or displacement.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Cyl converts v to cylindrical coordinates with φ in [0, 2π).
func (v Vec3) Cyl() CylPoint {
	phi := math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return CylPoint{R: math.Hypot(v.X, v.Y), Phi: phi, Z: v.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// CylPoint is a point in cylindrical coordinates.
type CylPoint struct {
	R, Phi, Z float64
}

// Cart converts p to Cartesian coordinates.
func (p CylPoint) Cart() Vec3 {
	s, c := math.Sincos(p.Phi)
	return Vec3{X: p.R * c, Y: p.R * s, Z: p.Z}
}

func (p CylPoint) String() string {
	return fmt.Sprintf("(r=%g, φ=%g, z=%g)", p.R, p.Phi, p.Z)
}

// Interval is the closed range [From, To].
type Interval struct {
	From, To float64
}

// Width returns To - From.
func (iv Interval) Width() float64 {
	return iv.To - iv.From
}

// Contains reports whether x lies in the closed interval.
func (iv Interval) Contains(x float64) bool {
	return x >= iv.From && x <= iv.To
}

// TubeSpec describes an azimuthal segment of a hollow cylinder aligned with
// the z axis. A full revolution has Phi = {0, 2π}; a solid cylinder has
// R.From = 0.
type TubeSpec struct {
	R   Interval
	Phi Interval
	Z   Interval
}

// FullRevolution reports whether the tube spans the whole azimuth.
func (t TubeSpec) FullRevolution() bool {
	return t.Phi.Width() >= 2*math.Pi-ContainsTolerance
}

// Validate checks that every interval is ordered and the radii are
// non-negative.
func (t TubeSpec) Validate() error {
	switch {
	case t.R.From < 0:
		return fmt.Errorf("tube: inner radius %g is negative", t.R.From)
	case t.R.To < t.R.From:
		return fmt.Errorf("tube: radius interval [%g, %g] is inverted", t.R.From, t.R.To)
	case t.Phi.To < t.Phi.From:
		return fmt.Errorf("tube: phi interval [%g, %g] is inverted", t.Phi.From, t.Phi.To)
	case t.Z.To < t.Z.From:
		return fmt.Errorf("tube: z interval [%g, %g] is inverted", t.Z.From, t.Z.To)
	}
	return nil
}

// BoxSpec describes an axis-aligned box.
type BoxSpec struct {
	X, Y, Z Interval
}

// Validate checks that every interval is ordered.
func (b BoxSpec) Validate() error {
	for i, iv := range [3]Interval{b.X, b.Y, b.Z} {
		if iv.To < iv.From {
			return fmt.Errorf("box: %c interval [%g, %g] is inverted", "xyz"[i], iv.From, iv.To)
		}
	}
	return nil
}

// Solid is an opaque handle to a kernel volume.
// Implementations wrap their internal representation.
type Solid interface {
	// Contains reports whether p lies inside or on the surface of the solid.
	Contains(p Vec3) bool
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max Vec3)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Tube(spec TubeSpec) (Solid, error)
	Box(spec BoxSpec) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, d Vec3) Solid
}
