// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Point membership is the
// sign of the signed distance function.
package sdfx

import (
	"fmt"

	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// Contains reports whether p is inside or on the surface.
func (s *sdfxSolid) Contains(p kernel.Vec3) bool {
	return s.s.Evaluate(toVec(p)) <= kernel.ContainsTolerance
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max kernel.Vec3) {
	bb := s.s.BoundingBox()
	return fromVec(bb.Min), fromVec(bb.Max)
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func toVec(p kernel.Vec3) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func fromVec(v v3.Vec) kernel.Vec3 {
	return kernel.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Tube creates a z-aligned tube. Full-revolution tubes are built from
// sdf.Cylinder3D (hollow ones as a difference of two cylinders); azimuthal
// segments and degenerate tubes use the wedge SDF.
func (k *SdfxKernel) Tube(spec kernel.TubeSpec) (kernel.Solid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	height := spec.Z.Width()
	if !spec.FullRevolution() || height == 0 || spec.R.To == 0 || spec.R.From == spec.R.To {
		return wrap(newWedge(spec)), nil
	}

	outer, err := sdf.Cylinder3D(height, spec.R.To, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	s := outer
	if spec.R.From > 0 {
		// The bore is taller than the body so the caps never clip it.
		inner, err := sdf.Cylinder3D(height+2, spec.R.From, 0)
		if err != nil {
			return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
		}
		s = sdf.Difference3D(outer, inner)
	}
	// Cylinder3D is centred on the origin; shift it to the z interval.
	m := sdf.Translate3d(v3.Vec{Z: spec.Z.From + height/2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Box creates an axis-aligned box spanning the given intervals.
// sdf.Box3D centres the box at the origin, so we translate to the centre.
// Boxes flat along any axis use the slab SDF, which Box3D rejects.
func (k *SdfxKernel) Box(spec kernel.BoxSpec) (kernel.Solid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	size := v3.Vec{X: spec.X.Width(), Y: spec.Y.Width(), Z: spec.Z.Width()}
	if size.X == 0 || size.Y == 0 || size.Z == 0 {
		return wrap(newSlab(spec)), nil
	}
	s, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	centre := v3.Vec{
		X: spec.X.From + size.X/2,
		Y: spec.Y.From + size.Y/2,
		Z: spec.Z.From + size.Z/2,
	}
	return wrap(sdf.Transform3D(s, sdf.Translate3d(centre))), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by d.
func (k *SdfxKernel) Translate(s kernel.Solid, d kernel.Vec3) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), sdf.Translate3d(toVec(d))))
}
