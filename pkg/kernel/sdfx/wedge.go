package sdfx

import (
	"math"

	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// wedge is an azimuthal segment of a hollow cylinder. Its Evaluate returns a
// signed bound rather than an exact Euclidean distance: the sign is exact,
// which is all point membership needs.
type wedge struct {
	r0, r1 float64
	phi0   float64
	span   float64 // azimuthal width, at most 2π
	full   bool
	z0, z1 float64
	bb     sdf.Box3
}

var _ sdf.SDF3 = (*wedge)(nil)

func newWedge(spec kernel.TubeSpec) *wedge {
	span := spec.Phi.Width()
	if span > 2*math.Pi {
		span = 2 * math.Pi
	}
	r := spec.R.To
	return &wedge{
		r0:   spec.R.From,
		r1:   spec.R.To,
		phi0: spec.Phi.From,
		span: span,
		full: spec.FullRevolution(),
		z0:   spec.Z.From,
		z1:   spec.Z.To,
		bb: sdf.Box3{
			Min: v3.Vec{X: -r, Y: -r, Z: spec.Z.From},
			Max: v3.Vec{X: r, Y: r, Z: spec.Z.To},
		},
	}
}

// Evaluate returns a negative value inside, zero on the surface and a
// positive value outside.
func (w *wedge) Evaluate(p v3.Vec) float64 {
	r := math.Hypot(p.X, p.Y)
	d := math.Max(w.r0-r, r-w.r1)
	d = math.Max(d, math.Max(w.z0-p.Z, p.Z-w.z1))
	if w.full || r == 0 {
		return d
	}
	// Offset of the point's azimuth from the segment start, in [0, 2π).
	rel := math.Mod(math.Atan2(p.Y, p.X)-w.phi0, 2*math.Pi)
	if rel < 0 {
		rel += 2 * math.Pi
	}
	var a float64
	if rel <= w.span {
		a = -math.Min(rel, w.span-rel) * r
	} else {
		a = math.Min(rel-w.span, 2*math.Pi-rel) * r
	}
	return math.Max(d, a)
}

// BoundingBox returns a box enclosing the full revolution.
func (w *wedge) BoundingBox() sdf.Box3 {
	return w.bb
}
