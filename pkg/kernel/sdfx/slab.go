package sdfx

import (
	"math"

	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// slab is an axis-aligned box that may have zero width along any axis, so a
// planar contact surface is still a solid whose points lie on its surface.
// Evaluate is exact inside and a lower bound on the distance outside.
type slab struct {
	centre, half v3.Vec
	bb           sdf.Box3
}

var _ sdf.SDF3 = (*slab)(nil)

func newSlab(spec kernel.BoxSpec) *slab {
	min := v3.Vec{X: spec.X.From, Y: spec.Y.From, Z: spec.Z.From}
	max := v3.Vec{X: spec.X.To, Y: spec.Y.To, Z: spec.Z.To}
	return &slab{
		centre: v3.Vec{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: (min.Z + max.Z) / 2},
		half:   v3.Vec{X: spec.X.Width() / 2, Y: spec.Y.Width() / 2, Z: spec.Z.Width() / 2},
		bb:     sdf.Box3{Min: min, Max: max},
	}
}

// Evaluate returns the largest per-axis excess over the half widths.
func (s *slab) Evaluate(p v3.Vec) float64 {
	dx := math.Abs(p.X-s.centre.X) - s.half.X
	dy := math.Abs(p.Y-s.centre.Y) - s.half.Y
	dz := math.Abs(p.Z-s.centre.Z) - s.half.Z
	return math.Max(dx, math.Max(dy, dz))
}

func (s *slab) BoundingBox() sdf.Box3 {
	return s.bb
}
