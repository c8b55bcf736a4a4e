package detector

import "github.com/chazu/detgeom/pkg/kernel"

// IsInside reports whether p lies in any contact or any semiconductor.
// Passive structures never count as inside the detector, and neither does
// any point outside the world volume, even when an object reaches past it.
func (d *Detector) IsInside(p kernel.Vec3) bool {
	if !d.world.Contains(p) {
		return false
	}
	return anyContains(d.contacts, p) || anyContains(d.semiconductors, p)
}

// IsInsideCyl is IsInside for a point in cylindrical coordinates.
func (d *Detector) IsInsideCyl(p kernel.CylPoint) bool {
	return d.IsInside(p.Cart())
}

// IsInsideClass reports whether p lies in any object of the given class.
func (d *Detector) IsInsideClass(c Class, p kernel.Vec3) bool {
	return d.world.Contains(p) && anyContains(d.collection(c), p)
}

// IsInsideClassCyl is IsInsideClass for a point in cylindrical coordinates.
func (d *Detector) IsInsideClassCyl(c Class, p kernel.CylPoint) bool {
	return d.IsInsideClass(c, p.Cart())
}

// LocateIn returns the authoritative object of class c containing p: the
// first match in hierarchy order.
func (d *Detector) LocateIn(c Class, p kernel.Vec3) (Object, bool) {
	if !d.world.Contains(p) {
		return Object{}, false
	}
	for _, o := range d.collection(c) {
		if o.Contains(p) {
			return o, true
		}
	}
	return Object{}, false
}

// Locate returns the authoritative object of any class containing p. Lower
// hierarchy rank wins; on equal rank contacts precede semiconductors, which
// precede passives.
func (d *Detector) Locate(p kernel.Vec3) (Object, bool) {
	if !d.world.Contains(p) {
		return Object{}, false
	}
	for _, o := range d.precedence {
		if o.Contains(p) {
			return o, true
		}
	}
	return Object{}, false
}

func anyContains(objs []Object, p kernel.Vec3) bool {
	for _, o := range objs {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

func (d *Detector) collection(c Class) []Object {
	switch c {
	case Semiconductor:
		return d.semiconductors
	case Contact:
		return d.contacts
	case Passive:
		return d.passives
	}
	return nil
}
