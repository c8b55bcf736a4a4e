package detector

import (
	"fmt"
	"strings"

	"github.com/chazu/detgeom/pkg/units"
)

// verboseLimit is the largest collection whose entries are listed one by one.
const verboseLimit = 5

// String renders a human-readable summary of the detector.
func (d *Detector) String() string {
	var sb strings.Builder
	name := d.name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&sb, "Detector %s\n", name)
	fmt.Fprintf(&sb, "  Medium:         %s\n", d.medium.Name)
	fmt.Fprintf(&sb, "  Grid:           %s\n", d.world.Coordinates)
	fmt.Fprintf(&sb, "  Units:          %s\n", d.units)
	if d.world.Coordinates == Cylindrical {
		fmt.Fprintf(&sb, "  World:          r ≤ %g m, z ∈ [%g, %g] m\n",
			d.world.Tube.R.To, d.world.Tube.Z.From, d.world.Tube.Z.To)
	} else {
		fmt.Fprintf(&sb, "  World:          x ∈ [%g, %g] m, y ∈ [%g, %g] m, z ∈ [%g, %g] m\n",
			d.world.Box.X.From, d.world.Box.X.To,
			d.world.Box.Y.From, d.world.Box.Y.To,
			d.world.Box.Z.From, d.world.Box.Z.To)
	}
	if d.world.Periodicity != 0 || d.world.MirrorPhi {
		fmt.Fprintf(&sb, "  Symmetry:       periodic φ = %g rad, mirror φ = %t\n",
			d.world.Periodicity, d.world.MirrorPhi)
	}

	for _, c := range Classes {
		objs := d.collection(c)
		fmt.Fprintf(&sb, "  %-15s %d\n", pluralClass(c)+":", len(objs))
		if len(objs) == 0 || len(objs) > verboseLimit {
			continue
		}
		for _, o := range objs {
			fmt.Fprintf(&sb, "    - %s\n", describeObject(o, d.units))
		}
	}
	return sb.String()
}

func pluralClass(c Class) string {
	return c.String() + "s"
}

func describeObject(o Object, tbl units.Table) string {
	s := fmt.Sprintf("%s: hierarchy %d, material %s", o.Label(), o.Hierarchy, o.Material.Name)
	switch data := o.Data.(type) {
	case ContactData:
		s += fmt.Sprintf(", potential %g %s",
			tbl.FromCanonical(units.Potential, data.Potential), tbl.Unit(units.Potential))
	case PassiveData:
		if data.Potential != nil {
			s += fmt.Sprintf(", potential %g %s",
				tbl.FromCanonical(units.Potential, *data.Potential), tbl.Unit(units.Potential))
		} else {
			s += ", floating"
		}
	}
	return s
}
