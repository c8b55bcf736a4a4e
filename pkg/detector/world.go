package detector

import (
	"math"

	"github.com/chazu/detgeom/pkg/config"
	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/units"
)

// Coordinates is the coordinate system of the simulated world.
type Coordinates int

const (
	Cylindrical Coordinates = iota
	Cartesian
)

func (c Coordinates) String() string {
	switch c {
	case Cylindrical:
		return "Cylindrical"
	case Cartesian:
		return "Cartesian"
	default:
		return "unknown"
	}
}

// ParseCoordinates maps a grid coordinate tag. Unknown tags are an error;
// there is no default.
func ParseCoordinates(tag string) (Coordinates, error) {
	switch tag {
	case "Cylindrical":
		return Cylindrical, nil
	case "Cartesian":
		return Cartesian, nil
	}
	return 0, &UnsupportedCoordinateSystemError{Tag: tag}
}

// World is the bounding volume of the whole simulated region.
type World struct {
	Coordinates Coordinates
	Shape       kernel.Solid
	Tube        kernel.TubeSpec // set for Cylindrical worlds
	Box         kernel.BoxSpec  // set for Cartesian worlds
	Periodicity float64         // radians; 0 when no azimuthal periodicity is declared
	MirrorPhi   bool
}

// Contains reports whether p lies in the world volume.
func (w World) Contains(p kernel.Vec3) bool {
	return w.Shape.Contains(p)
}

// BuildWorld constructs the world volume from the grid node:
//
//	grid:
//	  coordinates: Cylindrical | Cartesian
//	  dimensions: {...}
//	  symmetries: {periodic: {phi: number}, mirror?: {phi: bool}}
//
// Cylindrical dimensions are r (bare number or {to}), z {from, to}; the world
// is always a full revolution. Cartesian dimensions are x, y, z intervals.
func BuildWorld(grid config.Node, tbl units.Table, k kernel.Kernel) (World, error) {
	tag, err := grid.StringField("coordinates")
	if err != nil {
		return World{}, err
	}
	coords, err := ParseCoordinates(tag)
	if err != nil {
		return World{}, err
	}
	dims, err := grid.Get("dimensions")
	if err != nil {
		return World{}, err
	}

	sb := shapeBuilder{units: tbl, kernel: k}
	w := World{Coordinates: coords}

	switch coords {
	case Cylindrical:
		rn, err := dims.Get("r")
		if err != nil {
			return World{}, err
		}
		if rn.Has("to") {
			if rn, err = rn.Get("to"); err != nil {
				return World{}, err
			}
		}
		r, err := sb.length(rn)
		if err != nil {
			return World{}, err
		}
		z, err := sb.lengthInterval(dims, "z")
		if err != nil {
			return World{}, err
		}
		w.Tube = kernel.TubeSpec{
			R:   kernel.Interval{From: 0, To: r},
			Phi: kernel.Interval{From: 0, To: 2 * math.Pi},
			Z:   z,
		}
		if w.Shape, err = k.Tube(w.Tube); err != nil {
			return World{}, err
		}
	case Cartesian:
		if w.Box, err = sb.boxSpec(dims); err != nil {
			return World{}, err
		}
		if w.Shape, err = k.Box(w.Box); err != nil {
			return World{}, err
		}
	}

	if err := readSymmetries(grid, coords, sb, &w); err != nil {
		return World{}, err
	}
	return w, nil
}

// readSymmetries fills periodicity and mirror flags. Cylindrical grids must
// declare symmetries.periodic.phi; Cartesian grids may omit it.
func readSymmetries(grid config.Node, coords Coordinates, sb shapeBuilder, w *World) error {
	sym, ok := grid.Lookup("symmetries")
	if !ok {
		if coords == Cylindrical {
			_, err := grid.Get("symmetries")
			return err
		}
		return nil
	}
	phi, err := sym.GetPath("periodic", "phi")
	if err != nil {
		if coords == Cylindrical {
			return err
		}
	} else if w.Periodicity, err = sb.angle(phi); err != nil {
		return err
	}
	if m, ok := sym.Lookup("mirror"); ok {
		if mp, ok := m.Lookup("phi"); ok {
			if w.MirrorPhi, err = mp.Bool(); err != nil {
				return err
			}
		}
	}
	return nil
}
