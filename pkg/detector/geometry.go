package detector

import (
	"fmt"
	"math"

	"github.com/chazu/detgeom/pkg/config"
	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/units"
)

// shapeBuilder converts geometry nodes into kernel solids, applying the
// unit table to every raw number.
type shapeBuilder struct {
	units  units.Table
	kernel kernel.Kernel
}

func (b shapeBuilder) length(n config.Node) (float64, error) {
	v, err := n.Float()
	if err != nil {
		return 0, err
	}
	return b.units.ToCanonical(units.Length, v), nil
}

func (b shapeBuilder) angle(n config.Node) (float64, error) {
	v, err := n.Float()
	if err != nil {
		return 0, err
	}
	return b.units.ToCanonical(units.Angle, v), nil
}

// interval reads either {from, to} or a bare number meaning [0, number].
func (b shapeBuilder) interval(n config.Node, conv func(config.Node) (float64, error)) (kernel.Interval, error) {
	if _, err := n.Map(); err != nil {
		to, err := conv(n)
		if err != nil {
			return kernel.Interval{}, err
		}
		return kernel.Interval{To: to}, nil
	}
	from, err := n.Get("from")
	if err != nil {
		return kernel.Interval{}, err
	}
	to, err := n.Get("to")
	if err != nil {
		return kernel.Interval{}, err
	}
	var iv kernel.Interval
	if iv.From, err = conv(from); err != nil {
		return kernel.Interval{}, err
	}
	if iv.To, err = conv(to); err != nil {
		return kernel.Interval{}, err
	}
	return iv, nil
}

func (b shapeBuilder) lengthInterval(n config.Node, key string) (kernel.Interval, error) {
	c, err := n.Get(key)
	if err != nil {
		return kernel.Interval{}, err
	}
	return b.interval(c, b.length)
}

// tubeSpec reads r, optional phi (default full revolution) and either z or h.
func (b shapeBuilder) tubeSpec(n config.Node) (kernel.TubeSpec, error) {
	var spec kernel.TubeSpec
	var err error
	if spec.R, err = b.lengthInterval(n, "r"); err != nil {
		return spec, err
	}
	spec.Phi = kernel.Interval{To: 2 * math.Pi}
	if phi, ok := n.Lookup("phi"); ok {
		if spec.Phi, err = b.interval(phi, b.angle); err != nil {
			return spec, err
		}
	}
	if h, ok := n.Lookup("h"); ok && !n.Has("z") {
		height, err := b.length(h)
		if err != nil {
			return spec, err
		}
		spec.Z = kernel.Interval{To: height}
		return spec, nil
	}
	if spec.Z, err = b.lengthInterval(n, "z"); err != nil {
		return spec, err
	}
	return spec, nil
}

func (b shapeBuilder) boxSpec(n config.Node) (kernel.BoxSpec, error) {
	var spec kernel.BoxSpec
	var err error
	if spec.X, err = b.lengthInterval(n, "x"); err != nil {
		return spec, err
	}
	if spec.Y, err = b.lengthInterval(n, "y"); err != nil {
		return spec, err
	}
	if spec.Z, err = b.lengthInterval(n, "z"); err != nil {
		return spec, err
	}
	return spec, nil
}

// build converts one geometry node:
//
//	{type: tube, r, phi?, z | h}
//	{type: box, x, y, z}
//	{type: union | difference | intersection, parts: [...]}
//
// Any of them may carry translate: {x?, y?, z?}.
func (b shapeBuilder) build(n config.Node) (kernel.Solid, error) {
	typ, err := n.StringField("type")
	if err != nil {
		return nil, err
	}

	var s kernel.Solid
	switch typ {
	case "tube":
		spec, err := b.tubeSpec(n)
		if err != nil {
			return nil, err
		}
		if s, err = b.kernel.Tube(spec); err != nil {
			return nil, fmt.Errorf("%s: %w", n.Path(), err)
		}
	case "box":
		spec, err := b.boxSpec(n)
		if err != nil {
			return nil, err
		}
		if s, err = b.kernel.Box(spec); err != nil {
			return nil, fmt.Errorf("%s: %w", n.Path(), err)
		}
	case "union", "difference", "intersection":
		if s, err = b.composite(n, typ); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: unknown geometry type %q", n.Path(), typ)
	}

	if t, ok := n.Lookup("translate"); ok {
		d, err := b.translation(t)
		if err != nil {
			return nil, err
		}
		s = b.kernel.Translate(s, d)
	}
	return s, nil
}

func (b shapeBuilder) composite(n config.Node, op string) (kernel.Solid, error) {
	pn, err := n.Get("parts")
	if err != nil {
		return nil, err
	}
	parts, err := pn.List()
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s: %s needs at least one part", pn.Path(), op)
	}
	acc, err := b.build(parts[0])
	if err != nil {
		return nil, err
	}
	for _, p := range parts[1:] {
		s, err := b.build(p)
		if err != nil {
			return nil, err
		}
		switch op {
		case "union":
			acc = b.kernel.Union(acc, s)
		case "difference":
			acc = b.kernel.Difference(acc, s)
		case "intersection":
			acc = b.kernel.Intersection(acc, s)
		}
	}
	return acc, nil
}

func (b shapeBuilder) translation(n config.Node) (kernel.Vec3, error) {
	var d kernel.Vec3
	for _, axis := range []struct {
		key string
		dst *float64
	}{{"x", &d.X}, {"y", &d.Y}, {"z", &d.Z}} {
		c, ok := n.Lookup(axis.key)
		if !ok {
			continue
		}
		v, err := b.length(c)
		if err != nil {
			return kernel.Vec3{}, err
		}
		*axis.dst = v
	}
	return d, nil
}
