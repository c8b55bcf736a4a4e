package detector

import (
	"fmt"
	"log/slog"

	"github.com/chazu/detgeom/pkg/config"
	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/material"
	"github.com/chazu/detgeom/pkg/units"
)

// Collections holds the three object collections of a detector in input
// order.
type Collections struct {
	Semiconductors []Object
	Contacts       []Object
	Passives       []Object
}

// Len returns the total number of classified objects.
func (c Collections) Len() int {
	return len(c.Semiconductors) + len(c.Contacts) + len(c.Passives)
}

// Of returns the collection for class c.
func (c Collections) Of(class Class) []Object {
	switch class {
	case Semiconductor:
		return c.Semiconductors
	case Contact:
		return c.Contacts
	case Passive:
		return c.Passives
	}
	return nil
}

func (c *Collections) add(o Object) {
	switch o.Class() {
	case Semiconductor:
		c.Semiconductors = append(c.Semiconductors, o)
	case Contact:
		c.Contacts = append(c.Contacts, o)
	case Passive:
		c.Passives = append(c.Passives, o)
	}
}

// ObjectFactory classifies raw object descriptions and builds their shapes.
type ObjectFactory struct {
	Units     units.Table
	Materials material.Table
	Kernel    kernel.Kernel
	Logger    *slog.Logger
}

// Classify converts every entry of objects, appending it to the collection of
// its class. Entries with an unrecognized class are skipped and reported as
// warnings; any other problem aborts with an error.
func (f ObjectFactory) Classify(objects []config.Node) (Collections, []Warning, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		out      Collections
		warnings []Warning
		seen     = make(map[Class]map[int]bool)
	)
	for _, n := range objects {
		raw, err := n.StringField("class")
		if err != nil {
			return Collections{}, nil, err
		}
		class, ok := ParseClass(raw)
		if !ok {
			w := Warning{Err: &UnrecognizedObjectClassError{Path: n.Path(), Class: raw}}
			logger.Warn("skipping object with unrecognized class",
				"path", n.Path(), "class", raw)
			warnings = append(warnings, w)
			continue
		}

		o, err := f.build(n, class, len(out.Of(class))+1)
		if err != nil {
			return Collections{}, nil, err
		}
		if seen[class] == nil {
			seen[class] = make(map[int]bool)
		}
		if seen[class][o.ID] {
			return Collections{}, nil, &DuplicateObjectError{Class: class, ID: o.ID, Path: n.Path()}
		}
		seen[class][o.ID] = true

		logger.Debug("classified object",
			"path", n.Path(), "class", class, "id", o.ID, "hierarchy", o.Hierarchy)
		out.add(o)
	}
	return out, warnings, nil
}

// build constructs a single object. defaultID is used when the description
// carries no id.
func (f ObjectFactory) build(n config.Node, class Class, defaultID int) (Object, error) {
	o := Object{ID: defaultID}

	if idn, ok := n.Lookup("id"); ok {
		id, err := idn.Int()
		if err != nil {
			return Object{}, err
		}
		o.ID = id
	}
	if nn, ok := n.Lookup("name"); ok {
		name, err := nn.Text()
		if err != nil {
			return Object{}, err
		}
		o.Name = name
	}

	hn, err := n.Get("hierarchy")
	if err != nil {
		return Object{}, err
	}
	if o.Hierarchy, err = hn.Int(); err != nil {
		return Object{}, err
	}
	if o.Hierarchy < 0 {
		return Object{}, fmt.Errorf("%s: hierarchy %d must be non-negative", hn.Path(), o.Hierarchy)
	}

	matName, err := n.StringField("material")
	if err != nil {
		return Object{}, err
	}
	if o.Material, err = f.Materials.Lookup(matName); err != nil {
		return Object{}, fmt.Errorf("%s: %w", n.Path(), err)
	}

	gn, err := n.Get("geometry")
	if err != nil {
		return Object{}, err
	}
	sb := shapeBuilder{units: f.Units, kernel: f.Kernel}
	if o.Shape, err = sb.build(gn); err != nil {
		return Object{}, err
	}

	if o.Data, err = f.data(n, class); err != nil {
		return Object{}, err
	}
	return o, nil
}

func (f ObjectFactory) data(n config.Node, class Class) (ObjectData, error) {
	switch class {
	case Contact:
		v, err := n.FloatField("potential")
		if err != nil {
			return nil, err
		}
		return ContactData{Potential: f.Units.ToCanonical(units.Potential, v)}, nil
	case Semiconductor:
		t, err := f.optional(n, "temperature", units.Temperature)
		if err != nil {
			return nil, err
		}
		d := SemiconductorData{}
		if t != nil {
			d.Temperature = *t
		}
		return d, nil
	default:
		d := PassiveData{}
		pot, err := f.optional(n, "potential", units.Potential)
		if err != nil {
			return nil, err
		}
		d.Potential = pot
		t, err := f.optional(n, "temperature", units.Temperature)
		if err != nil {
			return nil, err
		}
		if t != nil {
			d.Temperature = *t
		}
		return d, nil
	}
}

func (f ObjectFactory) optional(n config.Node, key string, kind units.Kind) (*float64, error) {
	c, ok := n.Lookup(key)
	if !ok {
		return nil, nil
	}
	v, err := c.Float()
	if err != nil {
		return nil, err
	}
	v = f.Units.ToCanonical(kind, v)
	return &v, nil
}
