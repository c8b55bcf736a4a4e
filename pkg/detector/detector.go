// Package detector builds the geometric model of a layered detector from a
// configuration tree and answers point containment queries against it.
//
// A Detector is immutable once New returns. All query methods are read-only
// and may be called from any number of goroutines.
package detector

import (
	"fmt"
	"log/slog"

	"github.com/chazu/detgeom/pkg/config"
	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/kernel/sdfx"
	"github.com/chazu/detgeom/pkg/material"
	"github.com/chazu/detgeom/pkg/units"
)

// Detector is the aggregate root: world volume, ambient medium and the three
// hierarchy-ordered object collections.
type Detector struct {
	name   string
	units  units.Table
	world  World
	medium material.Material

	semiconductors []Object
	contacts       []Object
	passives       []Object

	// precedence is every object in Locate order.
	precedence []Object
}

// Name returns the display name, possibly empty.
func (d *Detector) Name() string { return d.name }

// Units returns the unit table the description was written in.
func (d *Detector) Units() units.Table { return d.units }

// Coordinates returns the world coordinate system.
func (d *Detector) Coordinates() Coordinates { return d.world.Coordinates }

// World returns the world volume.
func (d *Detector) World() World { return d.world }

// Periodicity returns the azimuthal periodicity in radians.
func (d *Detector) Periodicity() float64 { return d.world.Periodicity }

// MirrorPhi reports whether the azimuth is mirror-symmetric.
func (d *Detector) MirrorPhi() bool { return d.world.MirrorPhi }

// Medium returns the ambient medium.
func (d *Detector) Medium() material.Material { return d.medium }

// Semiconductors returns a copy of the semiconductor collection in hierarchy order.
func (d *Detector) Semiconductors() []Object { return clone(d.semiconductors) }

// Contacts returns a copy of the contact collection in hierarchy order.
func (d *Detector) Contacts() []Object { return clone(d.contacts) }

// Passives returns a copy of the passive collection in hierarchy order.
func (d *Detector) Passives() []Object { return clone(d.passives) }

// Contact returns the contact with the given id.
func (d *Detector) Contact(id int) (Object, bool) {
	for _, c := range d.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Object{}, false
}

func clone(objs []Object) []Object {
	if objs == nil {
		return nil
	}
	out := make([]Object, len(objs))
	copy(out, objs)
	return out
}

// Option configures New.
type Option func(*options)

type options struct {
	registry  *units.Registry
	materials material.Table
	kernel    kernel.Kernel
	logger    *slog.Logger
}

// WithUnitRegistry replaces units.DefaultRegistry.
func WithUnitRegistry(r *units.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithMaterials replaces material.DefaultTable.
func WithMaterials(t material.Table) Option {
	return func(o *options) { o.materials = t }
}

// WithKernel replaces the sdfx geometry kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(o *options) { o.kernel = k }
}

// WithLogger sets the logger used during construction.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a Detector from a configuration tree of the form
//
//	name: string
//	world:
//	  units: {length?, angle?, potential?, temperature?}
//	  medium: string
//	  grid: {coordinates, dimensions, symmetries}
//	  objects: [{class, ...}, ...]
//
// Construction runs units → medium → world → objects → hierarchy. Any error
// aborts construction and no Detector is returned. Objects with an
// unrecognized class are dropped and reported in the returned warnings.
func New(tree config.Tree, opts ...Option) (*Detector, []Warning, error) {
	o := options{
		registry:  units.DefaultRegistry,
		materials: material.DefaultTable,
		kernel:    sdfx.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := builder{opts: o}
	if err := b.run(config.Root(tree)); err != nil {
		return nil, nil, err
	}
	return b.detector(), b.warnings, nil
}

// builder accumulates intermediate results; the Detector only exists once
// every stage has succeeded.
type builder struct {
	opts     options
	name     string
	units    units.Table
	medium   material.Material
	world    World
	objects  Collections
	warnings []Warning
}

func (b *builder) run(root config.Node) error {
	var err error
	if b.name, err = root.StringField("name"); err != nil {
		return err
	}
	worldNode, err := root.Get("world")
	if err != nil {
		return err
	}

	symbols := map[string]string{}
	if un, ok := worldNode.Lookup("units"); ok {
		if symbols, err = un.StringMap(); err != nil {
			return err
		}
	}
	if b.units, err = b.opts.registry.Resolve(symbols); err != nil {
		return fmt.Errorf("world.units: %w", err)
	}

	mediumName, err := worldNode.StringField("medium")
	if err != nil {
		return err
	}
	if b.medium, err = b.opts.materials.Lookup(mediumName); err != nil {
		return fmt.Errorf("world.medium: %w", err)
	}

	grid, err := worldNode.Get("grid")
	if err != nil {
		return err
	}
	if b.world, err = BuildWorld(grid, b.units, b.opts.kernel); err != nil {
		return err
	}

	on, err := worldNode.Get("objects")
	if err != nil {
		return err
	}
	list, err := on.List()
	if err != nil {
		return err
	}
	f := ObjectFactory{
		Units:     b.units,
		Materials: b.opts.materials,
		Kernel:    b.opts.kernel,
		Logger:    b.opts.logger,
	}
	var warnings []Warning
	if b.objects, warnings, err = f.Classify(list); err != nil {
		return err
	}
	b.warnings = append(b.warnings, warnings...)
	b.checkBounds()

	b.opts.logger.Debug("detector built",
		"name", b.name,
		"coordinates", b.world.Coordinates,
		"semiconductors", len(b.objects.Semiconductors),
		"contacts", len(b.objects.Contacts),
		"passives", len(b.objects.Passives),
		"warnings", len(b.warnings))
	return nil
}

// checkBounds warns about objects whose bounding box leaves the world's.
// Queries clip such objects to the world volume.
func (b *builder) checkBounds() {
	wmin, wmax := b.world.Shape.BoundingBox()
	const tol = 1e-9
	for _, class := range Classes {
		for _, o := range b.objects.Of(class) {
			omin, omax := o.Shape.BoundingBox()
			if omin.X < wmin.X-tol || omin.Y < wmin.Y-tol || omin.Z < wmin.Z-tol ||
				omax.X > wmax.X+tol || omax.Y > wmax.Y+tol || omax.Z > wmax.Z+tol {
				b.opts.logger.Warn("object extends beyond the world volume", "object", o.Label())
				b.warnings = append(b.warnings, Warning{Err: fmt.Errorf("%s: %w", o.Label(), ErrOutsideWorld)})
			}
		}
	}
}

func (b *builder) detector() *Detector {
	d := &Detector{
		name:           b.name,
		units:          b.units,
		world:          b.world,
		medium:         b.medium,
		semiconductors: ResolveHierarchy(b.objects.Semiconductors),
		contacts:       ResolveHierarchy(b.objects.Contacts),
		passives:       ResolveHierarchy(b.objects.Passives),
	}
	all := make([]Object, 0, b.objects.Len())
	all = append(all, d.contacts...)
	all = append(all, d.semiconductors...)
	all = append(all, d.passives...)
	d.precedence = ResolveHierarchy(all)
	return d
}
