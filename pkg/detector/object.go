package detector

import (
	"fmt"

	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/material"
)

// Class enumerates the kinds of objects a detector is built from.
type Class int

const (
	Semiconductor Class = iota // depleted semiconductor body
	Contact                    // electrode held at a fixed potential
	Passive                    // holders, cryostat walls, insulators
)

// Classes lists the classes in collection order.
var Classes = [...]Class{Semiconductor, Contact, Passive}

func (c Class) String() string {
	switch c {
	case Semiconductor:
		return "Semiconductor"
	case Contact:
		return "Contact"
	case Passive:
		return "Passive"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass maps the exact discriminator strings of the description.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "Semiconductor":
		return Semiconductor, true
	case "Contact":
		return Contact, true
	case "Passive":
		return Passive, true
	}
	return 0, false
}

// ObjectData is the class-specific payload of an Object. The set of
// implementations is closed: exactly one per Class.
type ObjectData interface {
	class() Class
}

// SemiconductorData holds the fields specific to a semiconductor body.
type SemiconductorData struct {
	Temperature float64 // kelvin, 0 if unspecified
}

func (SemiconductorData) class() Class { return Semiconductor }

// ContactData holds the fields specific to a contact.
type ContactData struct {
	Potential float64 // volt
}

func (ContactData) class() Class { return Contact }

// PassiveData holds the fields specific to a passive structure. A passive
// with no potential is floating.
type PassiveData struct {
	Potential   *float64 // volt, nil if floating
	Temperature float64  // kelvin, 0 if unspecified
}

func (PassiveData) class() Class { return Passive }

// Object is a single named primitive of a detector. Its shape is already in
// canonical units.
type Object struct {
	ID        int
	Name      string
	Hierarchy int // lower rank takes precedence where shapes overlap
	Material  material.Material
	Shape     kernel.Solid
	Data      ObjectData
}

// Class returns the class of the object's payload.
func (o Object) Class() Class {
	return o.Data.class()
}

// Rank returns the hierarchy rank.
func (o Object) Rank() int {
	return o.Hierarchy
}

// Contains reports whether p lies in the object's shape.
func (o Object) Contains(p kernel.Vec3) bool {
	return o.Shape.Contains(p)
}

// Label returns a short human-readable identifier.
func (o Object) Label() string {
	if o.Name != "" {
		return fmt.Sprintf("%s %d %q", o.Class(), o.ID, o.Name)
	}
	return fmt.Sprintf("%s %d", o.Class(), o.ID)
}
