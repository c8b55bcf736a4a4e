package detector

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCoordinates is matched by *UnsupportedCoordinateSystemError.
	ErrUnsupportedCoordinates = errors.New("unsupported coordinate system")
	// ErrUnrecognizedClass is matched by *UnrecognizedObjectClassError.
	ErrUnrecognizedClass = errors.New("unrecognized object class")
	// ErrDuplicateObject is matched by *DuplicateObjectError.
	ErrDuplicateObject = errors.New("duplicate object id")
	// ErrOutsideWorld marks warnings about objects reaching past the world.
	ErrOutsideWorld = errors.New("object extends beyond the world volume")
)

// UnsupportedCoordinateSystemError reports a grid coordinate tag other than
// Cylindrical or Cartesian.
type UnsupportedCoordinateSystemError struct {
	Tag string
}

func (e *UnsupportedCoordinateSystemError) Error() string {
	return fmt.Sprintf("unsupported coordinate system %q (expected Cylindrical or Cartesian)", e.Tag)
}

func (e *UnsupportedCoordinateSystemError) Is(target error) bool {
	return target == ErrUnsupportedCoordinates
}

// UnrecognizedObjectClassError reports an object whose class discriminator is
// not one of Semiconductor, Contact or Passive. It is never fatal: the
// object is dropped and reported as a Warning.
type UnrecognizedObjectClassError struct {
	Path  string
	Class string
}

func (e *UnrecognizedObjectClassError) Error() string {
	return fmt.Sprintf("%s: unrecognized object class %q, object skipped", e.Path, e.Class)
}

func (e *UnrecognizedObjectClassError) Is(target error) bool {
	return target == ErrUnrecognizedClass
}

// DuplicateObjectError reports two objects of one class sharing an id.
type DuplicateObjectError struct {
	Class Class
	ID    int
	Path  string
}

func (e *DuplicateObjectError) Error() string {
	return fmt.Sprintf("%s: duplicate %s id %d", e.Path, e.Class, e.ID)
}

func (e *DuplicateObjectError) Is(target error) bool {
	return target == ErrDuplicateObject
}

// Warning is a non-fatal construction finding.
type Warning struct {
	Err error
}

func (w Warning) Error() string {
	return w.Err.Error()
}

func (w Warning) Unwrap() error {
	return w.Err
}
