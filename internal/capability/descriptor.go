package capability

import "fmt"

// Descriptor declares one module type together with the family it belongs
// to. Build descriptors with NewSource, NewController, NewManager or
// NewUnit; the zero value is invalid.
type Descriptor struct {
	name    string
	kind    Kind
	generic bool

	newSource     func() Source
	newController func() Controller
	newManager    func() Manager
	newUnit       func() Unit
}

// NewSource declares a Source type.
func NewSource(name string, factory func() Source) Descriptor {
	return Descriptor{name: name, kind: KindSource, newSource: factory}
}

// NewController declares a Controller type.
func NewController(name string, factory func() Controller) Descriptor {
	return Descriptor{name: name, kind: KindController, newController: factory}
}

// NewManager declares a Manager type.
func NewManager(name string, factory func() Manager) Descriptor {
	return Descriptor{name: name, kind: KindManager, newManager: factory}
}

// NewUnit declares a Unit type.
func NewUnit(name string, factory func() Unit) Descriptor {
	return Descriptor{name: name, kind: KindUnit, newUnit: factory}
}

// AsGeneric marks the descriptor as a template that cannot be instantiated
// directly. The scanner ignores generic descriptors.
func (d Descriptor) AsGeneric() Descriptor {
	d.generic = true
	return d
}

// Name returns the fully qualified type name, e.g. "Alpha.Sprites.Hero".
func (d Descriptor) Name() string { return d.name }

// Kind returns the capability family of the descriptor.
func (d Descriptor) Kind() Kind { return d.kind }

// Generic reports whether the descriptor is a template.
func (d Descriptor) Generic() bool { return d.generic }

// Concrete reports whether the descriptor carries a factory for its kind.
func (d Descriptor) Concrete() bool {
	switch d.kind {
	case KindSource:
		return d.newSource != nil
	case KindController:
		return d.newController != nil
	case KindManager:
		return d.newManager != nil
	case KindUnit:
		return d.newUnit != nil
	default:
		return false
	}
}

// Validate checks that the descriptor names a type of a known family.
func (d Descriptor) Validate() error {
	if !d.kind.Valid() {
		return fmt.Errorf("descriptor %q: invalid capability kind", d.name)
	}
	if d.name == "" {
		return fmt.Errorf("%s descriptor has an empty name", d.kind)
	}
	return nil
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.kind, d.name)
}

// Source constructs a new Source instance. It returns false when the
// descriptor is not a concrete Source.
func (d Descriptor) Source() (Source, bool) {
	if d.kind != KindSource || d.newSource == nil {
		return nil, false
	}
	return d.newSource(), true
}

// Controller constructs a new Controller instance.
func (d Descriptor) Controller() (Controller, bool) {
	if d.kind != KindController || d.newController == nil {
		return nil, false
	}
	return d.newController(), true
}

// Manager constructs a new Manager instance.
func (d Descriptor) Manager() (Manager, bool) {
	if d.kind != KindManager || d.newManager == nil {
		return nil, false
	}
	return d.newManager(), true
}

// Unit constructs a new Unit instance.
func (d Descriptor) Unit() (Unit, bool) {
	if d.kind != KindUnit || d.newUnit == nil {
		return nil, false
	}
	return d.newUnit(), true
}
