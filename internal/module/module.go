// Package module defines the contract every extension compiled into (or
// discovered by) the host implements to be presented to the registry.
package module

import "github.com/vk/capreg/internal/capability"

// Module is the interface that all extension modules must implement to be
// registered. Types must return the same ordered list on every call.
type Module interface {
	Name() string
	Types() []capability.Descriptor
}

// Static is a Module backed by a fixed descriptor list.
type Static struct {
	name  string
	types []capability.Descriptor
}

// New creates a Static module. The descriptor slice is copied.
func New(name string, types ...capability.Descriptor) *Static {
	return &Static{name: name, types: append([]capability.Descriptor(nil), types...)}
}

// Name implements Module.
func (m *Static) Name() string { return m.name }

// Types implements Module.
func (m *Static) Types() []capability.Descriptor {
	return append([]capability.Descriptor(nil), m.types...)
}

// Merge combines several modules that share a name into one, keeping the
// declaration order of its parts. It is used to join a compiled module with
// the manifest sources shipped next to it.
func Merge(name string, parts ...Module) *Static {
	var types []capability.Descriptor
	for _, p := range parts {
		types = append(types, p.Types()...)
	}
	return &Static{name: name, types: types}
}
