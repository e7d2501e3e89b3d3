package classify

import (
	"github.com/vk/capreg/internal/assets"
	"github.com/vk/capreg/internal/capability"
)

// RegisteredSource is a validated, constructed Source.
type RegisteredSource struct {
	Module   string
	Name     string
	Path     string
	Tracks   []capability.Track
	CellSize capability.Size
	Texture  assets.Handle
	Instance capability.Source
}

// TypeRef is a registered Controller, Manager or Unit type.
type TypeRef struct {
	Module     string
	Descriptor capability.Descriptor
}

// Name returns the qualified type name.
func (t TypeRef) Name() string { return t.Descriptor.Name() }

// Kind returns the family of the referenced type.
func (t TypeRef) Kind() capability.Kind { return t.Descriptor.Kind() }

// NewController constructs a fresh Controller of the referenced type.
func (t TypeRef) NewController() (capability.Controller, bool) { return t.Descriptor.Controller() }

// NewManager constructs a fresh Manager of the referenced type.
func (t TypeRef) NewManager() (capability.Manager, bool) { return t.Descriptor.Manager() }

// NewUnit constructs a fresh Unit of the referenced type.
func (t TypeRef) NewUnit() (capability.Unit, bool) { return t.Descriptor.Unit() }
