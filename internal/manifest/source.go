package manifest

import (
	"github.com/vk/capreg/internal/capability"
)

// Source is a capability.Source defined by a manifest block.
type Source struct {
	name     string
	path     string
	enabled  bool
	tracks   []capability.Track
	cellSize capability.Size
}

// Load implements capability.Source. A manifest path replaces the suggested
// one; `enabled = false` declines loading.
func (s *Source) Load(path *string) bool {
	if s.path != "" {
		*path = s.path
	}
	return s.enabled
}

// Tracks implements capability.Source.
func (s *Source) Tracks() []capability.Track {
	return append([]capability.Track(nil), s.tracks...)
}

// CellSize implements capability.Source.
func (s *Source) CellSize() capability.Size {
	return s.cellSize
}

// Descriptor declares the manifest source as a Source type. Each
// construction returns an independent copy.
func (s *Source) Descriptor() capability.Descriptor {
	return capability.NewSource(s.name, func() capability.Source {
		c := *s
		return &c
	})
}
