package capability

import (
	"context"
	"time"
)

// Size is a two-dimensional cell size in pixels.
type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Positive reports whether both dimensions are strictly positive.
func (s Size) Positive() bool {
	return s.W > 0 && s.H > 0
}

// Track is one named animation track: the cell indices it plays and how.
type Track struct {
	Name          string        `json:"name" yaml:"name"`
	Frames        []int         `json:"frames" yaml:"frames"`
	FrameDuration time.Duration `json:"frame_duration" yaml:"frame_duration"`
	Loop          bool          `json:"loop" yaml:"loop"`
}

// Source provides the animation data of a module. Instances are constructed
// once per load by the source classifier.
type Source interface {
	// Load is called with the suggested resource path. Implementations may
	// rewrite *path. Returning false opts the source out of registration.
	Load(path *string) bool
	// Tracks returns the animation tracks. It must not be empty.
	Tracks() []Track
	// CellSize returns the size of one atlas cell. Both axes must be positive.
	CellSize() Size
}

// Entity is the minimal view of a game entity handed to per-entity behavior.
type Entity interface {
	ID() string
}

// Controller drives the animation state of one entity for its module.
type Controller interface {
	Attach(ctx context.Context, e Entity) error
}

// Manager drives the ability state of one entity and owns its units.
type Manager interface {
	Attach(ctx context.Context, e Entity, units []Unit) error
}

// Unit is a single ability or behavior owned by a Manager.
type Unit interface {
	Name() string
}
