// Package ambient animates background scenery. Its sprite sheets may also be
// declared in HCL manifests shipped in the modules directory under
// "Ambient/"; they are merged with the types declared here.
package ambient

import (
	"context"
	"os"
	"time"

	"github.com/vk/capreg/internal/capability"
)

// Name is the module identifier.
const Name = "Ambient"

// RainEnv enables the rain overlay when set to "true".
const RainEnv = "CAPREG_AMBIENT_RAIN"

// Module implements the module.Module interface for this package.
type Module struct{}

// Name implements module.Module.
func (m *Module) Name() string { return Name }

// Types implements module.Module.
func (m *Module) Types() []capability.Descriptor {
	return []capability.Descriptor{
		capability.NewSource("Ambient.Weather.Rain", func() capability.Source {
			return &Rain{enabled: os.Getenv(RainEnv) == "true"}
		}),
		capability.NewController("Ambient.Animator", func() capability.Controller { return &Animator{} }),
	}
}

// Rain is an optional full-screen overlay. It opts out of loading unless
// enabled, and shares the generic weather sheet.
type Rain struct {
	enabled bool
}

// Load implements capability.Source.
func (r *Rain) Load(path *string) bool {
	*path = "Ambient/Weather/shared"
	return r.enabled
}

// Tracks implements capability.Source.
func (r *Rain) Tracks() []capability.Track {
	return []capability.Track{{Name: "fall", Frames: []int{0, 1, 2, 3, 4, 5, 6, 7}, FrameDuration: 60 * time.Millisecond, Loop: true}}
}

// CellSize implements capability.Source.
func (r *Rain) CellSize() capability.Size { return capability.Size{W: 64, H: 64} }

// Animator cycles every ambient track on a loop.
type Animator struct {
	Entity string
}

// Attach implements capability.Controller.
func (a *Animator) Attach(_ context.Context, e capability.Entity) error {
	a.Entity = e.ID()
	return nil
}
