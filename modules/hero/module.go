// Package hero is the built-in player character module: one sprite sheet,
// its animator, and the ability manager with its basic moves.
package hero

import (
	"context"
	"log/slog"
	"time"

	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/ctxlog"
)

// Name is the module identifier.
const Name = "Hero"

// Module implements the module.Module interface for this package.
type Module struct{}

// Name implements module.Module.
func (m *Module) Name() string { return Name }

// Types implements module.Module.
func (m *Module) Types() []capability.Descriptor {
	return []capability.Descriptor{
		capability.NewSource("Hero.Sprites.Body", func() capability.Source { return &Body{} }),
		capability.NewController("Hero.Animator", func() capability.Controller { return &Animator{} }),
		capability.NewManager("Hero.Abilities", func() capability.Manager { return &Abilities{} }),
		capability.NewUnit("Hero.Dash", func() capability.Unit { return &Dash{Distance: 3} }),
		capability.NewUnit("Hero.Jump", func() capability.Unit { return &Jump{Height: 2} }),
	}
}

// Body is the hero's sprite sheet.
type Body struct{}

// Load implements capability.Source.
func (b *Body) Load(path *string) bool { return true }

// Tracks implements capability.Source.
func (b *Body) Tracks() []capability.Track {
	return []capability.Track{
		{Name: "idle", Frames: []int{0, 1, 2, 3}, FrameDuration: 150 * time.Millisecond, Loop: true},
		{Name: "run", Frames: []int{4, 5, 6, 7, 8, 9}, FrameDuration: 80 * time.Millisecond, Loop: true},
		{Name: "jump", Frames: []int{10, 11, 12}, FrameDuration: 100 * time.Millisecond},
	}
}

// CellSize implements capability.Source.
func (b *Body) CellSize() capability.Size { return capability.Size{W: 32, H: 32} }

// Animator drives the hero's current animation track.
type Animator struct {
	Entity string
	Track  string
}

// Attach implements capability.Controller.
func (a *Animator) Attach(ctx context.Context, e capability.Entity) error {
	a.Entity = e.ID()
	a.Track = "idle"
	ctxlog.FromContext(ctx).Debug("Hero animator attached.", "entity", a.Entity, "track", a.Track)
	return nil
}

// Abilities owns the hero's units.
type Abilities struct {
	Entity string
	Units  map[string]capability.Unit
}

// Attach implements capability.Manager.
func (a *Abilities) Attach(ctx context.Context, e capability.Entity, units []capability.Unit) error {
	a.Entity = e.ID()
	a.Units = make(map[string]capability.Unit, len(units))
	for _, u := range units {
		a.Units[u.Name()] = u
	}
	ctxlog.FromContext(ctx).Debug("Hero abilities attached.", slog.String("entity", a.Entity), slog.Int("units", len(units)))
	return nil
}

// Dash moves the hero a few cells forward.
type Dash struct{ Distance int }

// Name implements capability.Unit.
func (d *Dash) Name() string { return "dash" }

// Jump lifts the hero off the ground.
type Jump struct{ Height int }

// Name implements capability.Unit.
func (j *Jump) Name() string { return "jump" }
