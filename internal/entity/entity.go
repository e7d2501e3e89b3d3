// Package entity builds the per-entity behavior of every registered module.
// It is the downstream consumer of the registry's Controller, Manager and
// Unit registrations and runs once per entity at setup time.
package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/classify"
	"github.com/vk/capreg/internal/ctxlog"
	"github.com/vk/capreg/internal/registry"
)

// ErrNotLoaded is returned when entities are initialized before the
// registry finished loading.
var ErrNotLoaded = errors.New("registry not loaded")

// Behavior is the state one module contributes to one entity.
type Behavior struct {
	Module     string
	Sources    []*classify.RegisteredSource
	Controller capability.Controller
	Manager    capability.Manager
	Units      []capability.Unit
}

// State is the full per-module behavior of one entity.
type State struct {
	Entity    string
	Behaviors []Behavior
}

// Behavior returns the behavior contributed by mod, if any.
func (s *State) Behavior(mod string) (Behavior, bool) {
	for _, b := range s.Behaviors {
		if b.Module == mod {
			return b, true
		}
	}
	return Behavior{}, false
}

// Initializer constructs per-entity behavior from a loaded registry.
type Initializer struct {
	reg *registry.Registry
}

// NewInitializer creates an Initializer reading from reg.
func NewInitializer(reg *registry.Registry) *Initializer {
	return &Initializer{reg: reg}
}

// Init constructs a fresh Controller and Manager (with its Units) for every
// module that registered them, and attaches them to e. A failure in one
// module does not stop the others; all failures are returned joined.
//
// Sources are only exposed for modules that also registered a Controller:
// nothing else is able to play them.
func (i *Initializer) Init(ctx context.Context, e capability.Entity) (*State, error) {
	if st := i.reg.State(); st != registry.StateLoaded {
		return nil, fmt.Errorf("%w (state %s)", ErrNotLoaded, st)
	}

	logger := ctxlog.FromContext(ctx).With("entity", e.ID())
	state := &State{Entity: e.ID()}
	var errs []error

	for _, mod := range i.reg.Modules() {
		b := Behavior{Module: mod}

		if ref, ok := i.reg.Controller(mod); ok {
			ctrl, err := i.attachController(ctx, ref, e)
			if err != nil {
				errs = append(errs, err)
			} else {
				b.Controller = ctrl
				b.Sources, _ = i.reg.Sources(mod)
			}
		}

		if ref, ok := i.reg.Manager(mod); ok {
			units, _ := i.reg.Units(mod)
			mgr, built, err := i.attachManager(ctx, ref, units, e)
			if err != nil {
				errs = append(errs, err)
			} else {
				b.Manager = mgr
				b.Units = built
			}
		} else if units, ok := i.reg.Units(mod); ok {
			logger.Debug("Module has units but no manager, skipping units.", "module", mod, "units", len(units))
		}

		if b.Controller != nil || b.Manager != nil {
			state.Behaviors = append(state.Behaviors, b)
		}
	}

	logger.Debug("Entity initialized.", "behaviors", len(state.Behaviors), "failures", len(errs))
	return state, errors.Join(errs...)
}

func (i *Initializer) attachController(ctx context.Context, ref classify.TypeRef, e capability.Entity) (capability.Controller, error) {
	var (
		ctrl      capability.Controller
		ok        bool
		attachErr error
	)
	if err := classify.Guard(func() {
		ctrl, ok = ref.NewController()
		if ok && ctrl != nil {
			attachErr = ctrl.Attach(ctx, e)
		}
	}); err != nil {
		return nil, fmt.Errorf("module %q: controller %q: attach to %s: %w", ref.Module, ref.Name(), e.ID(), err)
	}
	if !ok || ctrl == nil {
		return nil, fmt.Errorf("module %q: controller %q could not be constructed", ref.Module, ref.Name())
	}
	if attachErr != nil {
		return nil, fmt.Errorf("module %q: controller %q: attach to %s: %w", ref.Module, ref.Name(), e.ID(), attachErr)
	}
	return ctrl, nil
}

func (i *Initializer) attachManager(ctx context.Context, ref classify.TypeRef, refs []classify.TypeRef, e capability.Entity) (mgr capability.Manager, units []capability.Unit, err error) {
	if perr := classify.Guard(func() { mgr, units, err = buildManager(ctx, ref, refs, e) }); perr != nil {
		return nil, nil, fmt.Errorf("module %q: manager %q: attach to %s: %w", ref.Module, ref.Name(), e.ID(), perr)
	}
	return mgr, units, err
}

func buildManager(ctx context.Context, ref classify.TypeRef, refs []classify.TypeRef, e capability.Entity) (capability.Manager, []capability.Unit, error) {
	mgr, ok := ref.NewManager()
	if !ok || mgr == nil {
		return nil, nil, fmt.Errorf("module %q: manager %q could not be constructed", ref.Module, ref.Name())
	}

	units := make([]capability.Unit, 0, len(refs))
	for _, u := range refs {
		unit, ok := u.NewUnit()
		if !ok || unit == nil {
			return nil, nil, fmt.Errorf("module %q: unit %q could not be constructed", u.Module, u.Name())
		}
		units = append(units, unit)
	}

	if err := mgr.Attach(ctx, e, units); err != nil {
		return nil, nil, fmt.Errorf("module %q: manager %q: attach to %s: %w", ref.Module, ref.Name(), e.ID(), err)
	}
	return mgr, units, nil
}
