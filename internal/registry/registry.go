package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/capreg/internal/assets"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/classify"
	"github.com/vk/capreg/internal/ctxlog"
	"github.com/vk/capreg/internal/module"
	"github.com/vk/capreg/internal/scan"
)

var (
	// ErrAlreadyLoaded is returned when Load is called on a registry that is
	// loaded or currently loading.
	ErrAlreadyLoaded = errors.New("registry already loaded")
	// ErrDuplicateModule is reported when two modules in one load share a name.
	ErrDuplicateModule = errors.New("duplicate module name")
	// ErrModulePanicked is reported when module code panics outside the
	// classifiers. The module is skipped.
	ErrModulePanicked = errors.New("module panicked")
)

// State is the lifecycle state of a Registry.
type State int

const (
	// StateEmpty is the initial state and the state after Unload.
	StateEmpty State = iota
	// StateLoading is held while Load runs.
	StateLoading
	// StateLoaded is reached when Load completes.
	StateLoaded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// Entry holds every registration of one module.
type Entry struct {
	Module     string
	Sources    []*classify.RegisteredSource
	Controller *classify.TypeRef
	Manager    *classify.TypeRef
	Units      []classify.TypeRef
}

// empty reports whether the module ended up with no registration at all.
func (e *Entry) empty() bool {
	return len(e.Sources) == 0 && e.Controller == nil && e.Manager == nil && len(e.Units) == 0
}

// Registry holds all registrations for a single host session.
type Registry struct {
	provider assets.Provider

	mu      sync.RWMutex
	state   State
	entries map[string]*Entry
	order   []string
}

// New creates an Empty registry that resolves Source textures through
// provider.
func New(provider assets.Provider) *Registry {
	return &Registry{
		provider: provider,
		entries:  make(map[string]*Entry),
	}
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Load scans and classifies every module and publishes the results.
//
// Configuration mistakes in modules never fail Load; they are collected in
// the returned Report. A module whose own code panics is skipped with an
// ErrModulePanicked diagnostic. Load returns an error only if the registry is not
// Empty, or if ctx ends, in which case the registry is reset to Empty.
func (r *Registry) Load(ctx context.Context, modules ...module.Module) (*Report, error) {
	r.mu.Lock()
	if r.state != StateEmpty {
		state := r.state
		r.mu.Unlock()
		return nil, fmt.Errorf("%w (state %s)", ErrAlreadyLoaded, state)
	}
	r.state = StateLoading
	r.mu.Unlock()
	defer r.resetIfLoading()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry load started.", "modules", len(modules))

	report := &Report{}
	seen := make(map[string]struct{}, len(modules))

	for i, mod := range modules {
		if err := ctx.Err(); err != nil {
			return nil, r.abort(ctx, err)
		}

		var name string
		if err := classify.Guard(func() { name = mod.Name() }); err != nil {
			name = fmt.Sprintf("#%d", i)
			err = fmt.Errorf("%w: module %s: name: %v", ErrModulePanicked, name, err)
			logger.Error("Module skipped.", "module", name, "error", err)
			report.add(Diagnostic{Severity: classify.SeverityError, Module: name, Err: err})
			continue
		}
		if _, dup := seen[name]; dup {
			err := fmt.Errorf("%w: %q", ErrDuplicateModule, name)
			logger.Error("Module skipped.", "module", name, "error", err)
			report.add(Diagnostic{Severity: classify.SeverityError, Module: name, Err: err})
			continue
		}
		seen[name] = struct{}{}

		var (
			entry   *Entry
			loadErr error
		)
		if err := classify.Guard(func() { entry, loadErr = r.loadModule(ctx, mod, name, report) }); err != nil {
			err = fmt.Errorf("%w: %q: %v", ErrModulePanicked, name, err)
			logger.Error("Module skipped.", "module", name, "error", err)
			report.add(Diagnostic{Severity: classify.SeverityError, Module: name, Err: err})
			report.Skipped = append(report.Skipped, name)
			continue
		}
		if loadErr != nil {
			return nil, r.abort(ctx, loadErr)
		}
		if entry == nil {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		r.mu.Lock()
		r.entries[name] = entry
		r.order = append(r.order, name)
		r.mu.Unlock()
		report.Registered = append(report.Registered, name)
	}

	r.mu.Lock()
	r.state = StateLoaded
	r.mu.Unlock()

	logger.Info("Registry loaded.",
		"registered", len(report.Registered),
		"skipped", len(report.Skipped),
		"errors", len(report.Errors()),
		"warnings", len(report.Warnings()),
	)
	return report, nil
}

// loadModule runs the scanner and the four classifiers for one module. It
// returns a nil entry when the module registers nothing.
func (r *Registry) loadModule(ctx context.Context, mod module.Module, name string, report *Report) (*Entry, error) {
	ctx, logger := ctxlog.With(ctx, "module", name)

	candidates := scan.Scan(ctx, mod)
	if candidates.Empty() {
		logger.Debug("Module declares no capability, skipping.")
		return nil, nil
	}

	entry := &Entry{Module: name}

	sources, err := classify.Sources(ctx, r.provider, name, candidates.Sources)
	if err != nil {
		return nil, err
	}
	for _, res := range sources {
		switch res.Status {
		case classify.Found:
			entry.Sources = append(entry.Sources, res.Value)
		case classify.Failed:
			report.addError(res.Err)
		}
	}

	for _, kind := range []capability.Kind{capability.KindController, capability.KindManager} {
		res := classify.Single(ctx, name, kind, candidates.Of(kind))
		switch res.Status {
		case classify.Found:
			ref := res.Value
			if kind == capability.KindController {
				entry.Controller = &ref
			} else {
				entry.Manager = &ref
			}
		case classify.Failed:
			report.addError(res.Err)
		}
	}

	entry.Units = classify.Units(ctx, name, candidates.Units)

	if err := classify.Orphaned(ctx, name, len(entry.Sources), entry.Controller != nil); err != nil {
		report.addError(err)
	}

	if entry.empty() {
		logger.Debug("Module produced no registration.")
		return nil, nil
	}
	return entry, nil
}

// abort resets the registry after a cancelled load.
func (r *Registry) abort(ctx context.Context, cause error) error {
	r.reset()
	ctxlog.FromContext(ctx).Warn("Registry load cancelled, registry reset.", "error", cause)
	return fmt.Errorf("registry load cancelled: %w", cause)
}

// Unload discards every registration and returns the registry to Empty. It
// is safe to call in any state except while Load is running.
func (r *Registry) Unload() {
	r.reset()
}

// resetIfLoading returns a registry left mid-load to Empty.
func (r *Registry) resetIfLoading() {
	r.mu.Lock()
	stuck := r.state == StateLoading
	r.mu.Unlock()
	if stuck {
		r.reset()
	}
}

func (r *Registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*Entry)
	r.order = nil
	r.state = StateEmpty
}
