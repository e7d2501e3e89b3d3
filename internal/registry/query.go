package registry

import (
	"github.com/vk/capreg/internal/classify"
)

// Modules returns the names of every module with at least one
// registration, in load order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Has reports whether mod has at least one registration.
func (r *Registry) Has(mod string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[mod]
	return ok
}

// Sources returns the registered Sources of mod. ok is false when the
// module registered none.
func (r *Registry) Sources(mod string) ([]*classify.RegisteredSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[mod]
	if !ok || len(e.Sources) == 0 {
		return nil, false
	}
	return append([]*classify.RegisteredSource(nil), e.Sources...), true
}

// Controller returns the registered Controller type of mod.
func (r *Registry) Controller(mod string) (classify.TypeRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[mod]
	if !ok || e.Controller == nil {
		return classify.TypeRef{}, false
	}
	return *e.Controller, true
}

// Manager returns the registered Manager type of mod.
func (r *Registry) Manager(mod string) (classify.TypeRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[mod]
	if !ok || e.Manager == nil {
		return classify.TypeRef{}, false
	}
	return *e.Manager, true
}

// Units returns the registered Unit types of mod.
func (r *Registry) Units(mod string) ([]classify.TypeRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[mod]
	if !ok || len(e.Units) == 0 {
		return nil, false
	}
	return append([]classify.TypeRef(nil), e.Units...), true
}

// FindSource looks a Source up by its qualified name or its resource path,
// searching modules in load order. It backs argument resolution for
// text commands.
func (r *Registry) FindSource(nameOrPath string) (*classify.RegisteredSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		for _, s := range r.entries[name].Sources {
			if s.Name == nameOrPath || s.Path == nameOrPath {
				return s, true
			}
		}
	}
	return nil, false
}
