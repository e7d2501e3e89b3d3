package registry

import (
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/classify"
)

// Snapshot is a serializable view of the registry for the UI and CLI.
type Snapshot struct {
	State   string          `json:"state" yaml:"state"`
	Modules []ModuleSummary `json:"modules" yaml:"modules"`
}

// ModuleSummary describes the registrations of one module.
type ModuleSummary struct {
	Name       string          `json:"name" yaml:"name"`
	Sources    []SourceSummary `json:"sources,omitempty" yaml:"sources,omitempty"`
	Controller string          `json:"controller,omitempty" yaml:"controller,omitempty"`
	Manager    string          `json:"manager,omitempty" yaml:"manager,omitempty"`
	Units      []string        `json:"units,omitempty" yaml:"units,omitempty"`
	// Animated is false when the module has Sources but no Controller to
	// drive them.
	Animated bool `json:"animated" yaml:"animated"`
}

// SourceSummary describes one registered Source.
type SourceSummary struct {
	Name     string          `json:"name" yaml:"name"`
	Path     string          `json:"path" yaml:"path"`
	Tracks   []string        `json:"tracks" yaml:"tracks"`
	CellSize capability.Size `json:"cell_size" yaml:"cell_size"`
	Texture  string          `json:"texture" yaml:"texture"`
	Module   string          `json:"module,omitempty" yaml:"module,omitempty"`
}

// SummarizeSource converts a registered Source into its serializable form.
func SummarizeSource(s *classify.RegisteredSource) SourceSummary {
	tracks := make([]string, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		tracks = append(tracks, t.Name)
	}
	return SourceSummary{
		Name:     s.Name,
		Path:     s.Path,
		Tracks:   tracks,
		CellSize: s.CellSize,
		Texture:  s.Texture.ID,
		Module:   s.Module,
	}
}

// Snapshot returns the current registrations in load order.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{State: r.state.String(), Modules: make([]ModuleSummary, 0, len(r.order))}
	for _, name := range r.order {
		e := r.entries[name]
		sum := ModuleSummary{Name: name, Animated: e.Controller != nil && len(e.Sources) > 0}
		for _, s := range e.Sources {
			sum.Sources = append(sum.Sources, SummarizeSource(s))
		}
		if e.Controller != nil {
			sum.Controller = e.Controller.Name()
		}
		if e.Manager != nil {
			sum.Manager = e.Manager.Name()
		}
		for _, u := range e.Units {
			sum.Units = append(sum.Units, u.Name())
		}
		snap.Modules = append(snap.Modules, sum)
	}
	return snap
}
