package app

import (
	"github.com/vk/capreg/internal/module"
	"github.com/vk/capreg/modules/ambient"
	"github.com/vk/capreg/modules/hero"
)

// coreModules is the definitive list of all modules that are compiled into
// the capreg binary.
var coreModules = []module.Module{
	&hero.Module{},
	&ambient.Module{},
}

// mergeModules joins the compiled modules with the manifest modules found on
// disk. A manifest module sharing a compiled module's name extends it;
// compiled types come first. Manifest-only modules follow in their own
// order.
func mergeModules(compiled []module.Module, manifests []*module.Static) []module.Module {
	byName := make(map[string]*module.Static, len(manifests))
	for _, m := range manifests {
		byName[m.Name()] = m
	}

	merged := make([]module.Module, 0, len(compiled)+len(manifests))
	used := make(map[string]bool, len(manifests))
	for _, c := range compiled {
		if m, ok := byName[c.Name()]; ok && !used[c.Name()] {
			merged = append(merged, module.Merge(c.Name(), c, m))
			used[c.Name()] = true
			continue
		}
		merged = append(merged, c)
	}
	for _, m := range manifests {
		if !used[m.Name()] {
			merged = append(merged, m)
		}
	}
	return merged
}
