// Package scan implements the candidate scanner: it filters a module's
// declared types down to the concrete, non-generic ones belonging to a
// recognized capability family. Scanning never runs module code.
package scan

import (
	"context"

	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/ctxlog"
	"github.com/vk/capreg/internal/module"
)

// Candidates groups a module's qualifying types by family, in declaration
// order.
type Candidates struct {
	Module      string
	Sources     []capability.Descriptor
	Controllers []capability.Descriptor
	Managers    []capability.Descriptor
	Units       []capability.Descriptor
}

// Of returns the candidates of one family.
func (c *Candidates) Of(k capability.Kind) []capability.Descriptor {
	switch k {
	case capability.KindSource:
		return c.Sources
	case capability.KindController:
		return c.Controllers
	case capability.KindManager:
		return c.Managers
	case capability.KindUnit:
		return c.Units
	default:
		return nil
	}
}

// Len returns the total number of candidates across all families.
func (c *Candidates) Len() int {
	return len(c.Sources) + len(c.Controllers) + len(c.Managers) + len(c.Units)
}

// Empty reports whether the module contributed no candidate at all, in which
// case it is skipped by the registry.
func (c *Candidates) Empty() bool {
	return c.Len() == 0
}

// Scan inspects the declared types of mod.
func Scan(ctx context.Context, mod module.Module) *Candidates {
	logger := ctxlog.FromContext(ctx).With("module", mod.Name())

	c := &Candidates{Module: mod.Name()}
	for _, d := range mod.Types() {
		if err := d.Validate(); err != nil {
			logger.Debug("Ignoring declared type.", "reason", err)
			continue
		}
		if d.Generic() {
			logger.Debug("Ignoring generic type.", "type", d.Name())
			continue
		}
		if !d.Concrete() {
			logger.Debug("Ignoring non-instantiable type.", "type", d.Name(), "capability", d.Kind())
			continue
		}

		switch d.Kind() {
		case capability.KindSource:
			c.Sources = append(c.Sources, d)
		case capability.KindController:
			c.Controllers = append(c.Controllers, d)
		case capability.KindManager:
			c.Managers = append(c.Managers, d)
		case capability.KindUnit:
			c.Units = append(c.Units, d)
		}
	}

	logger.Debug("Module scanned.",
		"sources", len(c.Sources),
		"controllers", len(c.Controllers),
		"managers", len(c.Managers),
		"units", len(c.Units),
	)
	return c
}
