package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/ctxlog"
)

// Single classifies a single-valued family (Controller or Manager). No
// candidate yields NotApplicable, exactly one yields Found, and more than
// one fails with ErrDuplicateDeclaration so nothing is registered for the
// family.
func Single(ctx context.Context, mod string, kind capability.Kind, candidates []capability.Descriptor) Result[TypeRef] {
	logger := ctxlog.FromContext(ctx).With("module", mod, "capability", kind)

	if !kind.SingleValued() {
		panic(fmt.Sprintf("classify: %s is not a single-valued capability", kind))
	}

	switch len(candidates) {
	case 0:
		return Skip[TypeRef]()
	case 1:
		ref := TypeRef{Module: mod, Descriptor: candidates[0]}
		logger.Info("Capability registered.", "type", ref.Name())
		return Ok(ref)
	}

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name())
	}
	err := newError(mod, kind, "", fmt.Errorf("%w: %d types declared (%s), at most one allowed",
		ErrDuplicateDeclaration, len(candidates), strings.Join(names, ", ")))
	logger.Error("Capability rejected: duplicate declaration.", "error", err)
	return Fail[TypeRef](err)
}

// Orphaned reports ErrOrphanedSources when a module registered Sources but
// no Controller to drive them.
func Orphaned(ctx context.Context, mod string, sources int, controller bool) error {
	if sources == 0 || controller {
		return nil
	}
	err := newError(mod, capability.KindController, "", fmt.Errorf("%w: %d source(s) registered, none usable", ErrOrphanedSources, sources))
	ctxlog.FromContext(ctx).Warn("Module has sources but no controller.", "module", mod, "error", err)
	return err
}
