package classify

import (
	"context"

	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/ctxlog"
)

// Units registers every Unit candidate as is. Units are constructed later by
// the module's Manager, so nothing is instantiated or validated here.
func Units(ctx context.Context, mod string, candidates []capability.Descriptor) []TypeRef {
	if len(candidates) == 0 {
		return nil
	}
	refs := make([]TypeRef, 0, len(candidates))
	for _, d := range candidates {
		refs = append(refs, TypeRef{Module: mod, Descriptor: d})
	}
	ctxlog.FromContext(ctx).Debug("Units registered.", "module", mod, "count", len(refs))
	return refs
}
