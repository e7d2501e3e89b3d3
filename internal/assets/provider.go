// Package assets contains the asset provider collaborators the registry uses
// to turn a Source's resource path into a texture handle.
//
// Image decoding and atlas construction are not done here: a provider only
// answers whether a texture exists for a path and hands back an opaque
// handle the renderer understands.
package assets

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Provider when no asset matches a path.
var ErrNotFound = errors.New("asset not found")

// Handle is an opaque reference to a resolved texture.
type Handle struct {
	// ID is unique per provider for the lifetime of the process.
	ID string `json:"id" yaml:"id"`
	// Path is the resource path the handle was resolved from.
	Path string `json:"path" yaml:"path"`
	// Location is where the provider found the asset (file path, URL, ...).
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.ID == ""
}

// Provider resolves resource paths (e.g. "Alpha/Sprites/Hero") into texture
// handles. Implementations return ErrNotFound (possibly wrapped) when the
// asset does not exist.
type Provider interface {
	Resolve(ctx context.Context, path string) (Handle, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, path string) (Handle, error)

// Resolve implements Provider.
func (f ProviderFunc) Resolve(ctx context.Context, path string) (Handle, error) {
	return f(ctx, path)
}
