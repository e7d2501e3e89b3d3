package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/capreg/internal/assets"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/ctxlog"
)

// Sources constructs, validates and resolves every Source candidate of a
// module, returning one Result per candidate in declaration order.
//
// The returned error is non-nil only when ctx ends during resolution; the
// caller must then abandon the whole load.
func Sources(ctx context.Context, provider assets.Provider, mod string, candidates []capability.Descriptor) ([]Result[*RegisteredSource], error) {
	results := make([]Result[*RegisteredSource], 0, len(candidates))
	for _, d := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := classifySource(ctx, provider, mod, d)
		if res.Status == Failed && ctx.Err() != nil && isContextErr(res.Err) {
			return nil, ctx.Err()
		}
		results = append(results, res)
	}
	return results, nil
}

func classifySource(ctx context.Context, provider assets.Provider, mod string, d capability.Descriptor) Result[*RegisteredSource] {
	logger := ctxlog.FromContext(ctx).With("module", mod, "capability", capability.KindSource, "type", d.Name())

	var (
		path     = capability.ResourcePath(d.Name())
		instance capability.Source
		proceed  bool
		tracks   []capability.Track
		size     capability.Size
	)
	err := Guard(func() {
		var ok bool
		instance, ok = d.Source()
		if !ok || instance == nil {
			panic("factory returned no source")
		}
		proceed = instance.Load(&path)
		if proceed {
			tracks = instance.Tracks()
			size = instance.CellSize()
		}
	})
	if err != nil {
		err = newError(mod, capability.KindSource, d.Name(), fmt.Errorf("%w: %v", ErrInvalidSource, err))
		logger.Warn("Source rejected: construction failed.", "error", err)
		return Fail[*RegisteredSource](err)
	}

	if !proceed {
		logger.Debug("Source declined to load.", "path", path)
		return Skip[*RegisteredSource]()
	}

	if len(tracks) == 0 {
		err := newError(mod, capability.KindSource, d.Name(), fmt.Errorf("%w: no animation tracks", ErrInvalidSource))
		logger.Warn("Source rejected: empty track descriptor.", "error", err)
		return Fail[*RegisteredSource](err)
	}
	if !size.Positive() {
		err := newError(mod, capability.KindSource, d.Name(), fmt.Errorf("%w: cell size %dx%d is not positive", ErrInvalidSource, size.W, size.H))
		logger.Warn("Source rejected: zero-sized cells.", "error", err)
		return Fail[*RegisteredSource](err)
	}

	handle, err := provider.Resolve(ctx, path)
	if err != nil {
		if isContextErr(err) {
			return Fail[*RegisteredSource](err)
		}
		if !errors.Is(err, assets.ErrNotFound) {
			err = newError(mod, capability.KindSource, d.Name(), fmt.Errorf("%w: %s: resolution failed: %v", ErrMissingResource, path, err))
			logger.Error("Source rejected: texture resolution failed.", "path", path, "error", err)
			return Fail[*RegisteredSource](err)
		}
		err = newError(mod, capability.KindSource, d.Name(), fmt.Errorf("%w: %s: %v", ErrMissingResource, path, err))
		logger.Error("Source rejected: texture not found.", "path", path, "error", err)
		return Fail[*RegisteredSource](err)
	}

	logger.Info("Source registered.", "path", path, "tracks", len(tracks), "cell_w", size.W, "cell_h", size.H)
	return Ok(&RegisteredSource{
		Module:   mod,
		Name:     d.Name(),
		Path:     path,
		Tracks:   tracks,
		CellSize: size,
		Texture:  handle,
		Instance: instance,
	})
}

// Guard runs module-authored code and converts a panic into an error.
func Guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
