package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vk/capreg/internal/ctxlog"
	"github.com/vk/capreg/internal/fsutil"
)

// DefaultExtensions are the texture file extensions indexed by a Dir provider.
var DefaultExtensions = []string{".png", ".gif", ".jpg", ".jpeg"}

// Dir is a Provider backed by a directory of texture files. A file at
// <root>/Alpha/Sprites/Hero.png resolves the path "Alpha/Sprites/Hero".
type Dir struct {
	root  string
	index map[string]string
}

// NewDir walks root once and indexes every texture file by its resource
// path. When two files share a resource path, the first in lexical order
// wins. A missing root yields an empty index.
func NewDir(ctx context.Context, root string, extensions ...string) (*Dir, error) {
	logger := ctxlog.FromContext(ctx)
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	files, err := fsutil.FindFilesByExtension(root, extensions...)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Asset directory does not exist, no textures will resolve.", "root", root)
		files, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to index assets in %s: %w", root, err)
	}

	d := &Dir{root: root, index: make(map[string]string, len(files))}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, fmt.Errorf("failed to index asset %s: %w", f, err)
		}
		key := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		if existing, dup := d.index[key]; dup {
			logger.Warn("Duplicate texture for resource path, keeping first.", "path", key, "kept", existing, "ignored", f)
			continue
		}
		d.index[key] = f
	}

	logger.Debug("Asset directory indexed.", "root", root, "textures", len(d.index))
	return d, nil
}

// Len returns the number of indexed textures.
func (d *Dir) Len() int {
	return len(d.index)
}

// Resolve implements Provider.
func (d *Dir) Resolve(ctx context.Context, path string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	file, ok := d.index[path]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %s (root %s)", ErrNotFound, path, d.root)
	}
	return Handle{ID: "file:" + path, Path: path, Location: file}, nil
}
