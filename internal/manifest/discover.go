package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/ctxlog"
	"github.com/vk/capreg/internal/fsutil"
	"github.com/vk/capreg/internal/module"
)

// Parse decodes one manifest file's content for module mod. filename is
// only used in diagnostics.
func Parse(mod string, filename string, src []byte) ([]*Source, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}
	sources, diags := decodeFile(mod, file.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}
	return sources, nil
}

// Discover walks root and returns one module per sub-directory holding
// manifest files, sorted by module name. A file that fails to parse is
// logged and skipped so that one broken manifest cannot prevent the others
// from loading. A missing root yields no modules.
func Discover(ctx context.Context, root string) ([]*module.Static, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering manifest modules...", "path", root)

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Manifest path does not exist, skipping.", "path", root)
			return nil, nil
		}
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}

	files, err := fsutil.FindFilesByExtension(root, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to walk manifest directory %s: %w", root, err)
	}

	parser := hclparse.NewParser()
	byModule := make(map[string][]*Source)
	var names []string

	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			logger.Warn("Manifest outside a module directory, ignoring.", "file", file)
			continue
		}
		mod := parts[0]

		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			logger.Error("Failed to parse manifest, skipping file.", "module", mod, "file", file, "error", diags)
			continue
		}
		sources, diags := decodeFile(mod, hclFile.Body)
		if diags.HasErrors() {
			logger.Error("Failed to decode manifest, skipping file.", "module", mod, "file", file, "error", diags)
			continue
		}
		logWarnings(ctx, file, diags)

		if _, known := byModule[mod]; !known {
			names = append(names, mod)
		}
		byModule[mod] = append(byModule[mod], sources...)
		logger.Debug("Manifest loaded.", "module", mod, "file", file, "sources", len(sources))
	}

	sort.Strings(names)
	modules := make([]*module.Static, 0, len(names))
	for _, name := range names {
		descriptors := make([]capability.Descriptor, 0, len(byModule[name]))
		for _, s := range byModule[name] {
			descriptors = append(descriptors, s.Descriptor())
		}
		modules = append(modules, module.New(name, descriptors...))
	}

	logger.Info("Manifest modules discovered.", "modules", len(modules))
	return modules, nil
}

func logWarnings(ctx context.Context, file string, diags hcl.Diagnostics) {
	for _, d := range diags {
		if d.Severity == hcl.DiagWarning {
			ctxlog.FromContext(ctx).Warn("Manifest warning.", "file", file, "summary", d.Summary, "detail", d.Detail)
		}
	}
}
