package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/capreg/internal/capability"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fileSchema is the top-level structure of a manifest file.
type fileSchema struct {
	Sources []*sourceBlock `hcl:"source,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type sourceBlock struct {
	Name     string         `hcl:"name,label"`
	CellSize hcl.Expression `hcl:"cell_size"`
	Path     hcl.Expression `hcl:"path,optional"`
	Enabled  *bool          `hcl:"enabled,optional"`
	Tracks   []*trackBlock  `hcl:"track,block"`
}

type trackBlock struct {
	Name          string `hcl:"name,label"`
	Frames        []int  `hcl:"frames"`
	FrameDuration string `hcl:"frame_duration,optional"`
	Loop          bool   `hcl:"loop,optional"`
}

// evalContext exposes `module.name` to manifest expressions.
func evalContext(mod string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"module": cty.ObjectVal(map[string]cty.Value{
				"name": cty.StringVal(mod),
			}),
		},
	}
}

// sourceEvalContext adds `source.name`, the qualified name of the block
// being decoded, on top of parent.
func sourceEvalContext(parent *hcl.EvalContext, name string) *hcl.EvalContext {
	child := parent.NewChild()
	child.Variables = map[string]cty.Value{
		"source": cty.ObjectVal(map[string]cty.Value{
			"name": cty.StringVal(name),
		}),
	}
	return child
}

// qualify prefixes a block label with the module name unless it already is.
func qualify(mod, label string) string {
	if strings.HasPrefix(label, mod+".") {
		return label
	}
	return mod + "." + label
}

// decodeFile turns the body of one manifest file into Sources of mod.
func decodeFile(mod string, body hcl.Body) ([]*Source, hcl.Diagnostics) {
	evalCtx := evalContext(mod)

	var root fileSchema
	diags := gohcl.DecodeBody(body, evalCtx, &root)
	if diags.HasErrors() {
		return nil, diags
	}

	sources := make([]*Source, 0, len(root.Sources))
	for _, block := range root.Sources {
		src, blockDiags := decodeSource(mod, block, evalCtx)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		sources = append(sources, src)
	}
	return sources, diags
}

func decodeSource(mod string, block *sourceBlock, evalCtx *hcl.EvalContext) (*Source, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	src := &Source{
		name:    qualify(mod, block.Name),
		enabled: true,
	}
	evalCtx = sourceEvalContext(evalCtx, src.name)

	path, pathDiags := decodePath(block.Path, evalCtx)
	diags = append(diags, pathDiags...)
	src.path = path
	if block.Enabled != nil {
		src.enabled = *block.Enabled
	}

	size, sizeDiags := decodeCellSize(block.CellSize, evalCtx)
	diags = append(diags, sizeDiags...)
	src.cellSize = size

	for _, tb := range block.Tracks {
		track := capability.Track{Name: tb.Name, Frames: tb.Frames, Loop: tb.Loop}
		if tb.FrameDuration != "" {
			d, err := time.ParseDuration(tb.FrameDuration)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid frame_duration",
					Detail:   fmt.Sprintf("Track %q of source %q: %s.", tb.Name, src.name, err),
				})
				continue
			}
			track.FrameDuration = d
		}
		src.tracks = append(src.tracks, track)
	}

	return src, diags
}

// decodePath evaluates the optional `path` attribute. An absent attribute
// yields an empty path.
func decodePath(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, hcl.Diagnostics) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() || val.IsNull() {
		return "", diags
	}

	var path string
	if err := gocty.FromCtyValue(val, &path); err != nil {
		rng := expr.Range()
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid path",
			Detail:   fmt.Sprintf("path must be a string: %s.", err),
			Subject:  &rng,
		})
	}
	return path, diags
}

// decodeCellSize evaluates `cell_size`, which must be a two-element list or
// tuple of whole numbers.
func decodeCellSize(expr hcl.Expression, evalCtx *hcl.EvalContext) (capability.Size, hcl.Diagnostics) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return capability.Size{}, diags
	}

	rng := expr.Range()
	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid cell_size",
			Detail:   detail,
			Subject:  &rng,
		})
	}

	if val.IsNull() || !val.IsWhollyKnown() {
		return capability.Size{}, invalid("cell_size must be a list of two numbers, e.g. [16, 16].")
	}
	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return capability.Size{}, invalid("cell_size must be a list of two numbers, e.g. [16, 16].")
	}
	if list.LengthInt() != 2 {
		return capability.Size{}, invalid("cell_size must have exactly two elements.")
	}

	var dims []int
	if err := gocty.FromCtyValue(list, &dims); err != nil {
		return capability.Size{}, invalid(fmt.Sprintf("cell_size: %s.", err))
	}
	return capability.Size{W: dims[0], H: dims[1]}, diags
}
