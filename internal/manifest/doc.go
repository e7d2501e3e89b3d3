// Package manifest loads declarative Source definitions from HCL files.
//
// A module directory may ship *.hcl files next to (or instead of) Go code.
// The directory name is the module name; every `source` block becomes a
// Source descriptor named "<module>.<label>":
//
//	source "Sprites.Hero" {
//	  cell_size = [16, 16]
//	  path      = "${module.name}/hero_sheet" # optional, replaces the derived path
//	  enabled   = true                        # optional, false opts out of loading
//
//	  track "idle" {
//	    frames         = [0, 1, 2, 3]
//	    frame_duration = "120ms"
//	    loop           = true
//	  }
//	}
//
// Expressions may refer to `module.name` and to `source.name`, the
// qualified name of the enclosing block.
//
// Manifests are only parsed here. Validation (non-empty tracks, positive
// cell size) and texture resolution happen in the source classifier, like
// for any other Source.
package manifest
