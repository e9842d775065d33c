package config

import (
	"fmt"
	"log"

	"github.com/BurntSushi/toml"
	"github.com/playmatatu/hoopshot/internal/game"
)

// variantsFile is the on-disk layout:
//
//	[variants.slingshot]
//	max_tries = 3
//
//	[variants.moonball]
//	extends = "arcade"
//	gravity = -1.2
type variantsFile struct {
	Variants map[string]toml.Primitive `toml:"variants"`
}

type variantHeader struct {
	Extends string `toml:"extends"`
}

// LoadVariants returns the built-in presets overlaid with the variants in
// path. Keys missing from a table keep the value of the preset it extends
// (the built-in of the same name, slingshot otherwise). Only built-ins can be
// extended. Unknown keys are an error. An empty path returns the built-ins
// unchanged.
func LoadVariants(path string) (map[string]game.Params, error) {
	builtin := game.Presets()
	presets := game.Presets()
	if path == "" {
		return presets, nil
	}

	var file variantsFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to read variants file %s: %w", path, err)
	}

	for name, prim := range file.Variants {
		var hdr variantHeader
		if err := md.PrimitiveDecode(prim, &hdr); err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}

		base, ok := builtin[hdr.Extends]
		if !ok {
			if hdr.Extends != "" {
				return nil, fmt.Errorf("variant %s extends unknown variant %q", name, hdr.Extends)
			}
			if base, ok = builtin[name]; !ok {
				base = game.SlingshotParams()
			}
		}

		p := base
		if err := md.PrimitiveDecode(prim, &p); err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		p.Name = name
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		presets[name] = p
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in variants file %s: %v", path, undecoded)
	}
	log.Printf("[CONFIG] Loaded %d variants from %s", len(file.Variants), path)
	return presets, nil
}
