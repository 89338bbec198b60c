// Package compiler provides an API for generating thinwrap wrapper packages
// from a manifest file.
package compiler

import (
	"context"

	"github.com/syssam/thinwrap/compiler/gen"
	"github.com/syssam/thinwrap/compiler/load"
)

// LoadGraph loads the manifest at path and returns the validated graph.
func LoadGraph(path string, cfg *gen.Config) (*gen.Graph, error) {
	m, err := load.Load(path)
	if err != nil {
		return nil, gen.NewManifestError(path, "", err)
	}
	return gen.NewGraph(cfg, m)
}

// Generate runs the codegen on the manifest at path with the given options.
// The output goes to the configured target directory.
func Generate(ctx context.Context, path string, opts ...gen.Option) (*gen.Graph, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g, err := LoadGraph(path, cfg)
	if err != nil {
		return nil, err
	}
	return g, g.Gen(ctx)
}
