package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/thinwrap/compiler"
	"github.com/syssam/thinwrap/compiler/gen"
)

func (a *app) genCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the wrapper package described by a manifest",
		Long: `Generate writes one file per manifest resource, plus doc.go and the files
of the enabled features, into the target directory.

Example:
  thinwrap gen -m res/manifest.yaml
  thinwrap gen -m gfx.yaml -o internal/gfx --package gfx --feature scope-helpers
  thinwrap gen --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.generate(cmd); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchManifest(cmd.Context(), a.v.GetString(keyManifest), a.log, func() error {
				return a.generate(cmd)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringP(keyTarget, "o", "", "output directory (default is the manifest directory)")
	flags.String(keyPackage, "", "generated package name (default from manifest)")
	flags.Int(keyWorkers, 0, "parallel file writers (default GOMAXPROCS)")
	flags.StringSlice(keyFeatures, nil, "extra codegen features to enable")
	flags.BoolVar(&watch, "watch", false, "regenerate whenever the manifest changes")
	for _, key := range []string{keyTarget, keyPackage, keyWorkers, keyFeatures} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}
	return cmd
}

// options turns the merged flag, file and environment settings into
// generator options.
func (a *app) options() []gen.Option {
	manifest := a.v.GetString(keyManifest)
	target := a.v.GetString(keyTarget)
	if target == "" {
		target = filepath.Dir(manifest)
	}
	opts := []gen.Option{
		gen.WithTarget(target),
		gen.WithWorkers(a.v.GetInt(keyWorkers)),
		gen.WithLogger(a.log),
	}
	if pkg := a.v.GetString(keyPackage); pkg != "" {
		opts = append(opts, gen.WithPackage(pkg))
	}
	if features := a.v.GetStringSlice(keyFeatures); len(features) > 0 {
		opts = append(opts, gen.WithFeatureNames(features...))
	}
	return opts
}

func (a *app) generate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	manifest := a.v.GetString(keyManifest)
	g, err := compiler.Generate(ctx, manifest, a.options()...)
	if err != nil {
		return err
	}
	a.log.Debug("generation finished", zap.String("manifest", manifest), zap.Int("kinds", len(g.Kinds)))
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d kinds into %s (package %s)\n", len(g.Kinds), g.Target, g.Package)
	return nil
}
