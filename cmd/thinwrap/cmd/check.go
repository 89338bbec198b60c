package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/syssam/thinwrap/compiler"
	"github.com/syssam/thinwrap/compiler/gen"
)

type kindInfo struct {
	Name    string `json:"name"`
	Handle  string `json:"handle"`
	Release string `json:"release"`
	Binding string `json:"binding,omitempty"`
	File    string `json:"file"`
}

type checkResult struct {
	Manifest string     `json:"manifest"`
	Package  string     `json:"package"`
	Features []string   `json:"features"`
	Kinds    []kindInfo `json:"kinds"`
}

func (a *app) checkCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a manifest and list its kinds",
		Long: `Check loads and validates the manifest without writing any files.
All validation errors are reported together.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unknown output format %q (want table or json)", output)
			}
			manifest := a.v.GetString(keyManifest)
			g, err := compiler.LoadGraph(manifest, gen.DefaultConfig())
			if err != nil {
				return err
			}
			res := describe(manifest, g)
			out := cmd.OutOrStdout()
			if output == "json" {
				buf, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(out, string(buf))
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("Kind", "Handle", "Release", "Binding", "File")
			for _, k := range res.Kinds {
				binding := "-"
				if k.Binding != "" {
					binding = k.Binding
				}
				if err := table.Append(k.Name, k.Handle, k.Release, binding, k.File); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s: package %s, %d kinds OK\n", manifest, res.Package, len(res.Kinds))
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "table", "output format: table or json")
	return cmd
}

func describe(manifest string, g *gen.Graph) checkResult {
	res := checkResult{Manifest: manifest, Package: g.Package}
	for _, f := range g.Features {
		res.Features = append(res.Features, f.Name)
	}
	for _, k := range g.Kinds {
		info := kindInfo{
			Name:    k.Name,
			Handle:  k.Handle.String(),
			Release: k.Release.String(),
			File:    k.FileName(),
		}
		if k.Bound() {
			info.Binding = k.Binding.String()
		}
		res.Kinds = append(res.Kinds, info)
	}
	return res
}
