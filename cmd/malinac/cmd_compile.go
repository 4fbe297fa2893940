// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/compiler"
	"github.com/golangee/malina/schema"
	"github.com/spf13/cobra"
)

type compileFlags struct {
	project string
	out     string
	format  string
	schema  string
	depth   int
	workers int
}

func newCompileCmd() *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "compile [paths...]",
		Short: "Compile sources into XML and JSON documents",
		Long: `Compile sources into XML and JSON documents.

Without paths the project manifest (malina.mod) of the project directory is
used. Given paths are searched recursively for .mlx and .mlj files, which
are compiled as a single unit. Flags override the manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.project, "project", "p", ".", "project directory containing malina.mod")
	cmd.Flags().StringVarP(&flags.out, "out", "o", compiler.DefaultOutputDir, "output directory")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "xml", "format of sources with unknown extension (xml or json)")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "XML schema to validate generated XML documents against")
	cmd.Flags().IntVar(&flags.depth, "depth", 0, "maximum alias expansion depth")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "number of modules processed at the same time")

	return cmd
}

func runCompile(cmd *cobra.Command, flags *compileFlags, args []string) error {
	var (
		opts   compiler.Options
		inputs []compiler.Input
	)

	if len(args) == 0 {
		prj, err := compiler.LoadProject(flags.project)
		if err != nil {
			return err
		}

		opts, inputs = prj.Options, prj.Inputs
	} else {
		var err error

		inputs, err = compiler.CollectInputs(args...)
		if err != nil {
			return err
		}

		opts.Output = compiler.DirOutput(flags.out)
	}

	if err := flags.apply(cmd, &opts); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res := compiler.New(opts).Compile(ctx, inputs)

	for _, f := range res.Files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}

	if len(res.Diagnostics) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), res.Diagnostics.Explain(res.Source))
		return fmt.Errorf("compilation failed with %d errors", len(res.Diagnostics))
	}

	return nil
}

// apply overrides the options with every flag set explicitly.
func (f *compileFlags) apply(cmd *cobra.Command, opts *compiler.Options) error {
	changed := cmd.Flags().Changed

	if changed("out") {
		opts.Output = compiler.DirOutput(f.out)
	}

	if changed("format") {
		format, err := ast.ParseFormat(f.format)
		if err != nil {
			return err
		}

		opts.Format = format
	}

	if changed("schema") {
		v, err := schema.Load(f.schema)
		if err != nil {
			return err
		}

		opts.Schema = v
	}

	if changed("depth") {
		if f.depth < 1 {
			return fmt.Errorf("depth must be positive")
		}

		opts.MaxDepth = f.depth
	}

	if changed("workers") {
		opts.Workers = f.workers
	}

	return nil
}
