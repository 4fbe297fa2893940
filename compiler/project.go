// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"fmt"

	"github.com/golangee/malina/parser"
	"github.com/golangee/malina/schema"
)

// DefaultOutputDir is used if the manifest names no output directory.
const DefaultOutputDir = "out"

// Project is a directory configured by a manifest.
type Project struct {
	Manifest *parser.Manifest
	Options  Options
	Inputs   []Input
}

// LoadProject reads the manifest of dir and collects all sources it names.
func LoadProject(dir string) (*Project, error) {
	m, err := parser.LoadManifest(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to load project: %w", err)
	}

	return NewProject(m)
}

// NewProject derives the compiler options and inputs from the manifest.
func NewProject(m *parser.Manifest) (*Project, error) {
	if err := m.Check(Version); err != nil {
		return nil, err
	}

	inputs, err := CollectInputs(m.SourcePaths()...)
	if err != nil {
		return nil, err
	}

	out := m.Output
	if out == "" {
		out = DefaultOutputDir
	}

	prj := &Project{
		Manifest: m,
		Inputs:   inputs,
		Options: Options{
			MaxDepth: m.Depth,
			Output:   DirOutput(m.Path(out)),
		},
	}

	if m.Format != nil {
		prj.Options.Format = *m.Format
	}

	if m.Schema != "" {
		v, err := schema.Load(m.Path(m.Schema))
		if err != nil {
			return nil, err
		}

		prj.Options.Schema = v
	}

	log.Infof("project %s: %d sources", m.Dir, len(inputs))

	return prj, nil
}

// Compile compiles all sources of the project.
func (p *Project) Compile(ctx context.Context) *Result {
	return New(p.Options).Compile(ctx, p.Inputs)
}
