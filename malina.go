// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package malina compiles malina sources into XML and JSON documents. It is a
// convenience layer over the compiler package for callers which keep the
// results in memory.
package malina

import (
	"context"

	"github.com/golangee/malina/compiler"
)

// Files maps the name of each generated document to its content.
type Files map[string][]byte

// CompileString compiles a single module. The file name decides the target
// format, use a .mlx extension for XML and .mlj for JSON.
//
//	files, err := malina.CompileString("hello.mlj", "!hello:\n    world = 1\n")
//	// files["hello.json"] holds {"world": 1}
//
// The returned error is a diag.List if the source has problems.
func CompileString(filename, src string) (Files, error) {
	return Compile(context.Background(), compiler.StringInput{FileName: filename, Source: src})
}

// Compile compiles the inputs as a single unit. Nothing is returned if any
// input has a problem.
func Compile(ctx context.Context, inputs ...compiler.Input) (Files, error) {
	out := compiler.NewMemOutput()

	res := compiler.New(compiler.Options{Output: out}).Compile(ctx, inputs)
	if err := res.Err(); err != nil {
		return nil, err
	}

	files := Files{}
	for _, name := range out.Names() {
		files[name], _ = out.File(name)
	}

	return files, nil
}

// CompileDir compiles the project in dir as configured by its manifest.
func CompileDir(ctx context.Context, dir string) ([]string, error) {
	prj, err := compiler.LoadProject(dir)
	if err != nil {
		return nil, err
	}

	res := prj.Compile(ctx)

	return res.Files, res.Err()
}
