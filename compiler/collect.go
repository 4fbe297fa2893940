// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/parser"
	"github.com/golangee/malina/token"
)

// CollectInputs returns an input for every source file found at the given
// paths. Directories are searched recursively, hidden directories are
// skipped. A manifest below a searched directory is an error.
func CollectInputs(paths ...string) ([]Input, error) {
	var res []Input

	seen := map[string]bool{}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("unable to collect sources: %w", err)
		}

		if !info.IsDir() {
			if !seen[root] {
				seen[root] = true
				res = append(res, FileInput(root))
			}

			continue
		}

		var files []string

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root && d.IsDir() && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			if d.IsDir() {
				return nil
			}

			if d.Name() == parser.ManifestName && filepath.Dir(path) != filepath.Clean(root) {
				return newWrongFileLocationError(path, "a nested manifest")
			}

			if d.Type().IsRegular() && ast.IsSource(d.Name()) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}

			return nil
		})

		if err != nil {
			return nil, err
		}

		sort.Strings(files)

		for _, f := range files {
			res = append(res, FileInput(f))
		}
	}

	return res, nil
}

func newWrongFileLocationError(fname, what string) error {
	pos := token.Pos{File: fname, Line: 1, Col: 1}

	return diag.New(diag.MisplacedDeclaration, token.NewNode(pos, pos), what)
}
