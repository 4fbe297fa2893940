// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/parser"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, text := range files {
		fname := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(fname), 0o755))
		require.NoError(t, os.WriteFile(fname, []byte(text), 0o644))
	}
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.mlx":             "",
		"sub/a.mlj":         "",
		".hidden/c.mlx":     "",
		"readme.txt":        "",
		parser.ManifestName: "malina v0.1.0",
	})

	inputs, err := CollectInputs(dir, filepath.Join(dir, "b.mlx"))
	require.NoError(t, err)

	var names []string
	for _, in := range inputs {
		names = append(names, in.Name())
	}

	require.Equal(t, []string{filepath.Join(dir, "b.mlx"), filepath.Join(dir, "sub", "a.mlj")}, names)

	writeFiles(t, dir, map[string]string{"sub/" + parser.ManifestName: "malina v0.1.0"})

	_, err = CollectInputs(dir)
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	require.Equal(t, diag.MisplacedDeclaration, d.Code)

	_, err = CollectInputs(filepath.Join(dir, "nothing"))
	require.Error(t, err)
}

func TestProject(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		parser.ManifestName: "malina v0.2.0\nsource \"src\"\noutput \"gen\"\nformat json\ndepth 8\n",
		"src/doc.mlj":       "!doc:\n    a = 1\n",
		"src/other.txt":     "ignored",
	})

	prj, err := LoadProject(dir)
	require.NoError(t, err)
	require.Len(t, prj.Inputs, 1)
	require.Equal(t, 8, prj.Options.MaxDepth)
	require.Equal(t, DirOutput(filepath.Join(dir, "gen")), prj.Options.Output)

	res := prj.Compile(context.Background())
	require.NoError(t, res.Err())
	require.Equal(t, []string{"doc.json"}, res.Files)

	buf, err := os.ReadFile(filepath.Join(dir, "gen", "doc.json"))
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": 1\n}\n", string(buf))
}

func TestProjectRequiresNewerCompiler(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{parser.ManifestName: "malina v9.0.0\n"})

	_, err := LoadProject(dir)
	require.Error(t, err)

	_, err = LoadProject(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
