// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/parser"
	"github.com/golangee/malina/resolver"
	"github.com/stretchr/testify/require"
)

// compile parses src as a single module and returns its only document.
func compile(t *testing.T, filename, src string) (*ast.Document, *resolver.Registry) {
	t.Helper()

	format, ok := ast.FormatOf(filename)
	require.True(t, ok)

	sink := diag.NewSink()
	mod := parser.Parse(filename, []byte(src), format, sink)
	require.NoError(t, sink.Err())

	reg := resolver.NewRegistry()
	reg.Collect(mod, sink)
	require.NoError(t, sink.Err())
	require.Len(t, mod.Documents, 1)

	return mod.Documents[0], reg
}

func encode(t *testing.T, filename, src string) (string, LocationMap, error) {
	t.Helper()

	doc, reg := compile(t, filename, src)
	buf := &bytes.Buffer{}
	locs, err := Encode(buf, doc, reg, Options{})

	return buf.String(), locs, err
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestFileName(t *testing.T) {
	doc, _ := compile(t, "a.mlj", "!people:\n    = 1\n")
	require.Equal(t, "people.json", FileName(doc))

	doc, _ = compile(t, "a.mlx", "!book:\n    title = x\n")
	require.Equal(t, "book.xml", FileName(doc))
}

func TestEncodeReportsResolution(t *testing.T) {
	doc, reg := compile(t, "a.mlx", "!doc:\n    root:\n        $Missing\n")

	sink := diag.NewSink()
	_, err := Encode(&bytes.Buffer{}, doc, reg, Options{Sink: sink})
	require.Error(t, err)

	var list diag.List
	require.True(t, errors.As(err, &list))
	require.Equal(t, []diag.Code{diag.AliasNotDefined}, list.Codes())
	require.Equal(t, []diag.Code{diag.AliasNotDefined}, sink.Diagnostics().Codes())
}

func TestEncodeWriteError(t *testing.T) {
	doc, reg := compile(t, "a.mlx", "!doc:\n    root = 1\n")

	_, err := Encode(failingWriter{}, doc, reg, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "doc.xml")
	require.Contains(t, err.Error(), "disk full")
}

func TestEncodeDepth(t *testing.T) {
	doc, reg := compile(t, "a.mlj", "!$A:\n    $A\n!doc:\n    $A\n")

	_, err := Encode(&bytes.Buffer{}, doc, reg, Options{MaxDepth: 3})

	var list diag.List
	require.True(t, errors.As(err, &list))
	require.Equal(t, []diag.Code{diag.AliasTooDeep}, list.Codes())
}

func TestLocationMap(t *testing.T) {
	locs := LocationMap{
		{Path: "/a[1]", Line: 2, Col: 1},
		{Path: "/a[1]/@id", Line: 2, Col: 4},
		{Path: "/a[1]/b[1]", Line: 3, Col: 5},
	}

	tests := []struct {
		line, col int
		want      string
		ok        bool
	}{
		{line: 1, col: 1},
		{line: 2, col: 1, want: "/a[1]", ok: true},
		{line: 2, col: 3, want: "/a[1]", ok: true},
		{line: 2, col: 10, want: "/a[1]/@id", ok: true},
		{line: 3, col: 1, want: "/a[1]/@id", ok: true},
		{line: 9, col: 1, want: "/a[1]/b[1]", ok: true},
	}

	for _, tt := range tests {
		got, ok := locs.Lookup(tt.line, tt.col)
		require.Equal(t, tt.ok, ok)
		require.Equal(t, tt.want, got.Path)
	}

	l, ok := locs.Path("/a[1]/b[1]")
	require.True(t, ok)
	require.Equal(t, 3, l.Line)

	_, ok = locs.Path("/c[1]")
	require.False(t, ok)
}
