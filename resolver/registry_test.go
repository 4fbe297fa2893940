// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"testing"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/parser"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	sink := diag.NewSink()
	a := parser.Parse("a.mlx", []byte("!$A = from a\n!$B = only a\n!one:\n    x = 1\n"), ast.XML, sink)
	b := parser.Parse("b.mlx", []byte("!$A = from b\n!one:\n    y = 1\n!two:\n    z = 1\n"), ast.XML, sink)
	require.NoError(t, sink.Err())

	reg := NewRegistry()
	reg.Collect(a, sink)
	reg.Collect(b, sink)

	require.Equal(t, []diag.Code{diag.DuplicateAlias, diag.DuplicateDocument}, sink.Diagnostics().Codes())

	text := func(def *ast.AliasDefinition) string {
		return def.Value.(*ast.Literal).Text
	}

	require.Equal(t, "from a", text(reg.Lookup(a, "A")))
	require.Equal(t, "from b", text(reg.Lookup(b, "A")))
	require.Equal(t, "only a", text(reg.Lookup(b, "B")))
	require.Nil(t, reg.Lookup(a, "C"))

	require.Same(t, a.Documents[0], reg.Document("one"))
	require.Same(t, b.Documents[1], reg.Document("two"))
}
