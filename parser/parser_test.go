// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"
	"testing"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/r3labs/diff/v2"
	"github.com/stretchr/testify/require"
)

// snap is a parent free copy of the model which can be compared by diff.
type snap struct {
	Kind     string
	Name     string
	Value    string
	Children []*snap
}

func node(kind, name, value string, children ...*snap) *snap {
	if len(children) == 0 {
		children = nil
	}

	return &snap{Kind: kind, Name: name, Value: value, Children: children}
}

func (s *snap) add(c *snap) {
	s.Children = append(s.Children, c)
}

func valueText(v ast.Value) string {
	switch v := v.(type) {
	case *ast.Literal:
		return v.Text
	case *ast.Alias:
		return "$" + v.Name
	case *ast.Parameter:
		return "%" + v.Name
	default:
		return ""
	}
}

func snapshot(n ast.Node) *snap {
	switch n := n.(type) {
	case *ast.Module:
		s := node("module", "", "")
		for _, ns := range n.Namespaces {
			s.add(snapshot(ns))
		}

		for _, def := range n.AliasDefs {
			s.add(snapshot(def))
		}

		for _, doc := range n.Documents {
			s.add(snapshot(doc))
		}

		return s
	case *ast.Document:
		s := node("document", n.Name, "")
		for _, ns := range n.Namespaces {
			s.add(snapshot(ns))
		}

		for _, e := range n.Entities {
			s.add(snapshot(e))
		}

		return s
	case *ast.AliasDefinition:
		s := node("alias definition", n.Name, valueText(n.Value))
		for _, ns := range n.Namespaces {
			s.add(snapshot(ns))
		}

		for _, e := range n.Entities {
			s.add(snapshot(e))
		}

		return s
	case *ast.Namespace:
		return node("namespace", n.Name, n.URI)
	case *ast.Element:
		s := node("element", n.Name, valueText(n.Value))
		for _, a := range n.Attributes {
			s.add(snapshot(a))
		}

		for _, e := range n.Entities {
			s.add(snapshot(e))
		}

		return s
	case *ast.Attribute:
		return node("attribute", n.Name, valueText(n.Value))
	case *ast.Alias:
		s := node("alias", n.Name, "")
		for _, a := range n.Arguments {
			s.add(snapshot(a))
		}

		return s
	case *ast.Argument:
		s := node("argument", n.Name, valueText(n.Value))
		for _, e := range n.Entities {
			s.add(snapshot(e))
		}

		return s
	case *ast.Parameter:
		s := node("parameter", n.Name, valueText(n.Value))
		for _, e := range n.Entities {
			s.add(snapshot(e))
		}

		return s
	default:
		panic("unexpected node")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *snap
	}{
		{
			name: "empty",
			text: "",
			want: node("module", "", ""),
		},

		{
			name: "elements",
			text: "!root:\n    a = 1\n    b = \"x \\\"y\\\"\"\n    c =\n",
			want: node("module", "", "",
				node("document", "root", "",
					node("element", "a", "1"),
					node("element", "b", `x "y"`),
					node("element", "c", ""),
				),
			),
		},

		{
			name: "attributes and nesting",
			text: "!doc:\n    item:\n        @id = 5\n        @flag\n        name = x\n    other\n",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "item", "",
						node("attribute", "id", "5"),
						node("attribute", "flag", ""),
						node("element", "name", "x"),
					),
					node("element", "other", ""),
				),
			),
		},

		{
			name: "inline block",
			text: "!doc: (a = 1, b: (c = 2), d = x y)",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "a", "1"),
					node("element", "b", "",
						node("element", "c", "2"),
					),
					node("element", "d", "x y"),
				),
			),
		},

		{
			name: "inline single child",
			text: "!doc:\n    a: b = 1\n",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "a", "",
						node("element", "b", "1"),
					),
				),
			),
		},

		{
			name: "open value",
			text: "!doc:\n text == first\n  second\n\n    third\n next = 1\n",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "text", "first\nsecond\n\n  third"),
					node("element", "next", "1"),
				),
			),
		},

		{
			name: "open value with terminator",
			text: "!doc:\n text == first\n  second\n ==\n next = 1\n",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "text", "first\nsecond\n"),
					node("element", "next", "1"),
				),
			),
		},

		{
			name: "quoted continuation",
			text: "!doc:\n    a = \"one\n        two\"\n    b = 2\n",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "a", "one\ntwo"),
					node("element", "b", "2"),
				),
			),
		},

		{
			name: "array items",
			text: "!list:\n    = 1\n    :\n        a = 2\n",
			want: node("module", "", "",
				node("document", "list", "",
					node("element", "", "1"),
					node("element", "", "",
						node("element", "a", "2"),
					),
				),
			),
		},

		{
			name: "namespaces",
			text: "#x = http://x.org/ns\n!doc:\n    #y = urn:y\n    x.a = 1\n",
			want: node("module", "", "",
				node("namespace", "x", "http://x.org/ns"),
				node("document", "doc", "",
					node("namespace", "y", "urn:y"),
					node("element", "x.a", "1"),
				),
			),
		},

		{
			name: "aliases",
			text: "!$Greeting = hello\n\n!$Person:\n    name = %name\n    %extra:\n        age = 0\n\n!doc:\n    greeting = $Greeting\n    $Person:\n        %name = John\n",
			want: node("module", "", "",
				node("alias definition", "Greeting", "hello"),
				node("alias definition", "Person", "",
					node("element", "name", "%name"),
					node("parameter", "extra", "",
						node("element", "age", "0"),
					),
				),
				node("document", "doc", "",
					node("element", "greeting", "$Greeting"),
					node("alias", "Person", "",
						node("argument", "name", "John"),
					),
				),
			),
		},

		{
			name: "comments",
			text: "// header\n!doc:\n    // inner\n    a = 1\n",
			want: node("module", "", "",
				node("document", "doc", "",
					node("element", "a", "1"),
				),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := diag.NewSink()
			mod := Parse("parser_test.mlx", []byte(tt.text), ast.XML, sink)
			require.NoError(t, sink.Err())
			require.NotNil(t, mod)

			differences, err := diff.Diff(tt.want, snapshot(mod))
			require.NoError(t, err)

			changeTypeDescription := map[string]string{
				"create": "was added",
				"update": "is different",
				"delete": "is missing",
			}

			for _, d := range differences {
				t.Errorf("property '%s' %s, expected %v but got %v",
					strings.Join(d.Path, "."),
					changeTypeDescription[d.Type],
					d.From, d.To)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []diag.Code
		// parsed is true if a module is still returned.
		parsed bool
	}{
		{
			name:   "element at module level",
			text:   "a = 1",
			want:   []diag.Code{diag.SyntaxError},
			parsed: false,
		},
		{
			name:   "siblings on the same line",
			text:   "!doc:\n    a b\n",
			want:   []diag.Code{diag.SyntaxError},
			parsed: true,
		},
		{
			name:   "unbalanced parenthesis",
			text:   "!doc: )",
			want:   []diag.Code{diag.UnexpectedChar},
			parsed: true,
		},
		{
			name:   "missing closing quote",
			text:   "!doc:\n    a = \"abc",
			want:   []diag.Code{diag.MissingClosingQuote},
			parsed: true,
		},
		{
			name:   "attribute in document",
			text:   "!doc:\n    @id = 1\n",
			want:   []diag.Code{diag.MisplacedDeclaration},
			parsed: true,
		},
		{
			name:   "namespace in element",
			text:   "!doc:\n    a:\n        #x = urn:x\n",
			want:   []diag.Code{diag.MisplacedDeclaration},
			parsed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := diag.NewSink()
			mod := Parse("errors.mlx", []byte(tt.text), ast.XML, sink)
			require.Equal(t, tt.want, sink.Diagnostics().Codes())
			require.Equal(t, tt.parsed, mod != nil)
		})
	}
}

func TestParsePositions(t *testing.T) {
	sink := diag.NewSink()
	mod := Parse("pos.mlx", []byte("!doc:\n    name = value\n"), ast.XML, sink)
	require.NoError(t, sink.Err())

	el := mod.Documents[0].Entities[0].(*ast.Element)
	require.Equal(t, 2, el.Begin().Line)
	require.Equal(t, 5, el.Begin().Col)
	require.Equal(t, 2, el.End().Line)
	require.Equal(t, 17, el.End().Col)

	v := el.Value.(*ast.Literal)
	require.Equal(t, 12, v.Begin().Col)
	require.Same(t, el, v.Parent())
	require.Same(t, mod.Documents[0], ast.Scope(el))
}

func TestAliasParameters(t *testing.T) {
	sink := diag.NewSink()
	mod := Parse("params.mlx", []byte("!$A:\n    a = %x\n    b:\n        %y = 1\n    %z\n"), ast.XML, sink)
	require.NoError(t, sink.Err())

	def := mod.AliasDefs[0]

	var names []string
	for _, p := range def.Params {
		names = append(names, p.Name)
	}

	require.Equal(t, []string{"x", "y", "z"}, names)
	require.True(t, def.Declares("y"))
	require.False(t, def.Declares("w"))
	require.True(t, def.Params[1].HasDefault())
	require.False(t, def.Params[2].HasDefault())
}

func TestFormatFromExtension(t *testing.T) {
	sink := diag.NewSink()
	mod := ParseFile("testdata/missing.mlj", ast.XML, sink)
	require.Nil(t, mod)
	require.Equal(t, []diag.Code{diag.FileNotFound}, sink.Diagnostics().Codes())

	f, ok := ast.FormatOf("a/b.mlj")
	require.True(t, ok)
	require.Equal(t, ast.JSON, f)
}
