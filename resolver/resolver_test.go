// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"fmt"
	"testing"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/parser"
	"github.com/stretchr/testify/require"
)

// recorder writes every visited node as a line.
type recorder struct {
	r   *Resolver
	out []string
	// phased walks attributes and children separately.
	phased bool
	// names records resolved names instead of values.
	names bool
}

func (rec *recorder) Element(e *ast.Element) {
	if rec.names {
		n, ok := rec.r.ResolveName(e, e.Name)
		if !ok {
			n.URI = "?"
		}

		rec.out = append(rec.out, n.URI+"|"+n.Local)

		return
	}

	if e.Value != nil {
		v, _ := rec.r.ResolveValue(e.Value)
		rec.out = append(rec.out, e.Name+"="+v)

		return
	}

	rec.out = append(rec.out, e.Name)

	if rec.phased {
		rec.r.WalkAttributes(e)
		rec.r.WalkChildren(e)

		return
	}

	rec.r.WalkElement(e)
}

func (rec *recorder) Attribute(a *ast.Attribute) {
	v, _ := rec.r.ResolveValue(a.Value)
	rec.out = append(rec.out, "@"+a.Name+"="+v)
}

// load parses and collects all sources. The returned sink is empty.
func load(t *testing.T, srcs ...string) ([]*ast.Module, *Registry) {
	t.Helper()

	sink := diag.NewSink()
	reg := NewRegistry()

	var mods []*ast.Module

	for i, src := range srcs {
		mod := parser.Parse(fmt.Sprintf("m%d.mlx", i), []byte(src), ast.XML, sink)
		require.NoError(t, sink.Err())
		reg.Collect(mod, sink)
		mods = append(mods, mod)
	}

	require.NoError(t, sink.Err())

	return mods, reg
}

func TestResolver(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   []string
		codes  []diag.Code
		phased bool
		names  bool
	}{
		{
			name: "argument and default",
			src: `!$Pair:
    first:
        %p1
    second:
        %p2:
            d = default

!doc:
    $Pair:
        %p1:
            a = use
`,
			want: []string{"first", "a=use", "second", "d=default"},
		},

		{
			name: "innermost frame wins",
			src: `!$Inner:
    in = %x
!$Outer:
    out = %x
    $Inner:
        %x = b
!doc:
    $Outer:
        %x = a
`,
			want: []string{"out=a", "in=b"},
		},

		{
			name: "value aliases",
			src: `!$G = hello
!$H = $G
!doc:
    g = $G
    h = $H
    e:
        @x = $G
`,
			want: []string{"g=hello", "h=hello", "e", "@x=hello"},
		},

		{
			name:  "undefined alias",
			src:   "!doc:\n    $Missing\n    after = 1\n",
			want:  []string{"after=1"},
			codes: []diag.Code{diag.AliasNotDefined},
		},

		{
			name:  "argument not declared",
			src:   "!$A:\n    a = 1\n!doc:\n    $A:\n        %nope = 1\n",
			want:  []string{"a=1"},
			codes: []diag.Code{diag.ArgumentNotDeclared},
		},

		{
			name:  "parameter outside alias",
			src:   "!doc:\n    a = %x\n",
			want:  []string{"a="},
			codes: []diag.Code{diag.ParameterOutsideAlias},
		},

		{
			name:  "parameter without value",
			src:   "!$A:\n    a = %x\n!doc:\n    $A\n",
			want:  []string{"a="},
			codes: []diag.Code{diag.ParameterWithoutValue, diag.ParameterWithoutValue},
		},

		{
			name:  "alias without value",
			src:   "!$A:\n    a = 1\n!doc:\n    v = $A\n",
			want:  []string{"v="},
			codes: []diag.Code{diag.AliasWithoutValue},
		},

		{
			name:  "argument without value",
			src:   "!$A:\n    v = %x\n!doc:\n    $A:\n        %x:\n            a = 1\n",
			want:  []string{"v="},
			codes: []diag.Code{diag.ArgumentWithoutValue},
		},

		{
			name:  "recursion",
			src:   "!$A:\n    $A\n    $A\n!doc:\n    $A\n    after = 1\n",
			codes: []diag.Code{diag.AliasTooDeep},
		},

		{
			name: "attributes before children",
			src: `!$Kind:
    @kind = k
    child = 1
!doc:
    item:
        @id = 1
        $Kind
`,
			want:   []string{"item", "@id=1", "@kind=k", "child=1"},
			phased: true,
		},

		{
			name: "namespaces",
			src: `#x = urn:x
!$Z:
    #z = urn:z
    z.a = 1
!doc:
    #y = urn:y
    x.b = 2
    y.c = 3
    $Z
    q.d = 4
`,
			want:  []string{"urn:x|b", "urn:y|c", "urn:z|a", "?|d"},
			codes: []diag.Code{diag.NamespaceNotDeclared},
			names: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, reg := load(t, tt.src)
			sink := diag.NewSink()

			rec := &recorder{phased: tt.phased, names: tt.names}
			rec.r = New(mods[0].Documents[0], reg, sink, rec, Options{})
			rec.r.WalkDocument()

			require.Equal(t, tt.want, rec.out)

			var codes []diag.Code
			if len(tt.codes) > 0 {
				codes = sink.Diagnostics().Codes()
			}

			require.Equal(t, tt.codes, codes)
			require.Len(t, rec.r.Frames(), 0)
		})
	}
}

func TestResolverDepth(t *testing.T) {
	mods, reg := load(t, "!$A:\n    $B\n!$B:\n    $A\n!doc:\n    $A\n")
	sink := diag.NewSink()

	rec := &recorder{}
	rec.r = New(mods[0].Documents[0], reg, sink, rec, Options{MaxDepth: 4})
	rec.r.WalkDocument()

	require.True(t, rec.r.Overflow())
	require.True(t, sink.HasFatal())
	require.Equal(t, []diag.Code{diag.AliasTooDeep}, sink.Diagnostics().Codes())
	require.Contains(t, sink.Diagnostics()[0].Message(), "maximum depth of 4")
}

func TestResolverUndefinedAliasHint(t *testing.T) {
	mods, reg := load(t, "!doc:\n    $Missing\n    $Missing\n")
	sink := diag.NewSink()

	rec := &recorder{}
	rec.r = New(mods[0].Documents[0], reg, sink, rec, Options{})
	rec.r.WalkDocument()

	list := sink.Diagnostics()
	require.Equal(t, []diag.Code{diag.AliasNotDefined, diag.AliasNotDefined}, list.Codes())
	require.Equal(t, "define it in this module with !$Missing", list[0].Hint)
	require.Contains(t, list[0].Explain([]byte("!doc:\n    $Missing\n    $Missing\n")), "hint: define it")
}

func TestDocumentNamespaces(t *testing.T) {
	mods, reg := load(t, "#x = urn:x\n#y = urn:old\n!doc:\n    #y = urn:y\n    a = 1\n")
	r := New(mods[0].Documents[0], reg, diag.NewSink(), &recorder{}, Options{})

	ns := r.DocumentNamespaces()
	require.Equal(t, 2, ns.Len())

	uri, ok := ns.Get("y")
	require.True(t, ok)
	require.Equal(t, "urn:y", uri)
}
