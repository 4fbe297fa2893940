// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/resolver"
)

// BlockShape tells if the members of a block are array items or properties.
type BlockShape int

const (
	Object BlockShape = iota
	Array
)

// ShapeOf returns the shape a block gets from its first member.
func ShapeOf(name string) BlockShape {
	if name == "" {
		return Array
	}

	return Object
}

// shapeValidator infers the shape of each block from its first member and
// reports every member which does not fit.
type shapeValidator struct {
	r      *resolver.Resolver
	sink   *diag.Sink
	format ast.Format
	// blockStart is true until the first member of the current block has been seen.
	blockStart bool
	blocks     []BlockShape
	// depth is the number of enclosing elements.
	depth int
	roots int
}

// ValidateDocument resolves the document and reports all structural
// problems into sink. depth bounds the alias expansion, 0 means the default.
func ValidateDocument(doc *ast.Document, registry *resolver.Registry, sink *diag.Sink, depth int) {
	v := &shapeValidator{
		sink:       sink,
		format:     doc.Format,
		blockStart: true,
	}

	v.r = resolver.New(doc, registry, sink, v, resolver.Options{MaxDepth: depth})
	v.r.WalkDocument()
}

func (v *shapeValidator) Element(e *ast.Element) {
	v.checkBlock(e, e.Name)

	if e.Name == "" && v.format == ast.XML {
		v.sink.Add(diag.ArrayItemInXML, e)
	}

	if v.depth == 0 && v.format == ast.XML {
		v.roots++
		if v.roots > 1 {
			v.report(diag.MultipleRootElements, e, e.Name)
		}
	}

	v.checkName(e, e.Name)

	if e.Value != nil {
		v.r.ResolveValue(e.Value)
		return
	}

	v.blockStart = true
	n := len(v.blocks)

	v.depth++
	v.r.WalkElement(e)
	v.depth--

	v.blockStart = false
	if len(v.blocks) > n {
		v.blocks = v.blocks[:n]
	}
}

func (v *shapeValidator) Attribute(a *ast.Attribute) {
	// only an alias can inject an attribute into the document itself
	if v.depth == 0 {
		v.report(diag.MisplacedDeclaration, a, "an attribute outside of an element")
	}

	v.checkBlock(a, a.Name)
	v.checkName(a, a.Name)
	v.r.ResolveValue(a.Value)
}

// checkName reports undeclared prefixes. JSON drops prefixes.
func (v *shapeValidator) checkName(node ast.Node, name string) {
	if v.format == ast.XML {
		v.r.ResolveName(node, name)
	}
}

func (v *shapeValidator) checkBlock(node ast.Node, name string) {
	if v.blockStart || len(v.blocks) == 0 {
		v.blocks = append(v.blocks, ShapeOf(name))
		v.blockStart = false

		return
	}

	switch shape := v.blocks[len(v.blocks)-1]; {
	case shape == Array && name != "":
		v.report(diag.ArrayItemExpected, node)
	case shape == Object && name == "":
		v.report(diag.PropertyExpected, node)
	}
}

// report adds the diagnostic for the node and for each alias use which
// led to it.
func (v *shapeValidator) report(code diag.Code, node ast.Node, args ...interface{}) {
	for _, f := range v.r.Frames() {
		v.sink.Add(code, f.Alias, args...)
	}

	v.sink.Add(code, node, args...)
}
