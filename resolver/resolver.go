// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package resolver expands aliases and resolves namespaces while walking a
// document. Alias definitions are never copied: each use site pushes a
// frame and the definition body is walked again under that frame.
// Parameters always resolve against the innermost frame.
package resolver

import (
	"fmt"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/util"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("malina.resolver")

// DefaultMaxDepth is the default limit of nested expansions.
const DefaultMaxDepth = 32

// Visitor receives the resolved elements and attributes of a document in
// document order. Alias uses and parameters never reach the visitor, their
// expansion does.
type Visitor interface {
	Element(e *ast.Element)
	Attribute(a *ast.Attribute)
}

// Options configure a Resolver.
type Options struct {
	// MaxDepth bounds nested alias expansions and parameter substitutions.
	// Zero means DefaultMaxDepth.
	MaxDepth int
}

// Frame is an active alias expansion.
type Frame struct {
	Definition *ast.AliasDefinition
	Alias      *ast.Alias
	// Namespaces are the bindings in effect at the use site.
	Namespaces util.Bindings
}

type reportKey struct {
	code   diag.Code
	file   string
	offset int
}

type phase int

const (
	phaseAll phase = iota
	phaseAttributes
	phaseChildren
)

// Resolver walks a single document. It is not safe for concurrent use.
type Resolver struct {
	doc      *ast.Document
	registry *Registry
	sink     *diag.Sink
	visitor  Visitor
	maxDepth int
	frames   []*Frame
	depth    int
	overflow bool
	reported map[reportKey]bool
}

// New creates a Resolver for the document.
func New(doc *ast.Document, registry *Registry, sink *diag.Sink, visitor Visitor, opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Resolver{
		doc:      doc,
		registry: registry,
		sink:     sink,
		visitor:  visitor,
		maxDepth: opts.MaxDepth,
		reported: map[reportKey]bool{},
	}
}

// Document returns the walked document.
func (r *Resolver) Document() *ast.Document {
	return r.doc
}

// Walk reports the given entities and everything they expand to.
func (r *Resolver) Walk(entities []ast.Entity) {
	r.walk(entities, phaseAll)
}

// WalkDocument walks all entities of the document.
func (r *Resolver) WalkDocument() {
	r.walk(r.doc.Entities, phaseAll)
}

// WalkElement walks the attributes and the block of an element in source order.
func (r *Resolver) WalkElement(e *ast.Element) {
	for _, a := range e.Attributes {
		r.visitor.Attribute(a)
	}

	r.walk(e.Entities, phaseAll)
}

// WalkAttributes reports the attributes of an element including those
// injected by aliases and parameters of its block. Elements are skipped.
func (r *Resolver) WalkAttributes(e *ast.Element) {
	for _, a := range e.Attributes {
		r.visitor.Attribute(a)
	}

	r.walk(e.Entities, phaseAttributes)
}

// WalkChildren reports the child elements of an element, attributes are skipped.
func (r *Resolver) WalkChildren(e *ast.Element) {
	r.walk(e.Entities, phaseChildren)
}

// Frames returns the active frames, the innermost last.
func (r *Resolver) Frames() []*Frame {
	return append([]*Frame(nil), r.frames...)
}

// Overflow returns true if the expansion depth has been exceeded. The walk
// stops at that point.
func (r *Resolver) Overflow() bool {
	return r.overflow
}

func (r *Resolver) top() *Frame {
	if len(r.frames) == 0 {
		return nil
	}

	return r.frames[len(r.frames)-1]
}

func (r *Resolver) walk(entities []ast.Entity, ph phase) {
	for _, e := range entities {
		if r.overflow {
			return
		}

		switch e := e.(type) {
		case *ast.Element:
			if ph != phaseAttributes {
				r.visitor.Element(e)
			}
		case *ast.Attribute:
			if ph != phaseChildren {
				r.visitor.Attribute(e)
			}
		case *ast.Alias:
			r.expand(e, ph)
		case *ast.Parameter:
			r.substitute(e, ph)
		case *ast.Namespace:
			// declarations are collected by their scope
		}
	}
}

// expand walks the body of the referenced definition under a new frame.
func (r *Resolver) expand(a *ast.Alias, ph phase) {
	def := r.definition(a)
	if def == nil {
		return
	}

	r.checkArguments(a, def)

	if !r.enter(def.Name) {
		return
	}

	r.push(def, a)
	r.walk(def.Entities, ph)
	r.pop()
	r.leave()
}

// substitute walks the argument of the innermost frame which matches the
// parameter, or the parameter defaults.
func (r *Resolver) substitute(p *ast.Parameter, ph phase) {
	f := r.top()
	if f == nil {
		r.report(diag.ParameterOutsideAlias, p, p.Name)
		return
	}

	if !r.enter(f.Definition.Name) {
		return
	}

	defer r.leave()

	if arg := f.Alias.Argument(p.Name); arg != nil {
		r.walk(arg.Entities, ph)
		return
	}

	if p.HasDefault() {
		r.walk(p.Entities, ph)
		return
	}

	r.report(diag.ParameterWithoutValue, p, p.Name)
	r.report(diag.ParameterWithoutValue, f.Alias, p.Name)
}

// ResolveValue returns the text of a value. Aliases and parameters are
// resolved against the active frames. ok is false if the value cannot be
// resolved, the reason has been reported.
func (r *Resolver) ResolveValue(v ast.Value) (string, bool) {
	lit, ok := r.ResolveLiteral(v)
	if lit == nil {
		return "", ok
	}

	return lit.Text, ok
}

// ResolveLiteral returns the literal a value finally refers to. A nil value
// resolves to a nil literal.
func (r *Resolver) ResolveLiteral(v ast.Value) (*ast.Literal, bool) {
	if r.overflow {
		return nil, false
	}

	switch v := v.(type) {
	case nil:
		return nil, true
	case *ast.Literal:
		return v, true
	case *ast.Alias:
		def := r.definition(v)
		if def == nil {
			return nil, false
		}

		if def.Value == nil {
			r.report(diag.AliasWithoutValue, v, v.Name)
			return nil, false
		}

		if !r.enter(def.Name) {
			return nil, false
		}

		r.push(def, v)
		lit, ok := r.ResolveLiteral(def.Value)
		r.pop()
		r.leave()

		return lit, ok
	case *ast.Parameter:
		f := r.top()
		if f == nil {
			r.report(diag.ParameterOutsideAlias, v, v.Name)
			return nil, false
		}

		if !r.enter(f.Definition.Name) {
			return nil, false
		}

		defer r.leave()

		if arg := f.Alias.Argument(v.Name); arg != nil {
			if arg.Value == nil {
				r.report(diag.ArgumentWithoutValue, arg, arg.Name)
				return nil, false
			}

			return r.ResolveLiteral(arg.Value)
		}

		if v.Value != nil {
			return r.ResolveLiteral(v.Value)
		}

		r.report(diag.ParameterWithoutValue, v, v.Name)
		r.report(diag.ParameterWithoutValue, f.Alias, v.Name)

		return nil, false
	default:
		return nil, false
	}
}

func (r *Resolver) definition(a *ast.Alias) *ast.AliasDefinition {
	def := r.registry.Lookup(ast.DeclaringModule(a), a.Name)
	if def == nil {
		d := diag.New(diag.AliasNotDefined, a, a.Name)
		d.Hint = fmt.Sprintf("define it in this module with !$%s", a.Name)
		r.reportDiagnostic(d, a)
	}

	return def
}

// checkArguments reports arguments which the definition does not declare.
func (r *Resolver) checkArguments(a *ast.Alias, def *ast.AliasDefinition) {
	for _, arg := range a.Arguments {
		if !def.Declares(arg.Name) {
			r.report(diag.ArgumentNotDeclared, arg, arg.Name, def.Name)
		}
	}
}

// enter accounts one more nesting level. If the limit is exceeded, a fatal
// diagnostic is reported once and the walk stops.
func (r *Resolver) enter(name string) bool {
	if r.overflow {
		return false
	}

	if r.depth >= r.maxDepth {
		r.overflow = true
		node := ast.Node(r.doc)
		if len(r.frames) > 0 {
			node = r.frames[0].Alias
		}

		log.Debugf("expansion of %s stopped at depth %d", name, r.depth)
		r.sink.Add(diag.AliasTooDeep, node, name, r.maxDepth)

		return false
	}

	r.depth++

	return true
}

func (r *Resolver) leave() {
	r.depth--
}

func (r *Resolver) push(def *ast.AliasDefinition, a *ast.Alias) {
	r.frames = append(r.frames, &Frame{
		Definition: def,
		Alias:      a,
		Namespaces: r.contextNamespaces(),
	})
}

func (r *Resolver) pop() {
	r.frames = r.frames[:len(r.frames)-1]
}

// report adds a diagnostic unless the same problem at the same node has
// already been reported by this resolver.
func (r *Resolver) report(code diag.Code, node ast.Node, args ...interface{}) {
	r.reportDiagnostic(diag.New(code, node, args...), node)
}

func (r *Resolver) reportDiagnostic(d diag.Diagnostic, node ast.Node) {
	key := reportKey{code: d.Code, file: node.Begin().File, offset: node.Begin().Offset}
	if r.reported[key] {
		return
	}

	r.reported[key] = true
	r.sink.Report(d)
}
