// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package ast contains the document object model of a malina module. All
// nodes are created once by the parser and attached exactly once to their
// parent. Nothing mutates the tree afterwards, alias expansion only walks
// definitions under different contexts.
package ast

import (
	"strings"

	"github.com/golangee/malina/token"
)

// Node is implemented by all kinds of the model. The set of kinds is closed.
type Node interface {
	token.Node
	// Parent returns the node which owns this node or nil for a Module.
	Parent() Node
	node()
}

// Entity is a node which may appear in a block.
type Entity interface {
	Node
	entity()
}

// Value is one of *Literal, *Parameter or *Alias.
type Value interface {
	Node
	value()
}

// base provides the position and the parent back reference.
type base struct {
	token.Position
	parent Node
}

func (b *base) Parent() Node {
	return b.parent
}

func (b *base) node() {}

func (b *base) setParent(p Node) {
	if b.parent != nil {
		panic("ast: node attached twice")
	}

	b.parent = p
}

type attachable interface {
	setParent(p Node)
}

func attach(parent, child Node) {
	child.(attachable).setParent(parent)
}

// Module is a single source file.
type Module struct {
	base
	FileName string
	// Format is the target format of all documents of this module.
	Format     Format
	Namespaces []*Namespace
	Documents  []*Document
	AliasDefs  []*AliasDefinition
}

// NewModule creates an empty module.
func NewModule(fileName string, format Format) *Module {
	return &Module{FileName: fileName, Format: format}
}

func (m *Module) AddNamespace(ns *Namespace) {
	attach(m, ns)
	m.Namespaces = append(m.Namespaces, ns)
}

func (m *Module) AddDocument(d *Document) {
	attach(m, d)
	m.Documents = append(m.Documents, d)
}

func (m *Module) AddAliasDefinition(d *AliasDefinition) {
	attach(m, d)
	m.AliasDefs = append(m.AliasDefs, d)
}

// Document is the root of one generated output file.
type Document struct {
	base
	Name       string
	Format     Format
	Namespaces []*Namespace
	Entities   []Entity
}

func (d *Document) AddNamespace(ns *Namespace) {
	attach(d, ns)
	d.Namespaces = append(d.Namespaces, ns)
}

func (d *Document) AddEntity(e Entity) {
	attach(d, e)
	d.Entities = append(d.Entities, e)
}

// Module returns the owning module.
func (d *Document) Module() *Module {
	m, _ := d.parent.(*Module)
	return m
}

// AliasDefinition is a named template of entities or of a value.
type AliasDefinition struct {
	base
	Name       string
	Value      Value
	Namespaces []*Namespace
	Entities   []Entity
	// Params lists all parameters used anywhere in the definition, in source order.
	Params []*Parameter
}

func (d *AliasDefinition) AddNamespace(ns *Namespace) {
	attach(d, ns)
	d.Namespaces = append(d.Namespaces, ns)
}

func (d *AliasDefinition) AddEntity(e Entity) {
	attach(d, e)
	d.Entities = append(d.Entities, e)
}

func (d *AliasDefinition) SetValue(v Value) {
	attach(d, v)
	d.Value = v
}

// Declares returns true if a parameter with the given name is used by the definition.
func (d *AliasDefinition) Declares(name string) bool {
	for _, p := range d.Params {
		if p.Name == name {
			return true
		}
	}

	return false
}

// Module returns the owning module.
func (d *AliasDefinition) Module() *Module {
	m, _ := d.parent.(*Module)
	return m
}

// Namespace binds a prefix to a URI.
type Namespace struct {
	base
	Name string
	URI  string
}

func (n *Namespace) entity() {}

// Element is a named or unnamed node of the generated document.
type Element struct {
	base
	// Name is empty for array items and may carry a "prefix." namespace prefix.
	Name       string
	Attributes []*Attribute
	Entities   []Entity
	Value      Value
}

func (e *Element) entity() {}

func (e *Element) AddAttribute(a *Attribute) {
	attach(e, a)
	e.Attributes = append(e.Attributes, a)
}

func (e *Element) AddEntity(x Entity) {
	attach(e, x)
	e.Entities = append(e.Entities, x)
}

func (e *Element) SetValue(v Value) {
	attach(e, v)
	e.Value = v
}

// Attribute is a named value of an element.
type Attribute struct {
	base
	Name  string
	Value Value
}

func (a *Attribute) entity() {}

func (a *Attribute) SetValue(v Value) {
	attach(a, v)
	a.Value = v
}

// Alias references an AliasDefinition, either as entity or as value.
type Alias struct {
	base
	Name      string
	Arguments []*Argument
}

func (a *Alias) entity() {}
func (a *Alias) value()  {}

func (a *Alias) AddArgument(arg *Argument) {
	attach(a, arg)
	a.Arguments = append(a.Arguments, arg)
}

// Argument returns the argument with the given name or nil.
func (a *Alias) Argument(name string) *Argument {
	for _, arg := range a.Arguments {
		if arg.Name == name {
			return arg
		}
	}

	return nil
}

// Argument supplies a value or entities for a parameter at an alias use.
type Argument struct {
	base
	Name     string
	Value    Value
	Entities []Entity
}

func (a *Argument) AddEntity(e Entity) {
	attach(a, e)
	a.Entities = append(a.Entities, e)
}

func (a *Argument) SetValue(v Value) {
	attach(a, v)
	a.Value = v
}

// Parameter is a placeholder inside an alias definition, either as entity or
// as value. Value and Entities are the defaults.
type Parameter struct {
	base
	Name     string
	Value    Value
	Entities []Entity
}

func (p *Parameter) entity() {}
func (p *Parameter) value()  {}

func (p *Parameter) AddEntity(e Entity) {
	attach(p, e)
	p.Entities = append(p.Entities, e)
}

func (p *Parameter) SetValue(v Value) {
	attach(p, v)
	p.Value = v
}

// HasDefault returns true if a default value or default entities exist.
func (p *Parameter) HasDefault() bool {
	return p.Value != nil || len(p.Entities) > 0
}

// LiteralKind tells how a literal has been written.
type LiteralKind int

const (
	Plain LiteralKind = iota
	Quoted
	Open
)

// Literal is a value written in the source.
type Literal struct {
	base
	Kind LiteralKind
	Text string
}

func (l *Literal) value() {}

// NewLiteral creates a literal spanning the given position.
func NewLiteral(kind LiteralKind, text string, pos token.Position) *Literal {
	l := &Literal{Kind: kind, Text: text}
	l.Position = pos

	return l
}

// SplitName splits "prefix.local" into its parts. The prefix is empty if
// the name contains no dot.
func SplitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i], name[i+1:]
	}

	return "", name
}

// Scope returns the nearest Document or AliasDefinition containing n, or nil.
func Scope(n Node) Node {
	for p := n; p != nil; p = p.Parent() {
		switch p.(type) {
		case *Document, *AliasDefinition:
			return p
		}
	}

	return nil
}

// DeclaringModule returns the module which contains n, or nil.
func DeclaringModule(n Node) *Module {
	for p := n; p != nil; p = p.Parent() {
		if m, ok := p.(*Module); ok {
			return m
		}
	}

	return nil
}
