// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"io"
	"strconv"
	"strings"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/resolver"
	"github.com/golangee/malina/util"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

var (
	textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;")
	attrEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;", `"`, "&quot;", "\n", "&#10;", "\t", "&#9;")
)

// xmlNode is an element whose closing tag has not been written yet.
type xmlNode struct {
	name string
	path string
	// openTagWritten is set to true once the start tag has been terminated,
	// no more attributes may follow.
	openTagWritten bool
	// scope holds the namespace declarations visible to this element.
	scope util.Bindings
	attrs util.Bindings
	// counts numbers the children by name.
	counts map[string]int
}

type xmlEncoder struct {
	w    *writer
	r    *resolver.Resolver
	locs LocationMap
	// openNodes is a stack of elements that are currently opened,
	// so that the closing tag can be written correctly.
	openNodes   []*xmlNode
	rootCounts  map[string]int
	rootWritten bool
}

// EncodeXML writes the document as indented XML. All namespaces of the
// document are declared at the root element, other namespaces where they
// are used first.
func EncodeXML(w io.Writer, doc *ast.Document, registry *resolver.Registry, opts Options) (LocationMap, error) {
	local := diag.NewSink()
	e := &xmlEncoder{
		w:          newWriter(w),
		rootCounts: map[string]int{},
	}

	e.r = resolver.New(doc, registry, local, e, resolver.Options{MaxDepth: opts.MaxDepth})

	e.w.writeString(xmlHeader)
	e.r.WalkDocument()

	return e.locs, finish(doc, e.w, local, opts)
}

func (e *xmlEncoder) Element(el *ast.Element) {
	name, _ := e.r.ResolveName(el, el.Name)
	qname := qualified(name)

	e.writeTopNodeOpen()

	n := &xmlNode{
		name:   qname,
		counts: map[string]int{},
	}

	counts, parentPath := e.rootCounts, ""
	if parent := e.peek(); parent != nil {
		counts, parentPath = parent.counts, parent.path
		n.scope = util.NewBindings().Merge(parent.scope)
	}

	counts[qname]++
	n.path = parentPath + "/" + qname + "[" + strconv.Itoa(counts[qname]) + "]"

	e.w.writeString(indentString(len(e.openNodes), "    "))
	line, col := e.w.pos()
	e.locs.add(n.path, line, col, el)
	e.w.writeString("<" + qname)
	e.push(n)

	switch {
	case !e.rootWritten:
		e.rootWritten = true

		if name.Prefix != "" {
			e.declare(n, name.Prefix, name.URI)
		}

		for _, b := range e.r.DocumentNamespaces().All() {
			if b.Value == name.URI {
				continue
			}

			e.declare(n, b.Key, b.Value)
		}
	case name.Prefix != "" && !n.scope.Has(name.Prefix, name.URI):
		e.declare(n, name.Prefix, name.URI)
	}

	e.r.WalkAttributes(el)

	if el.Value != nil {
		v, _ := e.r.ResolveValue(el.Value)
		n.openTagWritten = true
		e.w.writeString(">" + textEscaper.Replace(v) + "</" + qname + ">\n")
		e.pop()

		return
	}

	e.r.WalkChildren(el)
	e.close()
}

func (e *xmlEncoder) Attribute(a *ast.Attribute) {
	n := e.peek()
	if n == nil || n.openTagWritten {
		return
	}

	name, _ := e.r.ResolveName(a, a.Name)
	qname := qualified(name)

	if n.attrs.Set(qname, "") {
		log.Debugf("%s: attribute %s defined twice", n.path, qname)
		return
	}

	if name.Prefix != "" && !n.scope.Has(name.Prefix, name.URI) {
		e.declare(n, name.Prefix, name.URI)
	}

	v, _ := e.r.ResolveValue(a.Value)

	e.w.writeString(" ")
	line, col := e.w.pos()
	e.locs.add(n.path+"/@"+qname, line, col, a)
	e.w.writeString(qname + `="` + attrEscaper.Replace(v) + `"`)
}

// declare writes a namespace declaration into the start tag of n.
func (e *xmlEncoder) declare(n *xmlNode, prefix, uri string) {
	n.scope.Set(prefix, uri)
	e.w.writeString(" xmlns:" + prefix + `="` + attrEscaper.Replace(uri) + `"`)
}

// writeTopNodeOpen terminates the start tag of the topmost element, because
// it gets content.
func (e *xmlEncoder) writeTopNodeOpen() {
	top := e.peek()
	if top != nil && !top.openTagWritten {
		top.openTagWritten = true
		e.w.writeString(">\n")
	}
}

// close writes the end of the topmost element. An element without content
// is closed in its start tag.
func (e *xmlEncoder) close() {
	top := e.pop()
	if !top.openTagWritten {
		e.w.writeString("/>\n")
		return
	}

	e.w.writeString(indentString(len(e.openNodes), "    ") + "</" + top.name + ">\n")
}

// push a node onto our working stack.
func (e *xmlEncoder) push(n *xmlNode) {
	e.openNodes = append(e.openNodes, n)
}

// peek at the top element in our working stack. Might return nil if the stack is empty.
func (e *xmlEncoder) peek() *xmlNode {
	if len(e.openNodes) > 0 {
		return e.openNodes[len(e.openNodes)-1]
	}

	return nil
}

// pop the top node from the working stack.
func (e *xmlEncoder) pop() *xmlNode {
	n := e.openNodes[len(e.openNodes)-1]
	e.openNodes = e.openNodes[:len(e.openNodes)-1]

	return n
}

func qualified(n resolver.Name) string {
	if n.Prefix == "" {
		return n.Local
	}

	return n.Prefix + ":" + n.Local
}
