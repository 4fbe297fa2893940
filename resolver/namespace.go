// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/util"
)

// Name is a resolved element or attribute name.
type Name struct {
	Prefix string
	Local  string
	// URI is empty if the name has no prefix.
	URI string
}

// ResolveName splits name into prefix and local part and resolves the prefix.
// ok is false if the prefix is not declared, which has been reported.
func (r *Resolver) ResolveName(node ast.Node, name string) (Name, bool) {
	prefix, local := ast.SplitName(name)
	uri, ok := r.ResolveNamespace(node, prefix)

	return Name{Prefix: prefix, Local: local, URI: uri}, ok
}

// ResolveNamespace returns the URI bound to prefix for the given node. The
// innermost frame wins over the declaring scope of the node, which wins
// over the document.
func (r *Resolver) ResolveNamespace(node ast.Node, prefix string) (string, bool) {
	if prefix == "" {
		return "", true
	}

	if f := r.top(); f != nil {
		if uri, ok := bindings(f.Definition.Namespaces).Get(prefix); ok {
			return uri, true
		}

		if uri, ok := f.Namespaces.Get(prefix); ok {
			return uri, true
		}
	}

	switch s := ast.Scope(node).(type) {
	case *ast.Document:
		if uri, ok := bindings(s.Namespaces).Get(prefix); ok {
			return uri, true
		}
	case *ast.AliasDefinition:
		if uri, ok := bindings(s.Namespaces).Get(prefix); ok {
			return uri, true
		}
	}

	if mod := ast.DeclaringModule(node); mod != nil {
		if uri, ok := bindings(mod.Namespaces).Get(prefix); ok {
			return uri, true
		}
	}

	if uri, ok := r.DocumentNamespaces().Get(prefix); ok {
		return uri, true
	}

	r.report(diag.NamespaceNotDeclared, node, prefix)

	return "", false
}

// DocumentNamespaces returns the bindings of the module and the document,
// the document overrides the module.
func (r *Resolver) DocumentNamespaces() util.Bindings {
	var mod util.Bindings
	if m := r.doc.Module(); m != nil {
		mod = bindings(m.Namespaces)
	}

	return mod.Merge(bindings(r.doc.Namespaces))
}

// contextNamespaces returns the bindings in effect at the current position.
func (r *Resolver) contextNamespaces() util.Bindings {
	f := r.top()
	if f == nil {
		return r.DocumentNamespaces()
	}

	var mod util.Bindings
	if m := f.Definition.Module(); m != nil {
		mod = bindings(m.Namespaces)
	}

	return f.Namespaces.Merge(mod).Merge(bindings(f.Definition.Namespaces))
}

func bindings(nss []*ast.Namespace) util.Bindings {
	b := util.NewBindings()
	for _, ns := range nss {
		b.Set(ns.Name, ns.URI)
	}

	return b
}
