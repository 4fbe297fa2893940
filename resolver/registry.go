// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"sync"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
)

// Registry knows all alias definitions and documents of a compile unit.
// Collect and Lookup may be called concurrently.
type Registry struct {
	mu       sync.RWMutex
	aliases  map[string]*ast.AliasDefinition
	byModule map[*ast.Module]map[string]*ast.AliasDefinition
	docs     map[string]*ast.Document
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		aliases:  map[string]*ast.AliasDefinition{},
		byModule: map[*ast.Module]map[string]*ast.AliasDefinition{},
		docs:     map[string]*ast.Document{},
	}
}

// Collect registers all alias definitions and documents of the module.
// Names must be unique within the compile unit, every redefinition is
// reported and the first definition stays in effect for the unit.
func (r *Registry) Collect(mod *ast.Module, sink *diag.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	local := r.byModule[mod]
	if local == nil {
		local = map[string]*ast.AliasDefinition{}
		r.byModule[mod] = local
	}

	for _, def := range mod.AliasDefs {
		if _, ok := r.aliases[def.Name]; ok {
			sink.Add(diag.DuplicateAlias, def, def.Name)
		} else {
			r.aliases[def.Name] = def
		}

		if _, ok := local[def.Name]; !ok {
			local[def.Name] = def
		}
	}

	for _, doc := range mod.Documents {
		if _, ok := r.docs[doc.Name]; ok {
			sink.Add(diag.DuplicateDocument, doc, doc.Name)
			continue
		}

		r.docs[doc.Name] = doc
	}

	log.Debugf("%s: %d aliases, %d documents", mod.FileName, len(mod.AliasDefs), len(mod.Documents))
}

// Lookup returns the named alias definition. A definition of the given
// module is preferred over a definition of another module of the unit.
func (r *Registry) Lookup(mod *ast.Module, name string) *ast.AliasDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.byModule[mod][name]; ok {
		return def
	}

	return r.aliases[name]
}

// Document returns the named document.
func (r *Registry) Document(name string) *ast.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.docs[name]
}
