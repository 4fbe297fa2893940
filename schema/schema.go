// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package schema validates generated XML documents against an XML schema
// and reports every violation at the source declaration which produced the
// offending node.
package schema

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/encoder"
	"github.com/golangee/malina/token"
	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("malina.schema")

// Validator is a compiled schema. It is safe for concurrent use.
type Validator struct {
	name   string
	schema *xsd.Schema
}

// Load compiles the schema file at path.
func Load(path string) (*Validator, error) {
	s, err := xsd.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load schema: %w", err)
	}

	return &Validator{name: path, schema: s}, nil
}

// LoadFS compiles the named schema of the file system.
func LoadFS(fsys fs.FS, name string) (*Validator, error) {
	s, err := xsd.Load(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("unable to load schema: %w", err)
	}

	return &Validator{name: name, schema: s}, nil
}

// Name returns where the schema has been loaded from.
func (v *Validator) Name() string {
	return v.name
}

// Validate reads the generated XML of doc from r. Violations are mapped
// back through locs and reported into sink. Returns true if the document
// is valid.
func (v *Validator) Validate(doc *ast.Document, r io.Reader, locs encoder.LocationMap, sink *diag.Sink) bool {
	err := v.schema.Validate(r)
	if err == nil {
		return true
	}

	violations, ok := xsderrors.AsValidations(err)
	if !ok {
		sink.Add(diag.SchemaViolation, doc, err.Error())
		return false
	}

	for _, violation := range violations {
		node := locate(doc, violation, locs)
		log.Debugf("%s: %s", encoder.FileName(doc), violation.Error())
		sink.Add(diag.SchemaViolation, node, message(violation))
	}

	return false
}

// locate finds the source of a violation. The output position is preferred
// over the instance path, the document is the last resort.
func locate(doc *ast.Document, v xsderrors.Validation, locs encoder.LocationMap) token.Node {
	if v.Line > 0 {
		if l, ok := locs.Lookup(v.Line, v.Column); ok {
			return l.Source
		}
	}

	if v.Path != "" {
		if l, ok := locs.Path(v.Path); ok {
			return l.Source
		}
	}

	return doc
}

func message(v xsderrors.Validation) string {
	msg := v.Message
	if v.Code != "" {
		msg = "[" + v.Code + "] " + msg
	}

	return msg
}
