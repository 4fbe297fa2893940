// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package encoder serializes resolved documents into XML or JSON and records
// where each emitted node came from.
package encoder

import (
	"fmt"
	"io"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/resolver"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("malina.encoder")

// Options configure an encoder run.
type Options struct {
	// Sink receives resolution problems in addition to the returned error.
	Sink *diag.Sink
	// MaxDepth bounds the alias expansion, 0 means the default.
	MaxDepth int
}

// Encode writes the document in its target format.
func Encode(w io.Writer, doc *ast.Document, registry *resolver.Registry, opts Options) (LocationMap, error) {
	if doc.Format == ast.JSON {
		return EncodeJSON(w, doc, registry, opts)
	}

	return EncodeXML(w, doc, registry, opts)
}

// FileName returns the name of the file generated for the document.
func FileName(doc *ast.Document) string {
	return doc.Name + doc.Format.Extension()
}

// finish flushes the output and turns collected problems into the result.
func finish(doc *ast.Document, w *writer, local *diag.Sink, opts Options) error {
	for _, d := range local.Diagnostics() {
		if opts.Sink != nil {
			opts.Sink.Report(d)
		}
	}

	if err := w.flush(); err != nil {
		return fmt.Errorf("unable to write %s: %w", FileName(doc), err)
	}

	if local.HasErrors() {
		return local.Sorted()
	}

	log.Debugf("encoded %s", FileName(doc))

	return nil
}
