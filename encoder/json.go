// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/resolver"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// jsonBlock is an object or array which has not been closed yet. Whether
// it is an array is decided by its first member.
type jsonBlock struct {
	path   string
	opened bool
	array  bool
	count  int
}

type jsonEncoder struct {
	w      *writer
	r      *resolver.Resolver
	locs   LocationMap
	blocks []*jsonBlock
}

// EncodeJSON writes the document as indented JSON. The document itself is
// the outermost object or array. Named elements and attributes become
// properties, unnamed elements become array items. Plain values which are
// valid JSON numbers or true, false and null are written as is, everything
// else is a string.
func EncodeJSON(w io.Writer, doc *ast.Document, registry *resolver.Registry, opts Options) (LocationMap, error) {
	local := diag.NewSink()
	e := &jsonEncoder{w: newWriter(w)}
	e.r = resolver.New(doc, registry, local, e, resolver.Options{MaxDepth: opts.MaxDepth})

	e.blocks = append(e.blocks, &jsonBlock{})
	e.r.WalkDocument()
	e.close()
	e.w.writeString("\n")

	return e.locs, finish(doc, e.w, local, opts)
}

func (e *jsonEncoder) Element(el *ast.Element) {
	_, key := ast.SplitName(el.Name)
	path := e.member(key, el)

	if el.Value != nil {
		lit, _ := e.r.ResolveLiteral(el.Value)
		e.w.writeString(jsonScalar(lit))

		return
	}

	e.blocks = append(e.blocks, &jsonBlock{path: path})
	e.r.WalkAttributes(el)
	e.r.WalkChildren(el)
	e.close()
}

func (e *jsonEncoder) Attribute(a *ast.Attribute) {
	// the document has no attributes
	if len(e.blocks) < 2 {
		return
	}

	_, key := ast.SplitName(a.Name)
	e.member(key, a)

	lit, _ := e.r.ResolveLiteral(a.Value)
	e.w.writeString(jsonScalar(lit))
}

// member starts a new member of the innermost block and returns its path.
// An empty key denotes an array item.
func (e *jsonEncoder) member(key string, src ast.Node) string {
	b := e.blocks[len(e.blocks)-1]

	if !b.opened {
		b.opened = true
		b.array = key == ""

		if b.array {
			e.w.writeString("[\n")
		} else {
			e.w.writeString("{\n")
		}
	} else {
		e.w.writeString(",\n")
	}

	var path string
	if key == "" {
		path = b.path + "/" + strconv.Itoa(b.count)
	} else {
		path = b.path + "/" + pointerEscaper.Replace(key)
	}

	b.count++

	e.w.writeString(indentString(len(e.blocks), "  "))
	line, col := e.w.pos()
	e.locs.add(path, line, col, src)

	if key != "" {
		e.w.writeString(jsonString(key) + ": ")
	}

	return path
}

// close writes the end of the innermost block.
func (e *jsonEncoder) close() {
	b := e.blocks[len(e.blocks)-1]
	e.blocks = e.blocks[:len(e.blocks)-1]

	if !b.opened {
		e.w.writeString("{}")
		return
	}

	e.w.writeString("\n" + indentString(len(e.blocks), "  "))

	if b.array {
		e.w.writeString("]")
	} else {
		e.w.writeString("}")
	}
}

func jsonScalar(lit *ast.Literal) string {
	if lit == nil {
		return `""`
	}

	if lit.Kind == ast.Plain && isJSONLiteral(lit.Text) {
		return lit.Text
	}

	return jsonString(lit.Text)
}

func isJSONLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	case "":
		return false
	}

	c := s[0]

	return (c == '-' || (c >= '0' && c <= '9')) && json.Valid([]byte(s))
}

func jsonString(s string) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		// strings always encode
		panic(err)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
