// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/token"
)

type endKey struct {
	offset int
	typ    token.Type
}

// container is a node which owns a block of entities.
type container interface {
	ast.Node
	AddEntity(e ast.Entity)
}

// builder converts the parse tree into the document object model.
type builder struct {
	file string
	sink *diag.Sink
	// ends resolves the end position of a token by its begin offset and type.
	ends map[endKey]token.Pos
	// def is the alias definition currently built, if any.
	def *ast.AliasDefinition
}

func newBuilder(file string, tokens []token.Token, sink *diag.Sink) *builder {
	b := &builder{
		file: file,
		sink: sink,
		ends: make(map[endKey]token.Pos, len(tokens)),
	}

	for _, t := range tokens {
		if t.Type.Structural() || t.Type == token.EOF {
			continue
		}

		b.ends[endKey{t.BeginPos.Offset, t.Type}] = t.EndPos
	}

	return b
}

// span returns the source range from the first token up to the end of the
// last content token.
func (b *builder) span(tokens []lexer.Token) token.Position {
	if len(tokens) == 0 {
		return token.Position{}
	}

	begin := tokenPos(tokens[0].Pos)
	end := begin

	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		typ := token.Type(t.Type)

		if typ.Structural() || typ == token.EOF {
			continue
		}

		if e, ok := b.ends[endKey{t.Pos.Offset, typ}]; ok {
			end = e
			break
		}
	}

	return token.Span(begin, end)
}

func (b *builder) module(g *moduleGrammar, format ast.Format) *ast.Module {
	mod := ast.NewModule(b.file, format)

	var prev token.Node
	for _, st := range g.Statements {
		var n ast.Node

		switch {
		case st.Namespace != nil:
			ns := b.namespace(st.Namespace)
			mod.AddNamespace(ns)
			n = ns
		case st.AliasDef != nil:
			def := b.aliasDef(st.AliasDef)
			mod.AddAliasDefinition(def)
			n = def
		case st.Document != nil:
			doc := b.document(st.Document, format)
			mod.AddDocument(doc)
			n = doc
		}

		b.checkSeparated(prev, n)
		prev = n
	}

	return mod
}

// checkSeparated reports two statements of the same indented block which
// have been written on the same line.
func (b *builder) checkSeparated(prev, next token.Node) {
	if prev == nil || next == nil {
		return
	}

	if prev.End().Line == next.Begin().Line {
		b.sink.Report(newSyntaxError(next, "unexpected statement, expected a new line"))
	}
}

func (b *builder) namespace(g *nsGrammar) *ast.Namespace {
	ns := &ast.Namespace{
		Name: strings.TrimPrefix(g.Prefix, "#"),
		URI:  strings.TrimSpace(g.URI),
	}
	ns.Position = b.span(g.Tokens)

	return ns
}

func (b *builder) aliasDef(g *aliasDefGrammar) *ast.AliasDefinition {
	def := &ast.AliasDefinition{Name: strings.TrimPrefix(g.Name, "!$")}
	def.Position = b.span(g.Tokens)

	b.def = def
	defer func() {
		b.def = nil
	}()

	if g.Value != nil {
		def.SetValue(b.value(g.Value))
	}

	if g.Block != nil {
		b.block(def, g.Block)
	}

	return def
}

func (b *builder) document(g *docGrammar, format ast.Format) *ast.Document {
	doc := &ast.Document{
		Name:   strings.TrimPrefix(g.Name, "!"),
		Format: format,
	}
	doc.Position = b.span(g.Tokens)
	b.block(doc, g.Block)

	return doc
}

func (b *builder) block(parent container, g *blockGrammar) {
	var prev token.Node

	for _, eg := range g.entities() {
		n := b.entity(parent, eg)
		if g.Indented != nil {
			b.checkSeparated(prev, n)
		}

		prev = n
	}
}

func (b *builder) entity(parent container, g *entityGrammar) ast.Node {
	switch {
	case g.Attribute != nil:
		attr := b.attribute(g.Attribute)

		switch p := parent.(type) {
		case *ast.Element:
			p.AddAttribute(attr)
		case *ast.Document:
			b.sink.Add(diag.MisplacedDeclaration, attr, "an attribute outside of an element")
		default:
			parent.AddEntity(attr)
		}

		return attr
	case g.Alias != nil:
		alias := b.alias(g.Alias)
		parent.AddEntity(alias)

		return alias
	case g.Parameter != nil:
		param := b.parameter(g.Parameter)
		parent.AddEntity(param)

		return param
	case g.Namespace != nil:
		ns := b.namespace(g.Namespace)

		switch p := parent.(type) {
		case *ast.Document:
			p.AddNamespace(ns)
		case *ast.AliasDefinition:
			p.AddNamespace(ns)
		default:
			b.sink.Add(diag.MisplacedDeclaration, ns, "a namespace declaration inside an element")
		}

		return ns
	default:
		el := b.element(g.Element)
		parent.AddEntity(el)

		return el
	}
}

func (b *builder) element(g *elementGrammar) *ast.Element {
	el := &ast.Element{Name: g.Name}
	el.Position = b.span(g.Tokens)

	value, block := g.Value, g.Block
	if g.Name == "" {
		value, block = g.ItemValue, g.ItemBlock
	}

	if value != nil {
		el.SetValue(b.value(value))
	}

	if block != nil {
		b.block(el, block)
	}

	return el
}

func (b *builder) attribute(g *attributeGrammar) *ast.Attribute {
	attr := &ast.Attribute{Name: strings.TrimPrefix(g.Name, "@")}
	attr.Position = b.span(g.Tokens)

	if g.Value != nil {
		attr.SetValue(b.value(g.Value))
	} else {
		end := attr.End()
		attr.SetValue(ast.NewLiteral(ast.Plain, "", token.Span(end, end)))
	}

	return attr
}

func (b *builder) alias(g *aliasGrammar) *ast.Alias {
	alias := &ast.Alias{Name: strings.TrimPrefix(g.Name, "$")}
	alias.Position = b.span(g.Tokens)

	if g.Block == nil {
		return alias
	}

	var prev token.Node

	for _, pg := range g.Block.arguments() {
		arg := &ast.Argument{Name: strings.TrimPrefix(pg.Name, "%")}
		arg.Position = b.span(pg.Tokens)

		if pg.Value != nil {
			arg.SetValue(b.value(pg.Value))
		}

		if pg.Block != nil {
			b.block(arg, pg.Block)
		}

		alias.AddArgument(arg)

		if g.Block.Indented != nil {
			b.checkSeparated(prev, arg)
		}

		prev = arg
	}

	return alias
}

func (b *builder) parameter(g *paramGrammar) *ast.Parameter {
	param := b.newParameter(g.Name, b.span(g.Tokens))

	if g.Value != nil {
		param.SetValue(b.value(g.Value))
	}

	if g.Block != nil {
		b.block(param, g.Block)
	}

	return param
}

// newParameter creates a parameter and registers it at the alias
// definition currently built.
func (b *builder) newParameter(name string, pos token.Position) *ast.Parameter {
	param := &ast.Parameter{Name: strings.TrimPrefix(name, "%")}
	param.Position = pos

	if b.def != nil {
		b.def.Params = append(b.def.Params, param)
	}

	return param
}

func (b *builder) value(g *valueGrammar) ast.Value {
	if g.Open != nil {
		return ast.NewLiteral(ast.Open, openText(g.Open.Tokens), b.span(g.Open.Tokens))
	}

	s := g.Scalar
	pos := b.span(s.Tokens)

	switch {
	case s.Quoted != nil:
		return ast.NewLiteral(ast.Quoted, unquote(*s.Quoted), pos)
	case s.Alias != nil:
		alias := &ast.Alias{Name: strings.TrimPrefix(*s.Alias, "$")}
		alias.Position = pos

		return alias
	case s.Param != nil:
		return b.newParameter(*s.Param, pos)
	case s.Plain != nil:
		return ast.NewLiteral(ast.Plain, *s.Plain, pos)
	default:
		return ast.NewLiteral(ast.Plain, "", pos)
	}
}

// openText joins the lines of an open value. Tokens on the same source line
// form one line of the value, lines without tokens are empty. The zero width
// "==" terminator keeps an empty last line, so the value ends with a line break.
func openText(tokens []lexer.Token) string {
	var lines []string

	first := -1

	for _, t := range tokens {
		typ := token.Type(t.Type)
		if typ != token.Value && typ != token.OpenValueContent {
			continue
		}

		if t.Value == "" && typ != token.OpenValueContent {
			continue
		}

		if first < 0 {
			first = t.Pos.Line
		}

		idx := t.Pos.Line - first
		for len(lines) <= idx {
			lines = append(lines, "")
		}

		lines[idx] += t.Value
	}

	return strings.Join(lines, "\n")
}

// unquote decodes a double quoted value. Continuation lines lose their
// indentation. A value without closing quote ends at its last non-empty line.
func unquote(raw string) string {
	sb := &strings.Builder{}
	rs := []rune(raw)

	for i := 1; i < len(rs); i++ {
		switch r := rs[i]; r {
		case '\\':
			if i+1 >= len(rs) {
				continue
			}

			i++

			switch rs[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteRune(rs[i])
			}
		case '"':
			return sb.String()
		case '\r':
		case '\n':
			sb.WriteByte('\n')

			for i+1 < len(rs) && (rs[i+1] == ' ' || rs[i+1] == '\t') {
				i++
			}
		default:
			sb.WriteRune(r)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
