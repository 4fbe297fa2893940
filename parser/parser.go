// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/token"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("malina.parser")

var moduleParser = participle.MustBuild[moduleGrammar](
	participle.Lexer(definition{}),
	participle.UseLookahead(2),
)

// Parse tokenizes and parses the source of a single module. Lexical and
// syntactical problems are reported into sink. A module with syntax errors
// cannot be represented and nil is returned.
func Parse(filename string, src []byte, format ast.Format, sink *diag.Sink) *ast.Module {
	lx := token.NewLexer(filename, src)
	lx.OnError = func(err *token.LexError) {
		sink.Report(lexDiagnostic(err))
	}

	var tokens []token.Token

	for {
		t := lx.Next()
		tokens = append(tokens, t)

		if t.Type == token.EOF {
			break
		}
	}

	log.Debugf("%s: %d tokens", filename, len(tokens))

	peeker, err := lexer.Upgrade(newStream(tokens))
	if err != nil {
		sink.Add(diag.Fatal, nil, err)
		return nil
	}

	g, err := moduleParser.ParseFromLexer(peeker)
	if err != nil {
		sink.Report(syntaxDiagnostic(err))
		return nil
	}

	return newBuilder(filename, tokens, sink).module(g, format)
}

// ParseFile reads and parses the named module. The target format is derived
// from the file extension, unknown extensions fall back to def.
func ParseFile(filename string, def ast.Format, sink *diag.Sink) *ast.Module {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			sink.Add(diag.FileNotFound, nil, filename)
		} else {
			sink.Add(diag.ReadError, nil, filename, err)
		}

		return nil
	}

	defer file.Close()

	src, err := io.ReadAll(file)
	if err != nil {
		sink.Add(diag.ReadError, nil, filename, err)
		return nil
	}

	format, ok := ast.FormatOf(filename)
	if !ok {
		format = def
	}

	return Parse(filename, src, format, sink)
}

// Grammar returns the EBNF of the module grammar.
func Grammar() string {
	return moduleParser.String()
}
