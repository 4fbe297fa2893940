// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"io"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golangee/malina/token"
)

// definition makes the indentation lexer available to participle.
type definition struct{}

var symbols = func() map[string]lexer.TokenType {
	res := map[string]lexer.TokenType{}
	for name, t := range token.Symbols() {
		res[name] = lexer.TokenType(t)
	}

	return res
}()

func (definition) Symbols() map[string]lexer.TokenType {
	return symbols
}

func (definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	tokens, _ := token.Tokenize(filename, src)

	return newStream(tokens), nil
}

// stream replays already scanned tokens.
type stream struct {
	tokens []token.Token
	pos    int
}

func newStream(tokens []token.Token) *stream {
	return &stream{tokens: tokens}
}

func (s *stream) Next() (lexer.Token, error) {
	if len(s.tokens) == 0 {
		return lexer.EOFToken(lexer.Position{}), nil
	}

	if s.pos >= len(s.tokens) {
		return convert(s.tokens[len(s.tokens)-1]), nil
	}

	t := s.tokens[s.pos]
	s.pos++

	return convert(t), nil
}

func convert(t token.Token) lexer.Token {
	return lexer.Token{
		Type:  lexer.TokenType(t.Type),
		Value: t.Text,
		Pos:   lexerPos(t.BeginPos),
	}
}

func lexerPos(p token.Pos) lexer.Position {
	return lexer.Position{
		Filename: p.File,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Col,
	}
}

func tokenPos(p lexer.Position) token.Pos {
	return token.Pos{
		File:   p.Filename,
		Line:   p.Line,
		Col:    p.Column,
		Offset: p.Offset,
	}
}
