// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/token"
)

// UnexpectedTokenError is reported when a token appeared that the grammar did not expect.
type UnexpectedTokenError struct {
	tok      token.Token
	expected string
}

func (u UnexpectedTokenError) Error() string {
	what := u.tok.Type.String()
	if u.tok.Text != "" && !u.tok.Type.Structural() {
		what += fmt.Sprintf(" '%s'", strings.TrimSpace(u.tok.Text))
	}

	if u.tok.Type == token.EOF {
		what = "end of file"
	}

	if u.expected == "" {
		return "unexpected " + what
	}

	return fmt.Sprintf("unexpected %s, expected %s", what, u.expected)
}

func lexDiagnostic(err *token.LexError) diag.Diagnostic {
	switch err.Kind {
	case token.MissingClosingQuote:
		return diag.New(diag.MissingClosingQuote, err)
	default:
		return diag.New(diag.UnexpectedChar, err, err.Text)
	}
}

// syntaxDiagnostic converts a participle error into a diagnostic.
func syntaxDiagnostic(err error) diag.Diagnostic {
	var ute *participle.UnexpectedTokenError
	if errors.As(err, &ute) {
		tok := token.Token{
			Type: token.Type(ute.Unexpected.Type),
			Text: ute.Unexpected.Value,
		}

		pos := tokenPos(ute.Unexpected.Pos)
		end := pos
		end.Col += len([]rune(tok.Text))
		end.Offset += len(tok.Text)

		msg := UnexpectedTokenError{tok: tok, expected: ute.Expect}.Error()

		return diag.New(diag.SyntaxError, token.NewNode(pos, end), msg)
	}

	var perr participle.Error
	if errors.As(err, &perr) {
		pos := tokenPos(perr.Position())
		return diag.New(diag.SyntaxError, token.NewNode(pos, pos), perr.Message())
	}

	return diag.New(diag.SyntaxError, nil, err.Error())
}

func newSyntaxError(node token.Node, format string, args ...interface{}) diag.Diagnostic {
	return diag.New(diag.SyntaxError, node, fmt.Sprintf(format, args...))
}
