// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import "fmt"

// ErrorKind classifies lexical errors.
type ErrorKind int

const (
	// UnexpectedChar is reported for a character sequence which starts no token.
	UnexpectedChar ErrorKind = iota
	// MissingClosingQuote is reported if a quoted value is closed by indentation or end of input.
	MissingClosingQuote
)

// LexError is a non-fatal error found while tokenizing. The lexer
// recovers from all of them.
type LexError struct {
	Position
	Kind ErrorKind
	// Text holds the skipped source for UnexpectedChar.
	Text string
}

func (e *LexError) Error() string {
	switch e.Kind {
	case MissingClosingQuote:
		return fmt.Sprintf("%s: missing closing quote", e.BeginPos)
	default:
		return fmt.Sprintf("%s: unexpected character sequence %q", e.BeginPos, e.Text)
	}
}
