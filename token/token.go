// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import "strconv"

// Type identifies the kind of a Token.
type Type int

// EOF marks the end of the token stream. Its value matches the EOF type
// used by parser generators, so the stream can be handed over as is.
const EOF Type = -1

const (
	// Newline separates two statements at the same block level.
	Newline Type = iota + 1
	// Indent opens a block.
	Indent
	// Dedent closes a block.
	Dedent
	// ID is the name of an element.
	ID
	// AttrID is an attribute name including the leading '@'.
	AttrID
	// AliasID is an alias reference including the leading '$'.
	AliasID
	// ParamID is a parameter or argument name including the leading '%'.
	ParamID
	// AliasDefID is an alias definition name including the leading "!$".
	AliasDefID
	// DocID is a document name including the leading '!'.
	DocID
	// NsID is a namespace prefix declaration including the leading '#'.
	NsID
	// Equal is the '=' that introduces a value.
	Equal
	// OpenValue is the "==" that introduces an open multi-line value.
	OpenValue
	Colon
	Comma
	LParen
	RParen
	// Value is literal text of a value or of one line of an open value.
	Value
	// QuotedScalarContent is a complete double quoted value, quotes included.
	QuotedScalarContent
	// OpenValueContent carries indentation which belongs to an open value.
	OpenValueContent
)

var typeNames = map[Type]string{
	EOF:                 "EOF",
	Newline:             "Newline",
	Indent:              "Indent",
	Dedent:              "Dedent",
	ID:                  "ID",
	AttrID:              "AttrID",
	AliasID:             "AliasID",
	ParamID:             "ParamID",
	AliasDefID:          "AliasDefID",
	DocID:               "DocID",
	NsID:                "NsID",
	Equal:               "Equal",
	OpenValue:           "OpenValue",
	Colon:               "Colon",
	Comma:               "Comma",
	LParen:              "LParen",
	RParen:              "RParen",
	Value:               "Value",
	QuotedScalarContent: "QuotedScalarContent",
	OpenValueContent:    "OpenValueContent",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Symbols returns all token types by their name.
func Symbols() map[string]Type {
	res := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		res[name] = t
	}

	return res
}

// Structural returns true for the synthetic block tokens Newline, Indent and Dedent.
func (t Type) Structural() bool {
	return t == Newline || t == Indent || t == Dedent
}

// A Token is a typed slice of the source.
type Token struct {
	Position
	Type Type
	// Text is the exact source text of the token. Structural tokens
	// and synthetic open value tokens may be empty.
	Text string
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Type.String()
	}

	return t.Type.String() + "(" + strconv.Quote(t.Text) + ")"
}
