// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import "github.com/alecthomas/participle/v2/lexer"

// The grammar works on the token stream of the indentation lexer. Token
// types are referenced by their names, see token.Symbols.

type moduleGrammar struct {
	Statements []*topGrammar `Newline* ( @@ Newline* )*`
}

type topGrammar struct {
	Namespace *nsGrammar       `( @@`
	AliasDef  *aliasDefGrammar `| @@`
	Document  *docGrammar      `| @@ )`
}

type nsGrammar struct {
	Tokens []lexer.Token
	Prefix string `@NsID Equal`
	URI    string `@Value`
}

type aliasDefGrammar struct {
	Tokens []lexer.Token
	Name   string        `@AliasDefID`
	Value  *valueGrammar `( @@`
	Block  *blockGrammar `| @@ )?`
}

type docGrammar struct {
	Tokens []lexer.Token
	Name   string        `@DocID`
	Block  *blockGrammar `@@`
}

// blockGrammar is an indented block, an inline block in parentheses or a
// single entity on the same line.
type blockGrammar struct {
	Tokens   []lexer.Token
	Indented []*entityGrammar `Colon ( Indent ( @@ Newline* )* Dedent`
	Inline   []*entityGrammar `| LParen ( @@ ( Comma @@ )* )? RParen`
	Single   *entityGrammar   `| @@ )?`
}

func (g *blockGrammar) entities() []*entityGrammar {
	switch {
	case g.Indented != nil:
		return g.Indented
	case g.Inline != nil:
		return g.Inline
	case g.Single != nil:
		return []*entityGrammar{g.Single}
	default:
		return nil
	}
}

type entityGrammar struct {
	Attribute *attributeGrammar `( @@`
	Alias     *aliasGrammar     `| @@`
	Parameter *paramGrammar     `| @@`
	Namespace *nsGrammar        `| @@`
	Element   *elementGrammar   `| @@ )`
}

type attributeGrammar struct {
	Tokens []lexer.Token
	Name   string        `@AttrID`
	Value  *valueGrammar `@@?`
}

type aliasGrammar struct {
	Tokens []lexer.Token
	Name   string           `@AliasID`
	Block  *argBlockGrammar `@@?`
}

type argBlockGrammar struct {
	Indented []*paramGrammar `Colon ( Indent ( @@ Newline* )* Dedent`
	Inline   []*paramGrammar `| LParen ( @@ ( Comma @@ )* )? RParen`
	Single   *paramGrammar   `| @@ )?`
}

func (g *argBlockGrammar) arguments() []*paramGrammar {
	switch {
	case g.Indented != nil:
		return g.Indented
	case g.Inline != nil:
		return g.Inline
	case g.Single != nil:
		return []*paramGrammar{g.Single}
	default:
		return nil
	}
}

// paramGrammar is a parameter inside alias definitions and an argument
// inside the block of an alias use.
type paramGrammar struct {
	Tokens []lexer.Token
	Name   string        `@ParamID`
	Value  *valueGrammar `( @@`
	Block  *blockGrammar `| @@ )?`
}

// elementGrammar is a named element or an unnamed array item, which must
// carry a value or a block.
type elementGrammar struct {
	Tokens    []lexer.Token
	Name      string        `( @ID`
	Value     *valueGrammar `  ( @@`
	Block     *blockGrammar `  | @@ )?`
	ItemValue *valueGrammar `| @@`
	ItemBlock *blockGrammar `| @@ )`
}

type valueGrammar struct {
	Open   *openGrammar   `( @@`
	Scalar *scalarGrammar `| Equal @@ )`
}

type scalarGrammar struct {
	Tokens []lexer.Token
	Plain  *string `( @Value`
	Quoted *string `| @QuotedScalarContent`
	Alias  *string `| @AliasID`
	Param  *string `| @ParamID )`
}

type openGrammar struct {
	Tokens []lexer.Token
	Lines  []string `OpenValue ( @Value | @OpenValueContent )*`
}
