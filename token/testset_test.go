// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"testing"
)

// TestSet is a helper to build the expected token stream of a test.
type TestSet struct {
	tokens []Token
}

func NewTestSet() *TestSet {
	return &TestSet{}
}

func (ts *TestSet) add(typ Type, text string) *TestSet {
	ts.tokens = append(ts.tokens, Token{Type: typ, Text: text})
	return ts
}

func (ts *TestSet) Newline() *TestSet { return ts.add(Newline, "") }
func (ts *TestSet) Indent() *TestSet { return ts.add(Indent, "") }
func (ts *TestSet) Dedent() *TestSet { return ts.add(Dedent, "") }
func (ts *TestSet) ID(v string) *TestSet { return ts.add(ID, v) }
func (ts *TestSet) AttrID(v string) *TestSet { return ts.add(AttrID, v) }
func (ts *TestSet) AliasID(v string) *TestSet { return ts.add(AliasID, v) }
func (ts *TestSet) ParamID(v string) *TestSet { return ts.add(ParamID, v) }
func (ts *TestSet) AliasDefID(v string) *TestSet { return ts.add(AliasDefID, v) }
func (ts *TestSet) DocID(v string) *TestSet { return ts.add(DocID, v) }
func (ts *TestSet) NsID(v string) *TestSet { return ts.add(NsID, v) }
func (ts *TestSet) Equal() *TestSet { return ts.add(Equal, "=") }
func (ts *TestSet) OpenValue() *TestSet { return ts.add(OpenValue, "==") }
func (ts *TestSet) Colon() *TestSet { return ts.add(Colon, ":") }
func (ts *TestSet) Comma() *TestSet { return ts.add(Comma, ",") }
func (ts *TestSet) LParen() *TestSet { return ts.add(LParen, "(") }
func (ts *TestSet) RParen() *TestSet { return ts.add(RParen, ")") }
func (ts *TestSet) Value(v string) *TestSet { return ts.add(Value, v) }
func (ts *TestSet) Quoted(v string) *TestSet { return ts.add(QuotedScalarContent, v) }
func (ts *TestSet) OpenValueContent(v string) *TestSet { return ts.add(OpenValueContent, v) }

// Assert compares the types and texts of tokens with the set. The final EOF
// token is expected implicitly.
func (ts *TestSet) Assert(tokens []Token, t *testing.T) {
	t.Helper()

	want := append(append([]Token{}, ts.tokens...), Token{Type: EOF})

	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens but got %d:\nwant %v\ngot  %v", len(want), len(tokens), want, stripPositions(tokens))
	}

	for i := range want {
		if want[i].Type != tokens[i].Type || want[i].Text != tokens[i].Text {
			t.Fatalf("token %d: expected %v but got %v\nwant %v\ngot  %v", i, want[i], tokens[i], want, stripPositions(tokens))
		}
	}
}

func stripPositions(tokens []Token) []Token {
	res := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		res = append(res, Token{Type: tok.Type, Text: tok.Text})
	}

	return res
}

// newTestPositions creates positions from quadruples of begin line, begin column,
// end line and end column.
func newTestPositions(info ...int) []Position {
	if len(info)%4 != 0 {
		panic("positions need to be quadruples")
	}

	var res []Position

	for i := 0; i < len(info); i += 4 {
		res = append(res, Position{
			BeginPos: Pos{Line: info[i], Col: info[i+1]},
			EndPos:   Pos{Line: info[i+2], Col: info[i+3]},
		})
	}

	return res
}

func comparePos(a, b Position) bool {
	return a.BeginPos.Line == b.BeginPos.Line && a.BeginPos.Col == b.BeginPos.Col &&
		a.EndPos.Line == b.EndPos.Line && a.EndPos.Col == b.EndPos.Col
}
