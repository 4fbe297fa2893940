// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

// Mode is the current scanning mode of the lexer.
type Mode int

const (
	// Structural is the default mode where indentation defines blocks.
	Structural Mode = iota
	// OpenScalar is active while the lines of an open value are consumed.
	OpenScalar
)

// Lexer turns the source of a module into tokens. Indentation is
// translated into Newline, Indent and Dedent tokens. A single line
// break may produce several tokens, so all tokens pass the pending queue.
type Lexer struct {
	c *Cursor
	// indents is the stack of indentation widths, the base entry is 0.
	indents []int
	// wsa holds the positions of all open '(', indentation is not
	// significant while it is not empty.
	wsa []Pos
	// pending tokens are returned by Next before anything else is scanned.
	pending []Token
	// last is the type of the most recently emitted token.
	last    Type
	emitted bool

	mode Mode
	// base is the indentation of the line owning an open value.
	base int
	// lineStart is true if the cursor is located at the beginning of a line
	// whose indentation has not been processed yet.
	lineStart bool
	// started is true after the first non-blank line.
	started bool
	// expectValue is true after '='.
	expectValue bool
	// breakPos is the line break which terminated the last content line.
	breakPos Pos
	done     bool

	errors []*LexError
	// OnError is invoked for every lexical error, if set.
	OnError func(err *LexError)
}

// NewLexer creates a new instance, ready to start tokenizing.
func NewLexer(filename string, src []byte) *Lexer {
	return &Lexer{
		c:         NewCursor(filename, src),
		indents:   []int{0},
		lineStart: true,
		last:      EOF,
	}
}

// Tokenize returns all tokens of src, including the final EOF token.
func Tokenize(filename string, src []byte) ([]Token, []*LexError) {
	l := NewLexer(filename, src)

	var res []Token

	for {
		t := l.Next()
		res = append(res, t)

		if t.Type == EOF {
			return res, l.Errors()
		}
	}
}

// Next returns the next token. At the end of input an EOF token is returned
// for each further call.
func (l *Lexer) Next() Token {
	for len(l.pending) == 0 {
		l.scan()
	}

	t := l.pending[0]
	l.pending = l.pending[1:]

	return t
}

// Errors returns all lexical errors found so far.
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// Depth returns the number of indentation levels above the base level.
func (l *Lexer) Depth() int {
	return len(l.indents) - 1
}

func (l *Lexer) scan() {
	switch {
	case l.done:
		p := l.c.Pos()
		l.emit(Token{Type: EOF, Position: Span(p, p)})
	case l.mode == OpenScalar:
		l.scanOpenLine()
	case l.lineStart:
		l.scanLineStart()
	default:
		l.scanToken()
	}
}

func (l *Lexer) emit(t Token) {
	l.pending = append(l.pending, t)
	l.last = t.Type
	l.emitted = true
}

// emitStructural emits a Newline, Indent or Dedent token unless
// indentation is currently insignificant.
func (l *Lexer) emitStructural(typ Type, begin, end Pos) {
	if len(l.wsa) > 0 {
		return
	}

	l.emit(Token{Type: typ, Position: Span(begin, end)})
}

func (l *Lexer) emitText(typ Type, begin, end Pos) {
	l.emit(Token{Type: typ, Text: l.c.Slice(begin, end), Position: Span(begin, end)})
}

func (l *Lexer) report(kind ErrorKind, begin, end Pos) {
	err := &LexError{
		Position: Span(begin, end),
		Kind:     kind,
		Text:     l.c.Slice(begin, end),
	}

	l.errors = append(l.errors, err)
	if l.OnError != nil {
		l.OnError(err)
	}
}

func (l *Lexer) top() int {
	return l.indents[len(l.indents)-1]
}

// scanLineStart measures the indentation of the next non-blank line and
// emits the structural tokens for it. Blank lines and comment lines are skipped.
func (l *Lexer) scanLineStart() {
	indent, lineBegin, ok := l.skipBlankLines()
	l.lineStart = false

	if !ok {
		l.endOfInput()
		return
	}

	if len(l.wsa) == 0 {
		l.indentDedent(indent, lineBegin, l.c.Pos())
	}

	l.started = true
}

// skipBlankLines consumes blank lines and comment lines. It returns the
// indentation of the next content line and leaves the cursor at its first
// non-blank rune. ok is false at the end of input.
func (l *Lexer) skipBlankLines() (indent int, lineBegin Pos, ok bool) {
	for {
		lineBegin = l.c.Pos()
		indent = l.skipBlanks()

		switch r := l.c.Peek(); {
		case r == eof:
			return indent, lineBegin, false
		case isLineBreak(r):
			l.skipLineBreak()
		case r == '/' && l.c.PeekAt(1) == '/':
			l.skipLine()
			l.skipLineBreak()
		default:
			return indent, lineBegin, true
		}
	}
}

func (l *Lexer) indentDedent(indent int, lineBegin, at Pos) {
	prev := l.top()

	switch {
	case indent == prev:
		if l.started {
			l.emitStructural(Newline, l.breakPos, l.breakPos)
		}
	case indent > prev:
		l.indents = append(l.indents, indent)
		l.emitStructural(Indent, lineBegin, at)
	default:
		l.unwind(indent, at)
	}
}

// unwind emits one Newline and a Dedent for each level deeper than indent.
func (l *Lexer) unwind(indent int, at Pos) {
	// inside parentheses the levels are kept, they are closed after the region
	if len(l.wsa) > 0 {
		return
	}

	if len(l.indents) > 1 && l.top() > indent {
		l.emit(Token{Type: Newline, Position: Span(l.breakPos, l.breakPos)})
	}

	for len(l.indents) > 1 && l.top() > indent {
		l.emit(Token{Type: Dedent, Position: Span(at, at)})
		l.indents = l.indents[:len(l.indents)-1]
	}
}

// endOfInput closes all open blocks and finishes the token stream.
func (l *Lexer) endOfInput() {
	p := l.c.Pos()
	l.wsa = nil

	if len(l.indents) > 1 {
		if !l.emitted || l.last != Newline {
			l.emitStructural(Newline, p, p)
		}

		for len(l.indents) > 1 {
			l.emitStructural(Dedent, p, p)
			l.indents = l.indents[:len(l.indents)-1]
		}
	}

	l.mode = Structural
	l.done = true
	l.emit(Token{Type: EOF, Position: Span(p, p)})
}

// scanToken scans the next token within a line.
func (l *Lexer) scanToken() {
	l.skipBlanks()

	begin := l.c.Pos()
	r := l.c.Peek()

	if l.expectValue {
		if r == eof || isLineBreak(r) || (len(l.wsa) > 0 && (r == ',' || r == ')')) {
			l.expectValue = false
			l.emit(Token{Type: Value, Position: Span(begin, begin)})

			return
		}

		l.scanValue()

		return
	}

	switch {
	case r == eof:
		l.endOfInput()
	case isLineBreak(r):
		l.breakPos = begin
		l.skipLineBreak()
		l.lineStart = true
	case r == '=':
		l.c.Next()

		if l.c.Peek() == '=' {
			l.c.Next()
			l.emitText(OpenValue, begin, l.c.Pos())
			l.openScalar()

			return
		}

		l.emitText(Equal, begin, l.c.Pos())
		l.expectValue = true
	case r == ':':
		l.single(Colon)
	case r == ',':
		l.single(Comma)
	case r == '(':
		l.wsa = append(l.wsa, begin)
		l.single(LParen)
	case r == ')':
		if len(l.wsa) == 0 {
			l.recover(begin)
			return
		}

		l.wsa = l.wsa[:len(l.wsa)-1]
		l.single(RParen)
	case r == '@':
		l.sigil(AttrID, 1)
	case r == '$':
		l.sigil(AliasID, 1)
	case r == '%':
		l.sigil(ParamID, 1)
	case r == '#':
		l.sigil(NsID, 1)
	case r == '!' && l.c.PeekAt(1) == '$':
		l.sigil(AliasDefID, 2)
	case r == '!':
		l.sigil(DocID, 1)
	case isNameStart(r):
		l.name()
		l.emitText(ID, begin, l.c.Pos())
	default:
		l.recover(begin)
	}
}

// recover skips everything up to the next whitespace and reports the
// skipped text as unexpected.
func (l *Lexer) recover(begin Pos) {
	for {
		r := l.c.Peek()
		if r == eof || r == ' ' || r == '\t' || isLineBreak(r) {
			break
		}

		l.c.Next()
	}

	l.report(UnexpectedChar, begin, l.c.Pos())
}
