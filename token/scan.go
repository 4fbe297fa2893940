// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import "unicode"

// skipBlanks consumes spaces and tabs and returns how many were consumed.
func (l *Lexer) skipBlanks() int {
	n := 0
	for r := l.c.Peek(); r == ' ' || r == '\t'; r = l.c.Peek() {
		l.c.Next()
		n++
	}

	return n
}

// skipLineBreak consumes a "\n", "\r\n" or "\r".
func (l *Lexer) skipLineBreak() {
	if l.c.Peek() == '\r' {
		l.c.Next()
	}

	if l.c.Peek() == '\n' {
		l.c.Next()
	}
}

// skipLine consumes everything up to the next line break.
func (l *Lexer) skipLine() {
	for r := l.c.Peek(); r != eof && !isLineBreak(r); r = l.c.Peek() {
		l.c.Next()
	}
}

// skipEmptyLines is like skipBlankLines but keeps comment lines, which
// are content inside quoted values.
func (l *Lexer) skipEmptyLines() (indent int, ok bool) {
	for {
		indent = l.skipBlanks()

		switch r := l.c.Peek(); {
		case r == eof:
			return indent, false
		case isLineBreak(r):
			l.skipLineBreak()
		default:
			return indent, true
		}
	}
}

func (l *Lexer) single(typ Type) {
	begin := l.c.Pos()
	l.c.Next()
	l.emitText(typ, begin, l.c.Pos())
}

// sigil scans a name prefixed by n sigil runes like "@", "$" or "!$".
func (l *Lexer) sigil(typ Type, n int) {
	begin := l.c.Pos()
	for i := 0; i < n; i++ {
		l.c.Next()
	}

	if !isNameStart(l.c.Peek()) {
		l.recover(begin)
		return
	}

	l.name()
	l.emitText(typ, begin, l.c.Pos())
}

func (l *Lexer) name() {
	l.c.Next()

	for isNameChar(l.c.Peek()) {
		l.c.Next()
	}
}

// scanValue scans whatever follows an '='.
func (l *Lexer) scanValue() {
	l.expectValue = false
	begin := l.c.Pos()

	switch r := l.c.Peek(); {
	case r == '"':
		l.scanQuoted(begin)
	case r == '$' && isNameStart(l.c.PeekAt(1)):
		l.sigil(AliasID, 1)
	case r == '%' && isNameStart(l.c.PeekAt(1)):
		l.sigil(ParamID, 1)
	default:
		end := begin

		for {
			r := l.c.Peek()
			if r == eof || isLineBreak(r) || (len(l.wsa) > 0 && (r == ',' || r == ')')) {
				break
			}

			l.c.Next()

			if r != ' ' && r != '\t' {
				end = l.c.Pos()
			}
		}

		l.emitText(Value, begin, end)
	}
}

// scanQuoted scans a double quoted value. The value may continue on the
// following lines as long as they are indented deeper than the current
// block. Otherwise, or at the end of input, the value is closed and a
// missing quote is reported. The cursor is rewound to the line break, so
// that the following line is scanned like any other.
func (l *Lexer) scanQuoted(begin Pos) {
	l.c.Next()

	for {
		r := l.c.Peek()

		switch {
		case r == eof:
			end := l.c.Pos()
			l.emitText(QuotedScalarContent, begin, end)
			l.report(MissingClosingQuote, begin, end)

			return
		case r == '\\':
			l.c.Next()

			if next := l.c.Peek(); next != eof && !isLineBreak(next) {
				l.c.Next()
			}
		case r == '"':
			l.c.Next()
			l.emitText(QuotedScalarContent, begin, l.c.Pos())

			return
		case isLineBreak(r):
			brk := l.c.Mark()
			l.skipLineBreak()

			indent, ok := l.skipEmptyLines()
			if ok && indent > l.top() {
				continue
			}

			end := brk
			if !ok {
				end = l.c.Pos()
			}

			l.emitText(QuotedScalarContent, begin, end)
			l.report(MissingClosingQuote, begin, end)

			if ok {
				l.c.Reset(brk)
			}

			return
		default:
			l.c.Next()
		}
	}
}

// openScalar switches into the open value mode right after "==". The
// remainder of the line is the first line of the value.
func (l *Lexer) openScalar() {
	l.mode = OpenScalar
	l.base = l.top()
	l.skipBlanks()
	l.restOfLine(l.c.Pos())
}

// restOfLine emits the remainder of the line as a Value token, without
// trailing blanks. Nothing is emitted for an empty remainder.
func (l *Lexer) restOfLine(begin Pos) {
	end := begin

	for r := l.c.Peek(); r != eof && !isLineBreak(r); r = l.c.Peek() {
		l.c.Next()

		if r != ' ' && r != '\t' {
			end = l.c.Pos()
		}
	}

	if end.Offset > begin.Offset {
		l.emitText(Value, begin, end)
	}
}

// scanOpenLine decides for the next line whether it continues the open
// value or closes it. The cursor is located at a line break or at the end of input.
func (l *Lexer) scanOpenLine() {
	if l.c.EOF() {
		p := l.c.Pos()
		l.mode = Structural
		l.emitStructural(Newline, p, p)

		return
	}

	brk := l.c.Pos()
	l.skipLineBreak()

	var (
		indent    int
		lineBegin Pos
	)

	for {
		lineBegin = l.c.Pos()
		indent = l.skipBlanks()

		r := l.c.Peek()
		if r == eof {
			l.mode = Structural
			l.breakPos = brk
			l.emitStructural(Newline, brk, brk)

			return
		}

		if !isLineBreak(r) {
			break
		}

		l.skipLineBreak()
	}

	switch {
	case indent == l.base && l.atTerminator():
		p := l.c.Pos()
		l.c.Next()
		l.c.Next()
		l.emit(Token{Type: OpenValueContent, Position: Span(p, p)})
		l.mode = Structural
		l.skipBlanks()

		if l.c.EOF() {
			q := l.c.Pos()
			l.emitStructural(Newline, q, q)
		}
	case indent == l.base:
		l.mode = Structural
		l.breakPos = brk
		l.emitStructural(Newline, brk, brk)
	case indent > l.base:
		if indent > l.base+1 {
			from := lineBegin
			from.Col += l.base + 1
			from.Offset += l.base + 1
			l.emitText(OpenValueContent, from, l.c.Pos())
		}

		l.restOfLine(l.c.Pos())
	default:
		l.mode = Structural
		l.breakPos = brk
		l.unwind(indent, l.c.Pos())
	}
}

// atTerminator returns true if the cursor is located at a "==" which is
// only followed by blanks up to the end of the line.
func (l *Lexer) atTerminator() bool {
	if l.c.Peek() != '=' || l.c.PeekAt(1) != '=' {
		return false
	}

	for i := 2; ; i++ {
		switch r := l.c.PeekAt(i); {
		case r == eof || isLineBreak(r):
			return true
		case r != ' ' && r != '\t':
			return false
		}
	}
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.'
}
