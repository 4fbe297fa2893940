// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import "unicode/utf8"

// eof is returned by the cursor if no more runes are available.
const eof rune = -1

// Cursor is a rewindable view over the raw source of a module.
// It keeps track of the line, column and byte offset of the rune
// that would be returned next by Next.
type Cursor struct {
	src []byte
	pos Pos
}

// NewCursor creates a Cursor at the first rune of src.
func NewCursor(filename string, src []byte) *Cursor {
	return &Cursor{
		src: src,
		pos: Pos{File: filename, Line: 1, Col: 1},
	}
}

// Pos returns the position of the next rune.
func (c *Cursor) Pos() Pos {
	return c.pos
}

// EOF returns true if all runes have been consumed.
func (c *Cursor) EOF() bool {
	return c.pos.Offset >= len(c.src)
}

// Peek returns the next rune without consuming it.
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt returns the rune n runes ahead of the next rune, so PeekAt(0) equals Peek.
func (c *Cursor) PeekAt(n int) rune {
	offset := c.pos.Offset
	for {
		if offset >= len(c.src) {
			return eof
		}

		r, size := utf8.DecodeRune(c.src[offset:])
		if n == 0 {
			return r
		}

		n--
		offset += size
	}
}

// Next consumes and returns the next rune.
func (c *Cursor) Next() rune {
	if c.EOF() {
		return eof
	}

	r, size := utf8.DecodeRune(c.src[c.pos.Offset:])
	c.pos.Offset += size

	if r == '\n' || (r == '\r' && c.Peek() != '\n') {
		c.pos.Line++
		c.pos.Col = 1
	} else {
		c.pos.Col++
	}

	return r
}

// Mark returns a position which can be used with Reset.
func (c *Cursor) Mark() Pos {
	return c.pos
}

// Reset rewinds (or forwards) the cursor to a position obtained by Mark.
func (c *Cursor) Reset(mark Pos) {
	c.pos = mark
}

// Slice returns the source text between the two positions.
func (c *Cursor) Slice(begin, end Pos) string {
	if end.Offset > len(c.src) {
		end.Offset = len(c.src)
	}

	if begin.Offset >= end.Offset {
		return ""
	}

	return string(c.src[begin.Offset:end.Offset])
}
