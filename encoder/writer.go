// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// writer buffers the output and keeps track of the position of the next
// rune written. The first error is kept and all later writes are dropped.
type writer struct {
	buf  *bufio.Writer
	line int
	col  int
	err  error
}

func newWriter(w io.Writer) *writer {
	return &writer{buf: bufio.NewWriter(w), line: 1, col: 1}
}

// writeString is a convenience method to write strings to the underlying writer.
func (w *writer) writeString(s string) {
	if w.err != nil {
		return
	}

	if _, err := w.buf.WriteString(s); err != nil {
		w.err = err
		return
	}

	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		w.line += strings.Count(s, "\n")
		w.col = 1 + utf8.RuneCountInString(s[i+1:])

		return
	}

	w.col += utf8.RuneCountInString(s)
}

// pos returns the line and column of the next rune.
func (w *writer) pos() (line, col int) {
	return w.line, w.col
}

func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}

	return w.buf.Flush()
}

// indentString returns a string with a number of spaces that matches the
// given indentation level.
func indentString(level int, unit string) string {
	return strings.Repeat(unit, level)
}
