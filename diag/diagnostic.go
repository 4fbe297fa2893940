// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golangee/malina/token"
)

// Diagnostic is a positional error. The span may cover a range of the
// source, e.g. from the opening quote of an unterminated value up to the
// point where the lexer gave up.
type Diagnostic struct {
	token.Position
	Code Code
	// Args are the positional arguments of the code template.
	Args []interface{}
	// Hint is an optional suggestion shown by Explain.
	Hint string
}

// New creates a Diagnostic located at the given node.
func New(code Code, node token.Node, args ...interface{}) Diagnostic {
	d := Diagnostic{Code: code, Args: args}
	if node != nil {
		d.Position = token.Span(node.Begin(), node.End())
	}

	return d
}

// Message returns the formatted message without position.
func (d Diagnostic) Message() string {
	return fmt.Sprintf(d.Code.Template(), d.Args...)
}

// Severity returns the severity of the diagnostic code.
func (d Diagnostic) Severity() Severity {
	return d.Code.Severity()
}

// File returns the file the diagnostic belongs to.
func (d Diagnostic) File() string {
	return d.BeginPos.File
}

func (d Diagnostic) Error() string {
	if d.BeginPos.File == "" && d.BeginPos.Line == 0 {
		return d.Code.String() + ": " + d.Message()
	}

	return d.BeginPos.String() + ": " + d.Code.String() + ": " + d.Message()
}

// posLine returns the line from lines which fits to the given pos.
func posLine(lines []string, pos token.Pos) string {
	no := pos.Line - 1

	if no >= len(lines) {
		no = len(lines) - 1
	}

	if no >= 0 && no < len(lines) {
		return strings.TrimRight(lines[no], "\r")
	}

	return ""
}

// Explain returns a multi-line text suited to be printed into the console.
// src is the content of the diagnostic's file and may be nil.
func (d Diagnostic) Explain(src []byte) string {
	begin, end := d.Begin(), d.End()
	indent := len(strconv.Itoa(begin.Line))
	sb := &strings.Builder{}

	sb.WriteString(d.Severity().String())
	sb.WriteString("[")
	sb.WriteString(d.Code.String())
	sb.WriteString("]: ")
	sb.WriteString(d.Message())
	sb.WriteString("\n")

	if begin.Line == 0 {
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s--> %s\n", "", begin))

	if src == nil {
		return sb.String()
	}

	line := posLine(strings.Split(string(src), "\n"), begin)

	sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
	sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"d |", begin.Line))
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |", ""))

	if begin.Col > 1 {
		sb.WriteString(strings.Repeat(" ", begin.Col-1))
	}

	// ranges over several lines are underlined up to the end of the first line
	width := end.Col - begin.Col
	if end.Line != begin.Line {
		width = len([]rune(line)) - begin.Col + 1
	}

	if width <= 1 {
		sb.WriteString("^~~~")
	} else {
		sb.WriteString(strings.Repeat("^", width))
	}

	sb.WriteString("\n")

	if d.Hint != "" {
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s = hint: %s\n", "", d.Hint))
	}

	return sb.String()
}

// List is a set of diagnostics which is also an error.
type List []Diagnostic

func (l List) Error() string {
	if len(l) == 0 {
		return "no diagnostics"
	}

	tmp := make([]string, 0, len(l))
	for _, d := range l {
		tmp = append(tmp, d.Error())
	}

	return strings.Join(tmp, "\n")
}

// Explain renders all diagnostics. load resolves the source of a file
// and may be nil.
func (l List) Explain(load func(file string) ([]byte, error)) string {
	sb := &strings.Builder{}

	for i, d := range l {
		var src []byte
		if load != nil {
			src, _ = load(d.File())
		}

		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(d.Explain(src))
	}

	return sb.String()
}

// Codes returns the code of each diagnostic, in order.
func (l List) Codes() []Code {
	res := make([]Code, 0, len(l))
	for _, d := range l {
		res = append(res, d.Code)
	}

	return res
}
