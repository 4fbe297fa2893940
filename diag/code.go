// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package diag

import "fmt"

// Code identifies a kind of diagnostic. It is rendered as MCExxxx.
type Code int

const (
	Fatal Code = iota
	ReadError
	FileNotFound
	UnexpectedChar
	MissingClosingQuote
	SyntaxError
	AliasNotDefined
	ParameterWithoutValue
	ArgumentNotDeclared
	ArrayItemInXML
	ArrayItemExpected
	PropertyExpected
	ParameterOutsideAlias
	AliasWithoutValue
	NamespaceNotDeclared
	DuplicateAlias
	AliasTooDeep
	DuplicateDocument
	SchemaViolation
	MisplacedDeclaration
	WriteError
	ArgumentWithoutValue
	MultipleRootElements
)

var templates = map[Code]string{
	Fatal:                 "%v",
	ReadError:             "error reading from '%s': '%v'",
	FileNotFound:          "file '%s' was not found",
	UnexpectedChar:        "unexpected character sequence '%s'",
	MissingClosingQuote:   "missing closing double quote",
	SyntaxError:           "%s",
	AliasNotDefined:       "alias '%s' is not defined",
	ParameterWithoutValue: "parameter '%s' has neither an argument nor a default value",
	ArgumentNotDeclared:   "argument '%s' is not declared by alias '%s'",
	ArrayItemInXML:        "array item cannot be defined in an XML document",
	ArrayItemExpected:     "array item is expected",
	PropertyExpected:      "property is expected",
	ParameterOutsideAlias: "parameter '%s' is used outside of an alias definition",
	AliasWithoutValue:     "alias '%s' has no value",
	NamespaceNotDeclared:  "namespace prefix '%s' is not declared",
	DuplicateAlias:        "alias '%s' is already defined",
	AliasTooDeep:          "expansion of alias '%s' exceeds the maximum depth of %d",
	DuplicateDocument:     "document '%s' is already defined",
	SchemaViolation:       "schema violation: %s",
	MisplacedDeclaration:  "%s is not allowed here",
	WriteError:            "error writing '%s': '%v'",
	ArgumentWithoutValue:  "argument '%s' has no value",
	MultipleRootElements:  "element '%s' is another root element, an XML document has exactly one",
}

func (c Code) String() string {
	return fmt.Sprintf("MCE%04d", int(c))
}

// Template returns the printf style message template of the code.
func (c Code) Template() string {
	if t, ok := templates[c]; ok {
		return t
	}

	return "%v"
}

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	// SeverityFatal diagnostics stop the compilation step which reported them.
	SeverityFatal
)

// Severity returns the severity of all diagnostics with this code.
func (c Code) Severity() Severity {
	switch c {
	case Fatal, ReadError, AliasTooDeep, WriteError:
		return SeverityFatal
	default:
		return SeverityError
	}
}

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}

	return "error"
}
