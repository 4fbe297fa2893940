// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the target format of a document.
type Format int

const (
	XML Format = iota
	JSON
)

func (f Format) String() string {
	switch f {
	case XML:
		return "xml"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension of generated files, including the dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat parses "xml" or "json", ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "xml":
		return XML, nil
	case "json":
		return JSON, nil
	default:
		return XML, fmt.Errorf("unknown target format '%s'", s)
	}
}

// Source file extensions.
const (
	ExtXML  = ".mlx"
	ExtJSON = ".mlj"
)

// FormatOf returns the target format implied by the source file name.
func FormatOf(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtXML:
		return XML, true
	case ExtJSON:
		return JSON, true
	default:
		return XML, false
	}
}

// IsSource returns true if the file name has a malina source extension.
func IsSource(filename string) bool {
	_, ok := FormatOf(filename)
	return ok
}
