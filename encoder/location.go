// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"sort"

	"github.com/golangee/malina/token"
)

// Location maps an emitted element or attribute back to its source.
type Location struct {
	// Path identifies the emitted node, e.g. /root[1]/item[2]/@id for XML or
	// a JSON pointer like /root/items/1.
	Path string
	// Line and Col are the 1-based position of the emitted node in the output.
	Line int
	Col  int
	// Source is the span of the originating declaration.
	Source token.Position
}

// LocationMap lists locations in output order.
type LocationMap []Location

func (m *LocationMap) add(path string, line, col int, src token.Node) {
	*m = append(*m, Location{
		Path:   path,
		Line:   line,
		Col:    col,
		Source: token.Span(src.Begin(), src.End()),
	})
}

// Lookup returns the location of the node which has been emitted at or
// nearest before the given output position.
func (m LocationMap) Lookup(line, col int) (Location, bool) {
	i := sort.Search(len(m), func(i int) bool {
		l := m[i]
		return l.Line > line || (l.Line == line && l.Col > col)
	})

	if i == 0 {
		return Location{}, false
	}

	return m[i-1], true
}

// Path returns the location emitted for the given path.
func (m LocationMap) Path(p string) (Location, bool) {
	for _, l := range m {
		if l.Path == p {
			return l, true
		}
	}

	return Location{}, false
}
