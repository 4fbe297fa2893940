// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"sort"
	"sync"

	"github.com/golangee/malina/token"
)

// Sink is an append-only collection of diagnostics shared by all modules of
// a compilation. It is safe for concurrent use.
type Sink struct {
	mu    sync.Mutex
	items []Diagnostic
	fatal bool
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends the diagnostic.
func (s *Sink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, d)
	if d.Severity() == SeverityFatal {
		s.fatal = true
	}
}

// Add creates and appends a diagnostic located at node.
func (s *Sink) Add(code Code, node token.Node, args ...interface{}) {
	s.Report(New(code, node, args...))
}

// Len returns the number of collected diagnostics.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// HasErrors returns true if at least one diagnostic has been collected.
func (s *Sink) HasErrors() bool {
	return s.Len() > 0
}

// HasFatal returns true if a fatal diagnostic has been collected.
func (s *Sink) HasFatal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fatal
}

// Diagnostics returns a copy of all diagnostics in the order of reporting.
func (s *Sink) Diagnostics() List {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(List(nil), s.items...)
}

// Sorted returns a copy of all diagnostics ordered by file and offset.
// Diagnostics of parallel steps arrive in arbitrary order.
func (s *Sink) Sorted() List {
	res := s.Diagnostics()
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].BeginPos, res[j].BeginPos
		if a.File != b.File {
			return a.File < b.File
		}

		return a.Offset < b.Offset
	})

	return res
}

// Err returns nil or the sorted diagnostics as an error.
func (s *Sink) Err() error {
	if !s.HasErrors() {
		return nil
	}

	return s.Sorted()
}
