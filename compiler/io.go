// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Input is the source of a single module.
type Input interface {
	// Name is the file name used in positions and diagnostics.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileInput reads a module from the file system.
type FileInput string

func (f FileInput) Name() string {
	return string(f)
}

func (f FileInput) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// StringInput is a module held in memory.
type StringInput struct {
	FileName string
	Source   string
}

func (s StringInput) Name() string {
	return s.FileName
}

func (s StringInput) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.Source)), nil
}

// Output receives the generated files.
type Output interface {
	// Create opens the named file for writing.
	Create(name string) (io.WriteCloser, error)
	// Remove discards a file which could not be written completely.
	Remove(name string) error
}

// DirOutput writes files into a directory, which is created on demand.
type DirOutput string

func (d DirOutput) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return nil, err
	}

	return os.Create(filepath.Join(string(d), name))
}

func (d DirOutput) Remove(name string) error {
	return os.Remove(filepath.Join(string(d), name))
}

// MemOutput keeps all files in memory. It is safe for concurrent use.
type MemOutput struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemOutput creates an empty MemOutput.
func NewMemOutput() *MemOutput {
	return &MemOutput{files: map[string][]byte{}}
}

func (m *MemOutput) Create(name string) (io.WriteCloser, error) {
	return &memFile{out: m, name: name}, nil
}

func (m *MemOutput) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, name)

	return nil
}

// File returns the content of the named file.
func (m *MemOutput) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.files[name]

	return buf, ok
}

// Names returns the sorted names of all files.
func (m *MemOutput) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]string, 0, len(m.files))
	for name := range m.files {
		res = append(res, name)
	}

	sort.Strings(res)

	return res
}

// memFile becomes visible in its MemOutput when it is closed.
type memFile struct {
	bytes.Buffer
	out  *MemOutput
	name string
}

func (f *memFile) Close() error {
	f.out.mu.Lock()
	defer f.out.mu.Unlock()

	f.out.files[f.name] = f.Bytes()

	return nil
}
