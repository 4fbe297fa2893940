// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package compiler runs a compile unit: all modules are parsed, their alias
// definitions and documents collected, every document validated and finally
// generated. Modules are processed in parallel where the steps allow it and
// share a single diagnostic sink.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/golangee/malina/ast"
	"github.com/golangee/malina/diag"
	"github.com/golangee/malina/encoder"
	"github.com/golangee/malina/parser"
	"github.com/golangee/malina/resolver"
	"github.com/golangee/malina/schema"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("malina.compiler")

// Version is the language version implemented by this compiler.
const Version = "v0.3.0"

// Options configure a Compiler.
type Options struct {
	// Format is used for inputs whose extension does not tell the format.
	Format ast.Format
	// MaxDepth bounds the alias expansion, 0 means resolver.DefaultMaxDepth.
	MaxDepth int
	// Output receives the generated files. Nil means a new MemOutput.
	Output Output
	// Schema validates generated XML documents if not nil.
	Schema *schema.Validator
	// Workers limits the modules processed at the same time, 0 means GOMAXPROCS.
	Workers int
}

// Result of a compilation.
type Result struct {
	// Modules which could be parsed, in input order.
	Modules []*ast.Module
	// Files are the names of all written files, sorted.
	Files []string
	// Diagnostics are ordered by file and position.
	Diagnostics diag.List
	// Sources contains the text of each read input by name.
	Sources map[string][]byte
}

// Err returns nil or the diagnostics.
func (r *Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}

	return r.Diagnostics
}

// Source returns the text of the named input.
func (r *Result) Source(name string) ([]byte, error) {
	if src, ok := r.Sources[name]; ok {
		return src, nil
	}

	return nil, fmt.Errorf("no source for %s", name)
}

// Compiler compiles units of modules. It can be used concurrently.
type Compiler struct {
	opts Options
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	if opts.Output == nil {
		opts.Output = NewMemOutput()
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	return &Compiler{opts: opts}
}

// Output returns where generated files are written to.
func (c *Compiler) Output() Output {
	return c.opts.Output
}

// step is a compilation pass over the whole unit.
type step struct {
	name string
	run  func(ctx context.Context)
}

// unit holds the state of a single compilation.
type unit struct {
	opts     Options
	inputs   []Input
	sink     *diag.Sink
	registry *resolver.Registry
	modules  []*ast.Module

	mu      sync.Mutex
	files   []string
	sources map[string][]byte
}

// Compile processes the inputs. A step is not started once a fatal
// diagnostic has been recorded or the context is done.
func (c *Compiler) Compile(ctx context.Context, inputs []Input) *Result {
	u := &unit{
		opts:     c.opts,
		inputs:   inputs,
		sink:     diag.NewSink(),
		registry: resolver.NewRegistry(),
		sources:  map[string][]byte{},
	}

	steps := []step{
		{name: "parse", run: u.parse},
		{name: "collect", run: u.collect},
		{name: "validate", run: u.validate},
		{name: "generate", run: u.generate},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			u.sink.Add(diag.Fatal, nil, err)
			break
		}

		if u.sink.HasFatal() {
			log.Debugf("skipping %s after a fatal error", s.name)
			break
		}

		log.Debugf("step %s", s.name)
		u.runStep(ctx, s)
	}

	sort.Strings(u.files)

	log.Infof("compiled %d modules into %d files with %d diagnostics", len(u.modules), len(u.files), u.sink.Len())

	return &Result{
		Modules:     u.modules,
		Files:       u.files,
		Diagnostics: u.sink.Sorted(),
		Sources:     u.sources,
	}
}

func (u *unit) runStep(ctx context.Context, s step) {
	defer u.recover(s.name)

	s.run(ctx)
}

// recover turns a panic of the current goroutine into a fatal diagnostic.
func (u *unit) recover(where string) {
	if r := recover(); r != nil {
		log.Errorf("%s: %v", where, r)
		u.sink.Add(diag.Fatal, nil, fmt.Errorf("%s: %v", where, r))
	}
}

// parallel calls fn for 0 <= i < n using at most Workers goroutines. No more
// calls are scheduled after a fatal diagnostic or when ctx is done.
func (u *unit) parallel(ctx context.Context, where string, n int, fn func(i int)) {
	var wg sync.WaitGroup

	sem := make(chan struct{}, u.opts.Workers)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil || u.sink.HasFatal() {
			break
		}

		sem <- struct{}{}

		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			defer u.recover(where)

			fn(i)
		}(i)
	}

	wg.Wait()
}

func (u *unit) parse(ctx context.Context) {
	mods := make([]*ast.Module, len(u.inputs))

	u.parallel(ctx, "parse", len(u.inputs), func(i int) {
		mods[i] = u.parseInput(u.inputs[i])
	})

	for _, m := range mods {
		if m != nil {
			u.modules = append(u.modules, m)
		}
	}
}

func (u *unit) parseInput(in Input) *ast.Module {
	name := in.Name()

	rc, err := in.Open()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			u.sink.Add(diag.FileNotFound, nil, name)
		} else {
			u.sink.Add(diag.ReadError, nil, name, err)
		}

		return nil
	}

	defer rc.Close()

	src, err := io.ReadAll(rc)
	if err != nil {
		u.sink.Add(diag.ReadError, nil, name, err)
		return nil
	}

	u.mu.Lock()
	u.sources[name] = src
	u.mu.Unlock()

	format, ok := ast.FormatOf(name)
	if !ok {
		format = u.opts.Format
	}

	return parser.Parse(name, src, format, u.sink)
}

func (u *unit) collect(context.Context) {
	for _, m := range u.modules {
		u.registry.Collect(m, u.sink)
	}
}

// validate stops at the first module after anything has been reported,
// including problems of earlier steps.
func (u *unit) validate(ctx context.Context) {
	for _, m := range u.modules {
		if ctx.Err() != nil {
			return
		}

		if u.sink.HasErrors() {
			log.Debugf("skipping validation of %s", m.FileName)
			return
		}

		for _, d := range m.Documents {
			ValidateDocument(d, u.registry, u.sink, u.opts.MaxDepth)
		}
	}
}

// generate writes all documents, but only for a unit without any diagnostic.
func (u *unit) generate(ctx context.Context) {
	if u.sink.HasErrors() {
		return
	}

	var docs []*ast.Document
	for _, m := range u.modules {
		docs = append(docs, m.Documents...)
	}

	u.parallel(ctx, "generate", len(docs), func(i int) {
		u.generateDocument(docs[i])
	})
}

// generateDocument renders the document into memory first, so that nothing
// is written for documents with resolution or schema problems.
func (u *unit) generateDocument(doc *ast.Document) {
	name := encoder.FileName(doc)
	buf := &bytes.Buffer{}

	locs, err := encoder.Encode(buf, doc, u.registry, encoder.Options{Sink: u.sink, MaxDepth: u.opts.MaxDepth})
	if err != nil {
		var list diag.List
		if !errors.As(err, &list) {
			u.sink.Add(diag.Fatal, doc, err)
		}

		return
	}

	if doc.Format == ast.XML && u.opts.Schema != nil {
		if !u.opts.Schema.Validate(doc, bytes.NewReader(buf.Bytes()), locs, u.sink) {
			return
		}
	}

	if err := u.write(name, buf.Bytes()); err != nil {
		u.sink.Add(diag.WriteError, doc, name, err)
		return
	}

	u.mu.Lock()
	u.files = append(u.files, name)
	u.mu.Unlock()

	log.Debugf("wrote %s", name)
}

// write stores the file. A partially written file is removed.
func (u *unit) write(name string, data []byte) (err error) {
	w, err := u.opts.Output.Create(name)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}

		if err != nil {
			if rerr := u.opts.Output.Remove(name); rerr != nil {
				log.Errorf("unable to remove %s: %v", name, rerr)
			}
		}
	}()

	_, err = w.Write(data)

	return err
}
