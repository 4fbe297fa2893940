// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package lsp implements a language server which compiles all open
// documents as a single unit and publishes the diagnostics.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golangee/malina/compiler"
	"github.com/golangee/malina/diag"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

// Name of the language server.
const Name = "malina"

var log = commonlog.GetLogger("malina.lsp")

// Server keeps the text of all open documents.
type Server struct {
	version string
	opts    compiler.Options
	handler protocol.Handler
	server  *server.Server

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

// New creates a Server. The output of opts is ignored, nothing is written.
func New(version string, opts compiler.Options) *Server {
	s := &Server{
		version: version,
		opts:    opts,
		docs:    map[protocol.DocumentUri]string{},
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.didOpen,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidClose:  s.didClose,
		TextDocumentDidSave:   s.didSave,
	}

	s.server = server.NewServer(&s.handler, Name, false)

	return s
}

// RunStdio serves a single client on stdin and stdout.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	openClose := true
	change := protocol.TextDocumentSyncKindFull
	includeText := true

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save: &protocol.SaveOptions{
			IncludeText: &includeText,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(params.TextDocument.URI, params.TextDocument.Text)
	s.publish(ctx, "")

	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}

	if change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(params.TextDocument.URI, change.Text)
		s.publish(ctx, "")
	}

	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(params.TextDocument.URI, *params.Text)
	}

	s.publish(ctx, "")

	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()

	s.publish(ctx, params.TextDocument.URI)

	return nil
}

func (s *Server) update(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[uri] = text
}

// publish sends the diagnostics of every open document. closed is cleared
// if not empty.
func (s *Server) publish(ctx *glsp.Context, closed protocol.DocumentUri) {
	found := s.Diagnose(context.Background())

	if closed != "" {
		found[closed] = nil
	}

	uris := make([]protocol.DocumentUri, 0, len(found))
	for uri := range found {
		uris = append(uris, uri)
	}

	sort.Slice(uris, func(i, j int) bool {
		return uris[i] < uris[j]
	})

	for _, uri := range uris {
		diagnostics := found[uri]
		if diagnostics == nil {
			diagnostics = []protocol.Diagnostic{}
		}

		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diagnostics,
		})
	}
}

// Diagnose compiles the open documents and returns the diagnostics of each
// of them. Every open document has an entry.
func (s *Server) Diagnose(ctx context.Context) map[protocol.DocumentUri][]protocol.Diagnostic {
	s.mu.Lock()

	uris := map[string]protocol.DocumentUri{}
	inputs := make([]compiler.Input, 0, len(s.docs))
	res := map[protocol.DocumentUri][]protocol.Diagnostic{}

	for uri, text := range s.docs {
		name := uriToPath(uri)
		uris[name] = uri
		res[uri] = nil
		inputs = append(inputs, compiler.StringInput{FileName: name, Source: text})
	}

	s.mu.Unlock()

	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].Name() < inputs[j].Name()
	})

	opts := s.opts
	opts.Output = compiler.NewMemOutput()
	opts.Schema = nil

	result := compiler.New(opts).Compile(ctx, inputs)

	for _, d := range result.Diagnostics {
		uri, ok := uris[d.File()]
		if !ok {
			log.Infof("%s", d.Error())
			continue
		}

		res[uri] = append(res[uri], toProtocol(d))
	}

	return res
}

func toProtocol(d diag.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := Name

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: position(d.Begin().Line, d.Begin().Col),
			End:   position(d.End().Line, d.End().Col),
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code.String()},
		Source:   &source,
		Message:  d.Message(),
	}
}

// position converts 1-based positions into the 0-based protocol positions.
func position(line, col int) protocol.Position {
	if line < 1 {
		line = 1
	}

	if col < 1 {
		col = 1
	}

	return protocol.Position{
		Line:      protocol.UInteger(line - 1),
		Character: protocol.UInteger(col - 1),
	}
}

func uriToPath(uri protocol.DocumentUri) string {
	s := string(uri)
	if strings.HasPrefix(s, "file://") {
		parsed, err := url.Parse(s)
		if err == nil {
			return filepath.Clean(parsed.Path)
		}
	}

	return s
}
