// Package lsp is a thin language-server wrapper around the checker: it
// decodes each document's JSON AST payload, runs inference, and publishes
// the resulting diagnostics. The real source-text parser this would front
// in production is out of scope; a document's "source" here is already the
// JSON wire format internal/ast/json.go understands.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/checker"
)

// document is the only mutable state the server owns: the URI's current
// text and version. Diagnostics are recomputed from the text on each
// publish and are not stored here.
type document struct {
	uri     protocol.DocumentURI
	version int32
	text    string
}

// Server wraps a jsonrpc2.Conn over stdio and drives one inference pass per
// document event on the connection's own goroutine — no concurrency is
// introduced inside the engine itself.
type Server struct {
	conn   jsonrpc2.Conn
	logger *log.Logger
	config checker.Config

	mu   sync.Mutex
	docs map[protocol.DocumentURI]*document
}

// NewServer constructs a Server. Run must be called to actually serve.
func NewServer(logger *log.Logger, cfg checker.Config) *Server {
	return &Server{
		logger: logger,
		config: cfg,
		docs:   make(map[protocol.DocumentURI]*document),
	}
}

// Run serves the language server protocol over rw until the connection
// closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context, rw io.ReadWriteCloser) error {
	stream := jsonrpc2.NewStream(rw)
	conn := jsonrpc2.NewConn(stream)
	s.conn = conn

	srv := jsonrpc2.HandlerServer(s.handle)
	return srv.ServeStream(ctx, conn)
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Printf("lsp: %s", req.Method())

	switch req.Method() {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, &jsonrpc2.Error{Code: jsonrpc2.ParseError, Message: err.Error()})
		}
		result := &protocol.InitializeResult{
			Capabilities: protocol.ServerCapabilities{
				TextDocumentSync: protocol.TextDocumentSyncKindFull,
			},
		}
		return reply(ctx, result, nil)

	case protocol.MethodInitialized:
		return nil

	case protocol.MethodShutdown:
		return reply(ctx, nil, nil)

	case protocol.MethodExit:
		return nil

	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			s.logger.Printf("lsp: didOpen: %v", err)
			return nil
		}
		s.upsertDocument(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
		s.publishDiagnostics(ctx, params.TextDocument.URI)
		return nil

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			s.logger.Printf("lsp: didChange: %v", err)
			return nil
		}
		if len(params.ContentChanges) > 0 {
			// TextDocumentSyncKindFull: the last change event carries the
			// whole new text.
			text := params.ContentChanges[len(params.ContentChanges)-1].Text
			s.upsertDocument(params.TextDocument.URI, params.TextDocument.Version, text)
			s.publishDiagnostics(ctx, params.TextDocument.URI)
		}
		return nil

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			s.logger.Printf("lsp: didClose: %v", err)
			return nil
		}
		s.removeDocument(params.TextDocument.URI)
		return nil

	default:
		if call, ok := req.(*jsonrpc2.Call); ok {
			return reply(ctx, nil, &jsonrpc2.Error{
				Code:    jsonrpc2.MethodNotFound,
				Message: fmt.Sprintf("method not supported: %s", call.Method()),
			})
		}
		return nil
	}
}

// diagnosticsForText decodes text as a JSON AST program and runs inference
// over it, converting any per-top-level error into a diagnostic. A decode
// failure is reported as a single unpositioned diagnostic.
func diagnosticsForText(text string, cfg checker.Config) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	program, err := ast.DecodeProgram([]byte(text))
	if err != nil {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Severity: protocol.DiagnosticSeverityError,
			Message:  fmt.Sprintf("failed to decode document: %v", err),
		})
		return diagnostics
	}

	results := checker.CheckProgram(checker.SeedEnvironment(), cfg, program)
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		diagnostics = append(diagnostics, toDiagnostic(r.Err))
	}
	return diagnostics
}

func (s *Server) upsertDocument(uri protocol.DocumentURI, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{uri: uri, version: version, text: text}
}

func (s *Server) removeDocument(uri protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *Server) publishDiagnostics(ctx context.Context, uri protocol.DocumentURI) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	s.mu.Unlock()
	if !ok {
		return
	}

	diagnostics := diagnosticsForText(doc.text, s.config)

	if s.conn == nil {
		return
	}
	_ = s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     uint32(doc.version),
		Diagnostics: diagnostics,
	})
}
