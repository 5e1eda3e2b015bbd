// Package lsp implements a language server for noodle over stdio. It
// publishes compiler diagnostics and answers symbol, hover, definition and
// completion requests from the parsed program.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/compiler"
	"github.com/noodle-lang/noodlec/internal/parser"
)

// ServerName is reported to clients during initialize.
const ServerName = "noodlec-lsp"

// Server represents the LSP server.
type Server struct {
	// documents tracks open files by URI
	documents map[string]*Document
	mu        sync.RWMutex

	in      *bufio.Reader
	out     io.Writer
	writeMu sync.Mutex

	logger   *slog.Logger
	opts     compiler.Options
	version  string
	rootPath string
}

// Document represents an open document.
type Document struct {
	URI     string
	Content string
	Version int
	Program *ast.Program
	Result  *compiler.Result
	symbols []symbol
}

// Config configures a Server.
type Config struct {
	// Compile holds the options every document is compiled with.
	Compile compiler.Options
	// Version is reported in serverInfo.
	Version string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// NewServer creates a server reading requests from in and writing
// responses and notifications to out.
func NewServer(in io.Reader, out io.Writer, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		documents: make(map[string]*Document),
		in:        bufio.NewReader(in),
		out:       out,
		logger:    logger,
		opts:      cfg.Compile,
		version:   cfg.Version,
	}
}

// errExit is returned by the dispatcher once the client sends "exit".
var errExit = errors.New("exit requested")

// Run serves requests until the input is exhausted, the client sends
// "exit", or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan *jsonrpcMessage)
	readErr := make(chan error, 1)

	go func() {
		defer close(msgs)
		for {
			msg, err := s.readMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case msgs <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				select {
				case err := <-readErr:
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				default:
					return ctx.Err()
				}
			}
			if err := s.dispatch(ctx, msg); err != nil {
				if errors.Is(err, errExit) {
					return nil
				}
				return err
			}
		}
	}
}

// readMessage reads one base-protocol frame: headers, a blank line, then a
// JSON body of Content-Length bytes. Malformed bodies are skipped.
func (s *Server) readMessage() (*jsonrpcMessage, error) {
	for {
		contentLength := -1
		for {
			line, err := s.in.ReadString('\n')
			if err != nil {
				if errors.Is(err, io.EOF) && line == "" {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("failed to read header: %w", err)
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				break
			}
			name, value, ok := strings.Cut(line, ":")
			if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
		if contentLength < 0 {
			s.logger.Warn("message without Content-Length header")
			continue
		}

		body := make([]byte, contentLength)
		if _, err := io.ReadFull(s.in, body); err != nil {
			return nil, fmt.Errorf("failed to read message body: %w", err)
		}

		var msg jsonrpcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			s.logger.Warn("failed to parse JSON-RPC message", slog.String("error", err.Error()))
			continue
		}
		return &msg, nil
	}
}

func (s *Server) dispatch(ctx context.Context, msg *jsonrpcMessage) error {
	if msg.Method == "exit" {
		return errExit
	}
	response := s.handleMessage(ctx, msg)
	if response == nil {
		return nil
	}
	if err := s.send(response); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	return nil
}

// jsonrpcMessage represents a JSON-RPC 2.0 message.
type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
)

// isRequest reports whether the message expects a response.
func (m *jsonrpcMessage) isRequest() bool {
	return len(m.ID) > 0
}

func reply(msg *jsonrpcMessage, result any) *jsonrpcMessage {
	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: result}
}

// nullResult is marshalled as JSON null; a nil Result would be omitted.
var nullResult = json.RawMessage("null")

func replyError(msg *jsonrpcMessage, code int, format string, args ...any) *jsonrpcMessage {
	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Error:   &jsonrpcError{Code: code, Message: fmt.Sprintf(format, args...)},
	}
}

// handleMessage processes a JSON-RPC message and returns a response.
func (s *Server) handleMessage(_ context.Context, msg *jsonrpcMessage) *jsonrpcMessage {
	s.logger.Debug("lsp message", slog.String("method", msg.Method))

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(msg)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(msg)
		return nil
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "shutdown":
		return reply(msg, nullResult)
	default:
		if msg.isRequest() {
			return replyError(msg, codeMethodNotFound, "Method not found: %s", msg.Method)
		}
		return nil
	}
}

// send writes one framed message. Notifications and responses may come
// from different handlers, so writes are serialized.
func (s *Server) send(msg *jsonrpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

func (s *Server) notify(method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		s.logger.Error("failed to marshal notification", slog.String("method", method), slog.String("error", err.Error()))
		return
	}
	if err := s.send(&jsonrpcMessage{JSONRPC: "2.0", Method: method, Params: raw}); err != nil {
		s.logger.Error("failed to send notification", slog.String("method", method), slog.String("error", err.Error()))
	}
}

// InitializeParams represents the initialize request parameters.
type InitializeParams struct {
	ProcessID    *int           `json:"processId,omitempty"`
	RootPath     string         `json:"rootPath,omitempty"`
	RootURI      string         `json:"rootUri,omitempty"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

// InitializeResult represents the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	TextDocumentSync       int            `json:"textDocumentSync"`
	CompletionProvider     map[string]any `json:"completionProvider,omitempty"`
	HoverProvider          bool           `json:"hoverProvider"`
	DefinitionProvider     bool           `json:"definitionProvider"`
	DocumentSymbolProvider bool           `json:"documentSymbolProvider"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// textDocumentSyncFull asks the client to send the whole document on change.
const textDocumentSyncFull = 1

func (s *Server) handleInitialize(msg *jsonrpcMessage) *jsonrpcMessage {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return replyError(msg, codeInvalidParams, "Invalid params: %v", err)
	}

	if params.RootURI != "" {
		s.rootPath = uriToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.rootPath = params.RootPath
	}
	s.logger.Info("lsp initialized", slog.String("root", s.rootPath))

	return reply(msg, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: textDocumentSyncFull,
			CompletionProvider: map[string]any{
				"triggerCharacters": []string{"."},
			},
			HoverProvider:          true,
			DefinitionProvider:     true,
			DocumentSymbolProvider: true,
		},
		ServerInfo: ServerInfo{Name: ServerName, Version: s.version},
	})
}

// DidOpenTextDocumentParams represents didOpen notification parameters.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

func (s *Server) handleDidOpen(msg *jsonrpcMessage) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("failed to parse didOpen params", slog.String("error", err.Error()))
		return
	}

	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.TextDocument.Text,
		Version: params.TextDocument.Version,
	}
	s.updateDocument(doc)

	s.mu.Lock()
	s.documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(doc)
}

// DidChangeTextDocumentParams represents didChange notification parameters.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

func (s *Server) handleDidChange(msg *jsonrpcMessage) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("failed to parse didChange params", slog.String("error", err.Error()))
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}

	s.mu.RLock()
	_, ok := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()
	if !ok {
		return
	}

	// Full sync: the last change carries the whole document.
	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.ContentChanges[len(params.ContentChanges)-1].Text,
		Version: params.TextDocument.Version,
	}
	s.updateDocument(doc)

	s.mu.Lock()
	s.documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(doc)
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

func (s *Server) handleDidClose(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("failed to parse didClose params", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear what was published for the closed file.
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
}

func (s *Server) document(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[uri]
	return doc, ok
}

// updateDocument compiles a document and indexes its declarations.
func (s *Server) updateDocument(doc *Document) {
	filename := uriToPath(doc.URI)

	opts := s.opts
	opts.Logger = s.logger
	doc.Result = compiler.Compile(doc.Content, filename, opts)

	// The compiler may rewrite its tree while optimizing, so editor features
	// work on a separate parse.
	doc.Program = parser.New(doc.Content, parser.WithFilename(filename)).ParseProgram()
	doc.symbols = collectSymbols(doc.Program)
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		// Handle Windows paths
		if len(path) > 2 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		return path
	}
	return uri
}
