package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/subjava/java/parser"
)

const lsName = "subjava"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	opts     []Option

	mu     sync.Mutex
	open   map[string]bool
	notify glsp.NotifyFunc
}

func NewLSPServer(version string, opts ...Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		opts:    opts,
		open:    make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		TextDocumentDidOpen:            ls.textDocumentDidOpen,
		TextDocumentDidChange:          ls.textDocumentDidChange,
		TextDocumentDidClose:           ls.textDocumentDidClose,
		TextDocumentDidSave:            ls.textDocumentDidSave,
		TextDocumentCompletion:         ls.textDocumentCompletion,
		TextDocumentSemanticTokensFull: ls.textDocumentSemanticTokensFull,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.opts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semanticTokenTypes(),
			TokenModifiers: []string{},
		},
		Full: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	for _, f := range ls.codebase.Files() {
		ls.publish(f)
	}

	w, err := NewFileWatcher(ls.codebase)
	if err != nil {
		log.Warningf("file watching disabled: %s", err)
		return nil
	}
	w.OnChange = ls.publish
	w.OnRemove = ls.fileRemoved
	w.Ignore = ls.isOpen
	if err := w.Start(); err != nil {
		log.Warningf("file watching disabled: %s", err)
		w.Stop()
		return nil
	}
	ls.watcher = w
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		return ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, true)
	ls.publish(ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text)))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.publish(ls.codebase.UpdateFile(path, []byte(textChange.Text)))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, false)
	// The buffer may have differed from disk; go back to the saved text.
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
		ls.fileRemoved(path)
		return nil
	}
	ls.publish(ls.codebase.GetFile(path))
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.publish(ls.codebase.UpdateFile(path, []byte(*params.Text)))
	} else if err := ls.codebase.ScanFile(path); err == nil {
		ls.publish(ls.codebase.GetFile(path))
	}
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	completions := ls.codebase.CompletionsAtPoint(path, line, col)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText

		items = append(items, protocol.CompletionItem{
			Label:      c.Label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
		})
	}

	return items, nil
}

func (ls *LSPServer) textDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
	}
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(f)}, nil
}

func (ls *LSPServer) fileRemoved(path string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (ls *LSPServer) publish(f *FileInfo) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil || f == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(f.Path),
		Diagnostics: toProtocolDiagnostics(f),
	})
}

func (ls *LSPServer) setOpen(path string, open bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if open {
		ls.open[path] = true
	} else {
		delete(ls.open, path)
	}
}

func (ls *LSPServer) isOpen(path string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.open[path]
}

// toProtocolDiagnostics reports every lexical error and the syntax
// diagnostic of f, in source order.
func toProtocolDiagnostics(f *FileInfo) []protocol.Diagnostic {
	idx := newLineIndex(string(f.Content))
	source := lsName
	severity := protocol.DiagnosticSeverityError

	out := []protocol.Diagnostic{}
	for _, tok := range f.Result.LexicalErrors() {
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: idx.position(tok.Span.Start.Offset),
				End:   idx.position(tok.Span.End.Offset),
			},
			Severity: &severity,
			Source:   &source,
			Message:  "lexical error: " + tok.PatternName + " '" + tok.Lexeme + "'",
		})
	}
	for _, d := range f.Result.Diagnostics {
		start := idx.offsetOf(d.Line, d.Column)
		end := start
		for _, tok := range f.Result.Tokens {
			if tok.Line == d.Line && tok.Column == d.Column {
				end = tok.Span.End.Offset
				break
			}
		}
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: idx.position(start), End: idx.position(end)},
			Severity: &severity,
			Source:   &source,
			Message:  d.String(),
		})
	}
	return out
}

const (
	semanticKeyword = iota
	semanticModifier
	semanticType
	semanticVariable
	semanticString
	semanticNumber
	semanticOperator
	semanticComment
)

func semanticTokenTypes() []string {
	return []string{
		string(protocol.SemanticTokenTypeKeyword),
		string(protocol.SemanticTokenTypeModifier),
		string(protocol.SemanticTokenTypeType),
		string(protocol.SemanticTokenTypeVariable),
		string(protocol.SemanticTokenTypeString),
		string(protocol.SemanticTokenTypeNumber),
		string(protocol.SemanticTokenTypeOperator),
		string(protocol.SemanticTokenTypeComment),
	}
}

func semanticKind(kind parser.TokenKind) (int, bool) {
	switch kind {
	case parser.TokenLineComment, parser.TokenBlockComment:
		return semanticComment, true
	case parser.TokenCharLiteral, parser.TokenStringLiteral:
		return semanticString, true
	case parser.TokenDecimalLiteral, parser.TokenIntegerLiteral:
		return semanticNumber, true
	case parser.TokenSpecialLiteral, parser.TokenControlKeyword, parser.TokenObjectKeyword:
		return semanticKeyword, true
	case parser.TokenAccessModifier:
		return semanticModifier, true
	case parser.TokenPrimitiveType:
		return semanticType, true
	case parser.TokenIdent:
		return semanticVariable, true
	case parser.TokenCompoundOperator, parser.TokenAssignOperator, parser.TokenRelationalOperator,
		parser.TokenLogicalOperator, parser.TokenBitwiseOperator, parser.TokenTernaryOperator,
		parser.TokenArithmeticOperator:
		return semanticOperator, true
	}
	return 0, false
}

// encodeSemanticTokens produces the relative five-integer encoding of the
// LSP semantic tokens response. Tokens spanning lines are split per line.
func encodeSemanticTokens(f *FileInfo) []protocol.UInteger {
	idx := newLineIndex(string(f.Content))
	data := []protocol.UInteger{}
	var prevLine, prevChar protocol.UInteger

	for _, tok := range f.Segments {
		typ, ok := semanticKind(tok.Kind)
		if !ok {
			continue
		}
		offset := tok.Span.Start.Offset
		for i, piece := range strings.Split(tok.Lexeme, "\n") {
			if i > 0 {
				offset++ // newline
			}
			text := strings.TrimSuffix(piece, "\r")
			if text != "" {
				pos := idx.position(offset)
				deltaLine := pos.Line - prevLine
				deltaChar := pos.Character
				if deltaLine == 0 {
					deltaChar -= prevChar
				}
				data = append(data, deltaLine, deltaChar, protocol.UInteger(utf16Len(text)), protocol.UInteger(typ), 0)
				prevLine, prevChar = pos.Line, pos.Character
			}
			offset += len(piece)
		}
	}
	return data
}

// lineIndex converts between byte offsets, the lexer's 1-based rune
// columns and LSP's 0-based UTF-16 positions.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

func (idx *lineIndex) position(offset int) protocol.Position {
	if offset > len(idx.text) {
		offset = len(idx.text)
	}
	line := 0
	for line+1 < len(idx.starts) && idx.starts[line+1] <= offset {
		line++
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf16Len(idx.text[idx.starts[line]:offset])),
	}
}

// offsetOf returns the byte offset of a 1-based line and rune column.
func (idx *lineIndex) offsetOf(line, column int) int {
	if line < 1 || line > len(idx.starts) {
		return len(idx.text)
	}
	offset := idx.starts[line-1]
	for i := 1; i < column && offset < len(idx.text) && idx.text[offset] != '\n'; i++ {
		_, size := utf8.DecodeRuneInString(idx.text[offset:])
		offset += size
	}
	return offset
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case CompletionKindIdentifier:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
