package codebase

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/subjava/java/dictionary"
	"github.com/dhamidi/subjava/java/parser"
)

var log = commonlog.GetLogger("subjava.codebase")

type Option func(*Codebase)

// WithDictionary makes every analysis use the dictionary at path. The file
// is re-read when its modification time changes.
func WithDictionary(path string) Option {
	return func(c *Codebase) {
		c.dictPath = path
	}
}

// Codebase holds the latest analysis of every known source file. It is safe
// for concurrent use.
type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	dictPath string
	dicts    *dictionary.Cache
	files    map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	Result  *parser.Result
	// Segments is the full segmentation including whitespace and comments.
	Segments []parser.Token
}

func (f *FileInfo) Accepted() bool {
	return f.Result.Accepted()
}

func New(rootDir string, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		dicts:   dictionary.NewCache(),
		files:   make(map[string]*FileInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) DictionaryPath() string {
	return c.dictPath
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile analyzes content as the new text of path and returns the
// stored result.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := c.analyze(path, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

func (c *Codebase) analyze(path string, content []byte) *FileInfo {
	opts := []parser.Option{parser.WithFile(filepath.Base(path))}
	if c.dictPath != "" {
		opts = append(opts, parser.WithDictionary(c.dicts.Get(c.dictPath)))
	}
	lexer := parser.NewLexer(opts...)
	source := string(content)
	segments := lexer.Scan(source)
	tokens := parser.Significant(segments)

	info := &FileInfo{
		Path:     path,
		Content:  content,
		Segments: segments,
		Result: &parser.Result{
			Tokens:      tokens,
			Diagnostics: parser.NewValidator().Validate(tokens),
		},
	}
	log.Debugf("analyzed %s: %d tokens, accepted=%t", path, len(tokens), info.Accepted())
	return info
}

// Reanalyze runs the analysis again for every file, for example after the
// dictionary changed. It returns the refreshed files.
func (c *Codebase) Reanalyze() []*FileInfo {
	if c.dictPath != "" {
		c.dicts.Invalidate(c.dictPath)
	}

	c.mu.RLock()
	snapshot := make(map[string][]byte, len(c.files))
	for path, f := range c.files {
		snapshot[path] = f.Content
	}
	c.mu.RUnlock()

	var updated []*FileInfo
	for _, path := range sortedKeys(snapshot) {
		updated = append(updated, c.UpdateFile(path, snapshot[path]))
	}
	return updated
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns every known file ordered by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*FileInfo, 0, len(c.files))
	for _, path := range sortedKeys(c.files) {
		out = append(out, c.files[path])
	}
	return out
}

// Rejected returns the files with lexical errors or a syntax diagnostic.
func (c *Codebase) Rejected() []*FileInfo {
	var out []*FileInfo
	for _, f := range c.Files() {
		if !f.Accepted() {
			out = append(out, f)
		}
	}
	return out
}

// CompletionsAtPoint offers keywords and identifiers already used in the file
// that extend the word ending at the 1-based line and 0-based character.
func (c *Codebase) CompletionsAtPoint(path string, line, character int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	prefix := wordBefore(f.Content, line, character)
	if prefix == "" {
		return nil
	}

	var items []CompletionItem
	seen := map[string]bool{prefix: true}
	for _, kw := range parser.Keywords() {
		if strings.HasPrefix(kw, prefix) && !seen[kw] {
			seen[kw] = true
			items = append(items, CompletionItem{
				Label:      kw,
				Kind:       CompletionKindKeyword,
				Detail:     "keyword",
				InsertText: kw,
			})
		}
	}
	for _, tok := range f.Result.Tokens {
		if tok.Kind != parser.TokenIdent || seen[tok.Lexeme] || !strings.HasPrefix(tok.Lexeme, prefix) {
			continue
		}
		seen[tok.Lexeme] = true
		items = append(items, CompletionItem{
			Label:      tok.Lexeme,
			Kind:       CompletionKindIdentifier,
			Detail:     tok.PatternName,
			InsertText: tok.Lexeme,
		})
	}
	return items
}

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindIdentifier
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// IsSource reports whether path names a file the codebase analyzes.
func IsSource(path string) bool {
	return filepath.Ext(path) == ".java"
}

// wordBefore returns the identifier characters immediately left of the
// cursor. character is treated as a byte offset into the line.
func wordBefore(content []byte, line, character int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) || character < 0 {
		return ""
	}
	text := lines[line-1]
	if character > len(text) {
		character = len(text)
	}
	start := character
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	return text[start:character]
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
