package parser

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/subjava/java/dictionary"
)

type Option func(*Lexer)

// WithFile records path in token spans.
func WithFile(path string) Option {
	return func(l *Lexer) {
		l.file = path
	}
}

func WithDictionary(d *dictionary.Dictionary) Option {
	return func(l *Lexer) {
		l.dict = d
	}
}

// WithDictionaryFile loads the dictionary at path when the lexer is built. A
// missing file leaves the lexer with built-in pattern names.
func WithDictionaryFile(path string) Option {
	return func(l *Lexer) {
		l.dict = dictionary.Load(path)
	}
}

// WithRules replaces the rule catalog. Rules are tried in slice order.
func WithRules(rules []PatternRule) Option {
	return func(l *Lexer) {
		l.rules = rules
	}
}

// WithReservedWords replaces the fallback reserved word set used for lexemes
// the dictionary does not know.
func WithReservedWords(words []string) Option {
	return func(l *Lexer) {
		l.reserved = wordSet(words)
	}
}

// Lexer splits source text into tokens using an ordered rule catalog. A
// Lexer holds only configuration and may be shared between goroutines.
type Lexer struct {
	file     string
	dict     *dictionary.Dictionary
	rules    []PatternRule
	reserved map[string]bool
}

func NewLexer(opts ...Option) *Lexer {
	l := &Lexer{
		rules:    DefaultRules(),
		reserved: wordSet(DefaultReservedWords()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize returns the significant tokens of source: whitespace and comments
// are consumed but not returned. Malformed input never fails; it shows up
// as tokens of kind TokenError.
func (l *Lexer) Tokenize(source string) []Token {
	return Significant(l.Scan(source))
}

// Scan returns the complete segmentation of source, whitespace and comments
// included. Concatenating the lexemes reproduces source exactly.
func (l *Lexer) Scan(source string) []Token {
	s := &scan{lexer: l, src: source, lines: lineOffsets(source)}
	gap := -1
	pos := 0
	for pos < len(source) {
		rule, n := l.match(source, pos)
		if n == 0 {
			if gap < 0 {
				gap = pos
			}
			pos = skipUnrecognized(source, pos)
			continue
		}
		if gap >= 0 {
			s.emitGap(gap, pos)
			gap = -1
		}
		s.emit(rule, pos, pos+n)
		pos += n
	}
	if gap >= 0 {
		s.emitGap(gap, len(source))
	}
	return s.tokens
}

func (l *Lexer) match(src string, pos int) (PatternRule, int) {
	for _, rule := range l.rules {
		if n := rule.Match(src, pos); n > 0 {
			return rule, n
		}
	}
	return PatternRule{}, 0
}

// skipUnrecognized advances past one character no rule accepts. A quote
// that does not open a valid literal is skipped the same way, so the gap
// ends at the next token any rule recognizes.
func skipUnrecognized(src string, pos int) int {
	_, size := utf8.DecodeRuneInString(src[pos:])
	return pos + size
}

type scan struct {
	lexer  *Lexer
	src    string
	lines  []int
	tokens []Token
}

func (s *scan) emit(rule PatternRule, start, end int) {
	lexeme := s.src[start:end]
	tok := Token{
		ID:          rule.Kind.Symbol(),
		Lexeme:      lexeme,
		PatternName: rule.Name,
		Kind:        rule.Kind,
		Span:        Span{Start: s.position(start), End: s.position(end)},
	}
	tok.Line, tok.Column = tok.Span.Start.Line, tok.Span.Start.Column

	if rule.Kind != TokenError && !rule.Kind.IsTrivia() {
		if entry, ok := s.lexer.dict.Lookup(lexeme); ok {
			tok.ID = entry.ID
			tok.PatternName = entry.PatternName
			tok.Reserved = entry.Reserved
		} else {
			tok.Reserved = s.lexer.reserved[lexeme]
		}
	}
	s.tokens = append(s.tokens, tok)
}

func (s *scan) emitGap(start, end int) {
	rule := PatternRule{Kind: TokenError, Name: PatternUnrecognized}
	if strings.TrimFunc(s.src[start:end], unicode.IsSpace) == "" {
		rule = PatternRule{Kind: TokenWhitespace, Name: PatternWhitespace}
	}
	s.emit(rule, start, end)
}

// position converts a byte offset into a 1-based line and a 1-based column
// counted in characters.
func (s *scan) position(offset int) Position {
	line := sort.SearchInts(s.lines, offset)
	lineStart := 0
	if line > 0 {
		lineStart = s.lines[line-1] + 1
	}
	return Position{
		File:   s.lexer.file,
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCountInString(s.src[lineStart:offset]) + 1,
	}
}

// lineOffsets returns the byte offsets of every newline in src.
func lineOffsets(src string) []int {
	var offsets []int
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Tokenize is a convenience for NewLexer(WithDictionary(dict)).Tokenize.
func Tokenize(source string, dict *dictionary.Dictionary) []Token {
	return NewLexer(WithDictionary(dict)).Tokenize(source)
}
