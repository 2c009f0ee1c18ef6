package parser

import "strings"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

// TokenKind identifies the pattern rule that produced a token.
type TokenKind int

const (
	TokenError TokenKind = iota
	TokenWhitespace
	TokenLineComment
	TokenBlockComment

	// Literals
	TokenCharLiteral
	TokenStringLiteral
	TokenSpecialLiteral
	TokenDecimalLiteral
	TokenIntegerLiteral

	// Operators
	TokenCompoundOperator
	TokenAssignOperator
	TokenRelationalOperator
	TokenLogicalOperator
	TokenBitwiseOperator
	TokenTernaryOperator
	TokenArithmeticOperator

	TokenDelimiter

	// Keywords
	TokenPrimitiveType
	TokenControlKeyword
	TokenAccessModifier
	TokenObjectKeyword

	TokenIdent
)

var tokenKindNames = map[TokenKind]string{
	TokenError:              "error",
	TokenWhitespace:         "whitespace",
	TokenLineComment:        "line comment",
	TokenBlockComment:       "block comment",
	TokenCharLiteral:        "char literal",
	TokenStringLiteral:      "string literal",
	TokenSpecialLiteral:     "special literal",
	TokenDecimalLiteral:     "decimal literal",
	TokenIntegerLiteral:     "integer literal",
	TokenCompoundOperator:   "compound operator",
	TokenAssignOperator:     "assignment operator",
	TokenRelationalOperator: "relational operator",
	TokenLogicalOperator:    "logical operator",
	TokenBitwiseOperator:    "bitwise operator",
	TokenTernaryOperator:    "ternary operator",
	TokenArithmeticOperator: "arithmetic operator",
	TokenDelimiter:          "delimiter",
	TokenPrimitiveType:      "primitive type",
	TokenControlKeyword:     "control keyword",
	TokenAccessModifier:     "access modifier",
	TokenObjectKeyword:      "object keyword",
	TokenIdent:              "identifier",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is the stable token ID used when the dictionary has no entry for a
// lexeme, e.g. "IDENTIFIER" or "ERROR".
func (k TokenKind) Symbol() string {
	return strings.ToUpper(strings.ReplaceAll(k.String(), " ", "_"))
}

// IsTrivia reports whether tokens of this kind carry no syntax.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenLineComment || k == TokenBlockComment
}

// IsLiteral reports whether the kind is a literal value.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenCharLiteral, TokenStringLiteral, TokenSpecialLiteral, TokenDecimalLiteral, TokenIntegerLiteral:
		return true
	}
	return false
}

// Token is one classified unit of source text. The first six fields are the
// shape rendered by token tables; Kind and Span are for tooling.
type Token struct {
	ID          string    `json:"id"`
	Lexeme      string    `json:"lexeme"`
	Line        int       `json:"line"`
	Column      int       `json:"column"`
	PatternName string    `json:"pattern"`
	Reserved    bool      `json:"reserved"`
	Kind        TokenKind `json:"-"`
	Span        Span      `json:"-"`
}

func (t Token) IsError() bool {
	return t.Kind == TokenError
}

// Significant drops whitespace and comment tokens, keeping the order of the
// remaining tokens.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ErrorTokens returns the lexical errors in tokens.
func ErrorTokens(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		if tok.IsError() {
			out = append(out, tok)
		}
	}
	return out
}

// DefaultReservedWords returns the built-in reserved word list: every Java
// keyword plus the literals true, false and null.
func DefaultReservedWords() []string {
	return []string{
		"abstract", "assert", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "default", "do", "double",
		"else", "enum", "extends", "final", "finally", "float", "for",
		"goto", "if", "implements", "import", "instanceof", "int",
		"interface", "long", "native", "new", "package", "private",
		"protected", "public", "return", "short", "static", "strictfp",
		"super", "switch", "synchronized", "this", "throw", "throws",
		"transient", "try", "void", "volatile", "while",
		"true", "false", "null",
	}
}
