package parser

import (
	"testing"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenError, "error"},
		{TokenWhitespace, "whitespace"},
		{TokenCharLiteral, "char literal"},
		{TokenIntegerLiteral, "integer literal"},
		{TokenAssignOperator, "assignment operator"},
		{TokenDelimiter, "delimiter"},
		{TokenAccessModifier, "access modifier"},
		{TokenIdent, "identifier"},
		{TokenKind(9999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenKindSymbol(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenError, "ERROR"},
		{TokenIdent, "IDENTIFIER"},
		{TokenStringLiteral, "STRING_LITERAL"},
		{TokenRelationalOperator, "RELATIONAL_OPERATOR"},
		{TokenPrimitiveType, "PRIMITIVE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.Symbol(); got != tt.want {
				t.Errorf("TokenKind.Symbol() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenKindEveryKindIsNamed(t *testing.T) {
	for k := TokenError; k <= TokenIdent; k++ {
		if k.String() == "unknown" {
			t.Errorf("TokenKind(%d) has no name", int(k))
		}
	}
}

func TestTokenKindPredicates(t *testing.T) {
	trivia := map[TokenKind]bool{TokenWhitespace: true, TokenLineComment: true, TokenBlockComment: true}
	literals := map[TokenKind]bool{
		TokenCharLiteral: true, TokenStringLiteral: true, TokenSpecialLiteral: true,
		TokenDecimalLiteral: true, TokenIntegerLiteral: true,
	}
	for k := TokenError; k <= TokenIdent; k++ {
		if got := k.IsTrivia(); got != trivia[k] {
			t.Errorf("%v.IsTrivia() = %v, want %v", k, got, trivia[k])
		}
		if got := k.IsLiteral(); got != literals[k] {
			t.Errorf("%v.IsLiteral() = %v, want %v", k, got, literals[k])
		}
	}
}

func TestSignificant(t *testing.T) {
	tokens := []Token{
		{Kind: TokenIdent, Lexeme: "a"},
		{Kind: TokenWhitespace, Lexeme: " "},
		{Kind: TokenLineComment, Lexeme: "// x"},
		{Kind: TokenError, Lexeme: "#"},
		{Kind: TokenBlockComment, Lexeme: "/* y */"},
		{Kind: TokenDelimiter, Lexeme: ";"},
	}
	got := Significant(tokens)
	want := []string{"a", "#", ";"}
	if len(got) != len(want) {
		t.Fatalf("Significant() returned %d tokens, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Lexeme != w {
			t.Errorf("Significant()[%d] = %q, want %q", i, got[i].Lexeme, w)
		}
	}
}

func TestErrorTokens(t *testing.T) {
	tokens := []Token{
		{Kind: TokenIdent, Lexeme: "a"},
		{Kind: TokenError, Lexeme: "#"},
		{Kind: TokenError, Lexeme: "ñ"},
	}
	got := ErrorTokens(tokens)
	if len(got) != 2 || got[0].Lexeme != "#" || got[1].Lexeme != "ñ" {
		t.Errorf("ErrorTokens() = %+v, want # and ñ", got)
	}
	if ErrorTokens(tokens[:1]) != nil {
		t.Error("ErrorTokens() without errors should be nil")
	}
}

func TestDefaultReservedWordsCoverKeywordRules(t *testing.T) {
	reserved := wordSet(DefaultReservedWords())
	for _, set := range [][]string{primitiveTypes, controlKeywords, accessModifiers, objectKeywords, specialLiterals} {
		for _, w := range set {
			if !reserved[w] {
				t.Errorf("%q is matched as a keyword but not reserved", w)
			}
		}
	}
}

func TestKeywordsAreWords(t *testing.T) {
	l := NewLexer()
	for _, kw := range Keywords() {
		tokens := l.Tokenize(kw)
		if len(tokens) != 1 || tokens[0].Kind == TokenIdent || tokens[0].IsError() {
			t.Errorf("Keywords() lists %q but it tokenizes as %v", kw, kindsAndLexemes(tokens))
		}
	}
}
