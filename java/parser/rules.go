package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical pattern names for tokens whose lexeme is not in the dictionary.
const (
	PatternLineComment        = "comment_line"
	PatternBlockComment       = "comment_block"
	PatternWhitespace         = "whitespace"
	PatternCharLiteral        = "literal_char"
	PatternStringLiteral      = "literal_string"
	PatternSpecialLiteral     = "literal_special"
	PatternCompoundOperator   = "operator_compound"
	PatternAssignOperator     = "operator_assignment"
	PatternRelationalOperator = "operator_relational"
	PatternLogicalOperator    = "operator_logical"
	PatternBitwiseOperator    = "operator_bitwise"
	PatternTernaryOperator    = "operator_ternary"
	PatternArithmeticOperator = "operator_arithmetic"
	PatternDecimal            = "number_decimal"
	PatternInteger            = "number_integer"
	PatternDelimiter          = "delimiter"
	PatternPrimitiveType      = "type_primitive"
	PatternControlKeyword     = "keyword_control"
	PatternAccessModifier     = "modifier_access"
	PatternObjectKeyword      = "keyword_object"
	PatternIdentifier         = "identifier"

	PatternInvalidOperator  = "invalid operator"
	PatternInvalidSpecial   = "invalid special character"
	PatternInvalidDelimiter = "invalid delimiter"
	PatternInvalidMath      = "invalid math symbol"
	PatternUnsupportedChar  = "unsupported character"
	PatternUnrecognized     = "unrecognized fragment"
)

// A MatchFunc reports the byte length of the match of a rule starting at
// src[pos:], or 0 when the rule does not match there.
type MatchFunc func(src string, pos int) int

// PatternRule is one entry of the tokenizer's ordered catalog. Earlier rules
// win when several rules match at the same position.
type PatternRule struct {
	Kind  TokenKind
	Name  string
	Match MatchFunc
}

var (
	compoundOperators   = []string{"->", "::", "++", "--"}
	assignOperators     = []string{"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", ">>>="}
	relationalOperators = []string{"==", "!=", "<", ">", "<=", ">="}
	logicalOperators    = []string{"&&", "||", "!"}
	bitwiseOperators    = []string{"&", "|", "^", "~", "<<", ">>", ">>>"}
	ternaryOperators    = []string{"?", ":"}
	arithmeticOperators = []string{"+", "-", "*", "/", "%"}
	delimiters          = []string{"(", ")", "{", "}", "[", "]", ";", ",", ".", "...", "@"}

	invalidOperators   = []string{"===", "!==", "<>", "=>", "**", ":=", "<=>", "^^"}
	invalidSpecials    = []string{"#", "`", "\\", "¿", "¡", "°", "§", "¨", "¤"}
	invalidDelimiters  = []string{"..", ",,", "«", "»", "“", "”", "‘", "’"}
	invalidMathSymbols = []string{"×", "÷", "√", "∑", "∏", "π", "≠", "≤", "≥", "±", "∞", "∫", "≈", "¬", "∆"}

	primitiveTypes  = []string{"byte", "short", "int", "long", "float", "double", "char", "boolean", "void"}
	controlKeywords = []string{
		"if", "else", "switch", "case", "default", "for", "while", "do", "break",
		"continue", "return", "try", "catch", "finally", "throw", "throws",
	}
	accessModifiers = []string{"public", "private", "protected", "static", "final", "abstract"}
	objectKeywords  = []string{"class", "interface", "enum", "extends", "implements", "new", "this", "super"}
	specialLiterals = []string{"true", "false", "null"}
)

// DefaultRules returns a fresh copy of the built-in rule catalog in priority
// order.
func DefaultRules() []PatternRule {
	symbols := symbolTable()
	return []PatternRule{
		{TokenLineComment, PatternLineComment, matchLineComment},
		{TokenBlockComment, PatternBlockComment, matchBlockComment},
		{TokenWhitespace, PatternWhitespace, matchWhitespace},
		{TokenCharLiteral, PatternCharLiteral, matchCharLiteral},
		{TokenStringLiteral, PatternStringLiteral, matchStringLiteral},
		{TokenSpecialLiteral, PatternSpecialLiteral, wordMatcher(specialLiterals)},
		{TokenCompoundOperator, PatternCompoundOperator, symbolMatcher(compoundOperators, symbols)},
		{TokenAssignOperator, PatternAssignOperator, symbolMatcher(assignOperators, symbols)},
		{TokenRelationalOperator, PatternRelationalOperator, anyOf(
			symbolMatcher(relationalOperators, symbols),
			wordMatcher([]string{"instanceof"}),
		)},
		{TokenLogicalOperator, PatternLogicalOperator, symbolMatcher(logicalOperators, symbols)},
		{TokenBitwiseOperator, PatternBitwiseOperator, symbolMatcher(bitwiseOperators, symbols)},
		{TokenTernaryOperator, PatternTernaryOperator, symbolMatcher(ternaryOperators, symbols)},
		{TokenArithmeticOperator, PatternArithmeticOperator, symbolMatcher(arithmeticOperators, symbols)},
		{TokenDecimalLiteral, PatternDecimal, matchDecimal},
		{TokenIntegerLiteral, PatternInteger, matchInteger},
		{TokenDelimiter, PatternDelimiter, symbolMatcher(delimiters, symbols)},
		{TokenPrimitiveType, PatternPrimitiveType, wordMatcher(primitiveTypes)},
		{TokenControlKeyword, PatternControlKeyword, wordMatcher(controlKeywords)},
		{TokenAccessModifier, PatternAccessModifier, wordMatcher(accessModifiers)},
		{TokenObjectKeyword, PatternObjectKeyword, wordMatcher(objectKeywords)},
		{TokenIdent, PatternIdentifier, matchIdentifier},
		{TokenError, PatternInvalidOperator, symbolMatcher(invalidOperators, symbols)},
		{TokenError, PatternInvalidSpecial, symbolMatcher(invalidSpecials, symbols)},
		{TokenError, PatternInvalidDelimiter, symbolMatcher(invalidDelimiters, symbols)},
		{TokenError, PatternInvalidMath, symbolMatcher(invalidMathSymbols, symbols)},
		{TokenError, PatternUnsupportedChar, matchUnsupportedLetter},
	}
}

// Keywords returns every word the catalog classifies as a keyword or special
// literal, in catalog order.
func Keywords() []string {
	var all []string
	for _, set := range [][]string{specialLiterals, {"instanceof"}, primitiveTypes, controlKeywords, accessModifiers, objectKeywords} {
		all = append(all, set...)
	}
	return all
}

// symbolTable is every operator and punctuation sequence the catalog knows,
// valid or forbidden.
func symbolTable() []string {
	var all []string
	for _, set := range [][]string{
		compoundOperators, assignOperators, relationalOperators, logicalOperators,
		bitwiseOperators, ternaryOperators, arithmeticOperators, delimiters,
		invalidOperators, invalidSpecials, invalidDelimiters, invalidMathSymbols,
	} {
		all = append(all, set...)
	}
	return all
}

// symbolMatcher matches the longest symbol of set at pos, unless a longer
// symbol from table also starts there: "==" is never split into "=" "=".
func symbolMatcher(set, table []string) MatchFunc {
	return func(src string, pos int) int {
		rest := src[pos:]
		best := 0
		for _, s := range set {
			if len(s) > best && strings.HasPrefix(rest, s) {
				best = len(s)
			}
		}
		if best == 0 {
			return 0
		}
		for _, s := range table {
			if len(s) > best && strings.HasPrefix(rest, s) {
				return 0
			}
		}
		return best
	}
}

// wordMatcher matches one of words when it is not followed by an identifier
// character.
func wordMatcher(words []string) MatchFunc {
	return func(src string, pos int) int {
		rest := src[pos:]
		for _, w := range words {
			if strings.HasPrefix(rest, w) && (len(rest) == len(w) || !isIdentPart(rest[len(w)])) {
				return len(w)
			}
		}
		return 0
	}
}

func anyOf(matchers ...MatchFunc) MatchFunc {
	return func(src string, pos int) int {
		for _, m := range matchers {
			if n := m(src, pos); n > 0 {
				return n
			}
		}
		return 0
	}
}

func matchLineComment(src string, pos int) int {
	if !strings.HasPrefix(src[pos:], "//") {
		return 0
	}
	end := strings.IndexByte(src[pos:], '\n')
	if end < 0 {
		return len(src) - pos
	}
	return end
}

func matchBlockComment(src string, pos int) int {
	if !strings.HasPrefix(src[pos:], "/*") {
		return 0
	}
	end := strings.Index(src[pos+2:], "*/")
	if end < 0 {
		return 0
	}
	return end + 4
}

func matchWhitespace(src string, pos int) int {
	i := pos
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i - pos
}

func matchCharLiteral(src string, pos int) int {
	if src[pos] != '\'' {
		return 0
	}
	i := pos + 1
	n := literalChar(src, i, '\'')
	if n == 0 {
		return 0
	}
	i += n
	if i >= len(src) || src[i] != '\'' {
		return 0
	}
	return i + 1 - pos
}

func matchStringLiteral(src string, pos int) int {
	if src[pos] != '"' {
		return 0
	}
	i := pos + 1
	for i < len(src) && src[i] != '"' {
		n := literalChar(src, i, '"')
		if n == 0 {
			return 0
		}
		i += n
	}
	if i >= len(src) {
		return 0
	}
	return i + 1 - pos
}

// literalChar returns the byte length of one character or escape sequence
// inside a literal closed by quote, or 0 if there is none.
func literalChar(src string, i int, quote byte) int {
	if i >= len(src) {
		return 0
	}
	switch c := src[i]; c {
	case quote, '\n', '\r':
		return 0
	case '\\':
		if i+1 >= len(src) {
			return 0
		}
		switch src[i+1] {
		case 't', 'n', 'r', 'f', 'b', '"', '\'', '\\':
			return 2
		case 'u':
			if i+6 > len(src) {
				return 0
			}
			for _, h := range []byte(src[i+2 : i+6]) {
				if !isHexDigit(h) {
					return 0
				}
			}
			return 6
		}
		return 0
	default:
		_, size := utf8.DecodeRuneInString(src[i:])
		return size
	}
}

// matchDecimal matches 1.5, .5, 1., 1e10, 1.5e-3f, 2f and 3D. Plain digit
// runs are left to matchInteger.
func matchDecimal(src string, pos int) int {
	i := pos
	whole := digitRun(src, i)
	i += whole
	fraction := false
	if i < len(src) && src[i] == '.' {
		digits := digitRun(src, i+1)
		if whole > 0 || digits > 0 {
			fraction = true
			i += 1 + digits
		}
	}
	if whole == 0 && !fraction {
		return 0
	}
	exponent := false
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if digits := digitRun(src, j); digits > 0 {
			exponent = true
			i = j + digits
		}
	}
	suffix := false
	if i < len(src) {
		switch src[i] {
		case 'f', 'F', 'd', 'D':
			suffix = true
			i++
		}
	}
	if !fraction && !exponent && !suffix {
		return 0
	}
	return i - pos
}

func matchInteger(src string, pos int) int {
	n := digitRun(src, pos)
	if n == 0 {
		return 0
	}
	if i := pos + n; i < len(src) && (src[i] == 'l' || src[i] == 'L') {
		n++
	}
	return n
}

func matchIdentifier(src string, pos int) int {
	if !isIdentStart(src[pos]) {
		return 0
	}
	i := pos + 1
	for i < len(src) && isIdentPart(src[i]) {
		i++
	}
	return i - pos
}

func matchUnsupportedLetter(src string, pos int) int {
	if src[pos] < utf8.RuneSelf {
		return 0
	}
	r, size := utf8.DecodeRuneInString(src[pos:])
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return 0
	}
	return size
}

func digitRun(src string, i int) int {
	start := i
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	return i - start
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
